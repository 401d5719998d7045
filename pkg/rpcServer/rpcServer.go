package rpcServer

import (
	"context"
	"fmt"
	"net"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_ctxtags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

const maxMessageSize = 10 * 1024 * 1024

type RpcServerConfig struct {
	GrpcPort int
}

type RpcServer struct {
	RpcConfig  *RpcServerConfig
	grpcServer *grpc.Server
	logger     *zap.Logger
}

func NewRpcServer(config *RpcServerConfig, logger *zap.Logger) (*RpcServer, error) {
	if config == nil {
		return nil, fmt.Errorf("rpc server config is required")
	}

	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandler(func(p interface{}) error {
			logger.Sugar().Errorw("Recovered from panic in grpc handler", zap.Any("panic", p))
			return status.Errorf(codes.Internal, "internal error")
		}),
	}

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMessageSize),
		grpc.MaxSendMsgSize(maxMessageSize),
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_ctxtags.UnaryServerInterceptor(),
			grpc_zap.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		)),
	)
	reflection.Register(grpcServer)

	return &RpcServer{
		RpcConfig:  config,
		grpcServer: grpcServer,
		logger:     logger,
	}, nil
}

func (s *RpcServer) GetGrpcServer() *grpc.Server {
	return s.grpcServer
}

// Start listens on the configured port and serves until ctx is cancelled.
func (s *RpcServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.RpcConfig.GrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.RpcConfig.GrpcPort, err)
	}
	return s.Serve(ctx, lis)
}

// Serve serves on an existing listener until ctx is cancelled, then stops gracefully.
func (s *RpcServer) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Sugar().Infow("Stopping grpc server")
		s.grpcServer.GracefulStop()
	}()

	s.logger.Sugar().Infow("Starting grpc server", zap.String("address", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc server error: %w", err)
	}
	return nil
}
