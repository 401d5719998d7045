package server

import (
	"context"
	"fmt"
	"time"

	performerV1 "github.com/Layr-Labs/protocol-apis/gen/protos/eigenlayer/hourglass/v1/performer"
	healthV1 "github.com/Layr-Labs/protocol-apis/gen/protos/grpc/health/v1"
	"github.com/tony1908/pear2pear/pkg/performer/worker"
	"github.com/tony1908/pear2pear/pkg/rpcServer"
	"go.uber.org/zap"
)

type OraclePerformerConfig struct {
	Port int
	// Timeout bounds a single ExecuteTask call.
	Timeout time.Duration
}

type OraclePerformer struct {
	healthV1.HealthServer
	config     *OraclePerformerConfig
	rpcServer  *rpcServer.RpcServer
	taskWorker worker.IWorker
	logger     *zap.Logger
}

func NewOraclePerformer(
	cfg *OraclePerformerConfig,
	rpcServer *rpcServer.RpcServer,
	worker worker.IWorker,
	logger *zap.Logger,
) *OraclePerformer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	op := &OraclePerformer{
		config:     cfg,
		rpcServer:  rpcServer,
		taskWorker: worker,
		logger:     logger,
	}
	op.registerHandlers()

	return op
}

func NewOraclePerformerWithRpcServer(
	cfg *OraclePerformerConfig,
	worker worker.IWorker,
	logger *zap.Logger,
) (*OraclePerformer, error) {
	rpc, err := rpcServer.NewRpcServer(&rpcServer.RpcServerConfig{
		GrpcPort: cfg.Port,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC server: %w", err)
	}
	return NewOraclePerformer(cfg, rpc, worker, logger), nil
}

func (op *OraclePerformer) registerHandlers() {
	performerV1.RegisterPerformerServiceServer(op.rpcServer.GetGrpcServer(), op)
	healthV1.RegisterHealthServer(op.rpcServer.GetGrpcServer(), op)
}

// Start serves until ctx is cancelled.
func (op *OraclePerformer) Start(ctx context.Context) error {
	go func() {
		if err := op.rpcServer.Start(ctx); err != nil {
			op.logger.Sugar().Errorw("Failed to start RPC server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	op.logger.Sugar().Infow("Shutting down grpc server")
	return nil
}
