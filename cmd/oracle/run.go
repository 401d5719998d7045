package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tony1908/pear2pear/pkg/logger"
	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/oracle"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/performer/httpServer"
	"github.com/tony1908/pear2pear/pkg/performer/server"
	"github.com/tony1908/pear2pear/pkg/performer/worker"
	"github.com/tony1908/pear2pear/pkg/resolver"
	"github.com/tony1908/pear2pear/pkg/shutdown"
	"go.uber.org/zap"
)

func init() {
	runCmd.Flags().String(oracleConfig.Transport, string(oracleConfig.TransportType_Grpc), "performer transport: grpc or http")
	runCmd.Flags().Int(oracleConfig.GrpcPort, oracleConfig.DefaultPort, "gRPC performer port")
	runCmd.Flags().Int(oracleConfig.HttpPort, oracleConfig.DefaultPort, "HTTP performer port")
	runCmd.Flags().VisitAll(bindFlag)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the oracle performer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Config.Validate(); err != nil {
			return err
		}

		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: Config.Debug})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer l.Sync() //nolint:errcheck

		l.Sugar().Infow("oracle run",
			zap.String("transport", string(Config.Transport)),
			zap.String("strategy", string(Config.Resolver.Strategy)),
		)

		m := metrics.NewMetrics()
		r, err := resolver.NewResolver(Config.Resolver, m, l)
		if err != nil {
			return fmt.Errorf("failed to create resolver: %w", err)
		}
		w := worker.NewOracleWorker(oracle.NewOracle(r, m, l), l)

		ctx, cancel := context.WithCancel(context.Background())

		switch Config.Transport {
		case oracleConfig.TransportType_Http:
			hp := httpServer.NewOracleHttpPerformer(&httpServer.OracleHttpPerformerConfig{
				Port: Config.HttpPort,
			}, w, m, l)
			go func() {
				if err := hp.StartHttpServer(ctx); err != nil {
					l.Sugar().Fatalw("Failed to run HTTP performer", zap.Error(err))
				}
			}()
		default:
			gp, err := server.NewOraclePerformerWithRpcServer(&server.OraclePerformerConfig{
				Port: Config.GrpcPort,
			}, w, l)
			if err != nil {
				cancel()
				return fmt.Errorf("failed to create gRPC performer: %w", err)
			}
			go func() {
				if err := gp.Start(ctx); err != nil {
					l.Sugar().Fatalw("Failed to run gRPC performer", zap.Error(err))
				}
			}()
		}

		gracefulShutdownNotifier := shutdown.CreateGracefulShutdownChannel()
		done := make(chan bool)
		shutdown.ListenForShutdown(gracefulShutdownNotifier, done, func() {
			l.Sugar().Info("Shutting down...")
			cancel()
		}, time.Second*5, l)
		return nil
	},
}
