package shutdown

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func CreateGracefulShutdownChannel() chan os.Signal {
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	return gracefulShutdown
}

// ListenForShutdown blocks until a signal arrives on notifier, runs callback in the
// background and waits for done to be signalled or for timeout to elapse.
func ListenForShutdown(
	notifier chan os.Signal,
	done chan bool,
	callback func(),
	timeout time.Duration,
	logger *zap.Logger,
) {
	sig := <-notifier
	logger.Sugar().Infow("Received shutdown signal", zap.String("signal", sig.String()))

	go func() {
		callback()
		done <- true
	}()

	select {
	case <-done:
		logger.Sugar().Infow("Graceful shutdown complete")
	case <-time.After(timeout):
		logger.Sugar().Warnw("Graceful shutdown timed out", zap.Duration("timeout", timeout))
	}
}
