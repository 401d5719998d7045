package shutdown

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func Test_ListenForShutdown(t *testing.T) {
	l := zap.NewNop()

	t.Run("Should run the callback once a signal arrives", func(t *testing.T) {
		notifier := make(chan os.Signal, 1)
		done := make(chan bool, 1)
		called := false

		notifier <- syscall.SIGTERM
		ListenForShutdown(notifier, done, func() {
			called = true
		}, time.Second, l)

		assert.True(t, called)
	})
	t.Run("Should give up after the timeout", func(t *testing.T) {
		notifier := make(chan os.Signal, 1)
		done := make(chan bool, 1)
		release := make(chan struct{})
		defer close(release)

		notifier <- syscall.SIGINT
		started := time.Now()
		ListenForShutdown(notifier, done, func() {
			<-release
		}, 50*time.Millisecond, l)

		assert.GreaterOrEqual(t, time.Since(started), 50*time.Millisecond)
	})
}
