// Package oracle is the single operation a host invokes per trigger event: decode the
// envelope, resolve a verdict for the order, and encode the result for settlement.
package oracle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tony1908/pear2pear/pkg/logger"
	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/resolver"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
	"go.uber.org/zap"
)

// Oracle holds no per-invocation state and is safe for concurrent use.
type Oracle struct {
	resolver resolver.Resolver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewOracle(r resolver.Resolver, m *metrics.Metrics, logger *zap.Logger) *Oracle {
	return &Oracle{
		resolver: r,
		metrics:  m,
		logger:   logger,
	}
}

// Run decodes the JSON trigger envelope and returns abi.encode(DataWithId). Only decode
// failures are returned as errors; the resolver cannot fail.
func (o *Oracle) Run(ctx context.Context, envelope []byte) ([]byte, error) {
	action, err := triggerCodec.UnmarshalTriggerAction(envelope)
	if err != nil {
		o.metrics.ObserveInvocation(metrics.Outcome_DecodeFailure, time.Now())
		o.logger.Sugar().Warnw("Failed to parse trigger envelope", zap.Error(err))
		return nil, err
	}
	return o.RunAction(ctx, action)
}

func (o *Oracle) RunAction(ctx context.Context, action *triggerCodec.TriggerAction) ([]byte, error) {
	started := time.Now()
	if action == nil {
		o.metrics.ObserveInvocation(metrics.Outcome_DecodeFailure, started)
		return nil, errors.New("trigger action is required")
	}

	l := o.logger.With(
		zap.String("invocationId", uuid.New().String()),
		zap.String("serviceId", action.Config.ServiceId),
		zap.String("workflowId", action.Config.WorkflowId),
	)
	ctx = logger.WithLogger(ctx, l)

	triggerInfo, order, err := triggerCodec.DecodeTriggerEvent(&action.Data)
	if err != nil {
		o.metrics.ObserveInvocation(metrics.Outcome_DecodeFailure, started)
		l.Sugar().Warnw("Failed to decode trigger",
			zap.String("triggerType", string(action.Data.Type)),
			zap.Error(err),
		)
		return nil, err
	}

	verdict := o.resolver.Resolve(ctx, order)

	result, err := triggerCodec.EncodeTriggerOutput(triggerInfo.TriggerId, order.OrderId, verdict)
	if err != nil {
		o.metrics.ObserveInvocation(metrics.Outcome_EncodeFailure, started)
		l.Sugar().Errorw("Failed to encode trigger output", zap.Error(err))
		return nil, errors.Wrap(err, "failed to encode trigger output")
	}

	o.metrics.ObserveInvocation(metrics.Outcome_Success, started)
	l.Sugar().Infow("Resolved trigger",
		zap.Uint64("triggerId", triggerInfo.TriggerId),
		zap.String("orderId", order.OrderId.Dec()),
		zap.String("strategy", string(o.resolver.Strategy())),
		zap.Bool("verdict", verdict),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}
