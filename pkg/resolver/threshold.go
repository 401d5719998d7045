package resolver

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tony1908/pear2pear/pkg/logger"
	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/priceFeed"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
	"go.uber.org/zap"
)

const (
	failureReason_RequestFailed     = "request_failed"
	failureReason_MalformedResponse = "malformed_response"
)

// ThresholdResolver answers true when the fetched price is strictly above the threshold.
// The order contents do not influence the verdict.
//
// Any fetch failure resolves to false. A false verdict therefore does not distinguish
// "price at or below threshold" from "price unavailable"; the two cases are only told
// apart in the logs and the price_fetch_failures_total counter.
type ThresholdResolver struct {
	feed      priceFeed.PriceFeed
	threshold float64
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewThresholdResolver(feed priceFeed.PriceFeed, threshold float64, m *metrics.Metrics, logger *zap.Logger) *ThresholdResolver {
	return &ThresholdResolver{
		feed:      feed,
		threshold: threshold,
		metrics:   m,
		logger:    logger,
	}
}

func (tr *ThresholdResolver) Resolve(ctx context.Context, order *triggerCodec.OrderData) bool {
	l := logger.FromContext(ctx, tr.logger)

	price, err := tr.feed.GetPrice(ctx)
	if err != nil {
		if errors.Is(err, priceFeed.ErrMalformedResponse) {
			l.Sugar().Warnw("Failed to parse price response", zap.Error(err))
			tr.metrics.ObservePriceFetchFailure(failureReason_MalformedResponse)
		} else {
			l.Sugar().Warnw("Price request failed", zap.Error(err))
			tr.metrics.ObservePriceFetchFailure(failureReason_RequestFailed)
		}
		tr.metrics.ObserveVerdict(string(tr.Strategy()), false)
		return false
	}

	verdict := price > tr.threshold
	l.Sugar().Infow("Resolved verdict",
		zap.Float64("price", price),
		zap.Float64("threshold", tr.threshold),
		zap.Bool("verdict", verdict),
		zap.String("orderId", orderIdString(order)),
	)
	tr.metrics.ObserveVerdict(string(tr.Strategy()), verdict)
	return verdict
}

func (tr *ThresholdResolver) Strategy() oracleConfig.ResolverStrategyType {
	return oracleConfig.ResolverStrategy_Threshold
}

func orderIdString(order *triggerCodec.OrderData) string {
	if order == nil || order.OrderId == nil {
		return ""
	}
	return order.OrderId.Dec()
}
