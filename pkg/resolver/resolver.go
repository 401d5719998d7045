// Package resolver produces the boolean verdict for a decoded order.
package resolver

import (
	"context"
	"fmt"

	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/priceFeed"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
	"go.uber.org/zap"
)

// Resolver never fails; every strategy must reduce its own errors to a verdict.
type Resolver interface {
	Resolve(ctx context.Context, order *triggerCodec.OrderData) bool
	Strategy() oracleConfig.ResolverStrategyType
}

// NewResolver builds the resolver selected by cfg. cfg is expected to have been validated.
func NewResolver(cfg *oracleConfig.ResolverConfig, m *metrics.Metrics, logger *zap.Logger) (Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("resolver config is required")
	}
	switch cfg.Strategy {
	case oracleConfig.ResolverStrategy_Static, "":
		return NewStaticResolver(cfg.GetStaticVerdict(), m), nil
	case oracleConfig.ResolverStrategy_Threshold:
		if cfg.PriceFeed == nil {
			return nil, fmt.Errorf("threshold resolver requires a price feed config")
		}
		feed, err := priceFeed.NewClient(cfg.PriceFeed.ToClientConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create price feed client: %w", err)
		}
		threshold := cfg.Threshold
		if threshold == 0 {
			threshold = oracleConfig.DefaultPriceThreshold
		}
		return NewThresholdResolver(feed, threshold, m, logger), nil
	default:
		return nil, fmt.Errorf("unsupported resolver strategy %q", cfg.Strategy)
	}
}
