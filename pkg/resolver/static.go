package resolver

import (
	"context"

	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
)

// StaticResolver returns the same verdict for every order.
type StaticResolver struct {
	verdict bool
	metrics *metrics.Metrics
}

func NewStaticResolver(verdict bool, m *metrics.Metrics) *StaticResolver {
	return &StaticResolver{
		verdict: verdict,
		metrics: m,
	}
}

func (sr *StaticResolver) Resolve(_ context.Context, _ *triggerCodec.OrderData) bool {
	sr.metrics.ObserveVerdict(string(sr.Strategy()), sr.verdict)
	return sr.verdict
}

func (sr *StaticResolver) Strategy() oracleConfig.ResolverStrategyType {
	return oracleConfig.ResolverStrategy_Static
}
