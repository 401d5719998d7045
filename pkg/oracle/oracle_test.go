package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/priceFeed"
	"github.com/tony1908/pear2pear/pkg/resolver"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
	"go.uber.org/zap"
)

var testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

type spyResolver struct {
	mu      sync.Mutex
	verdict bool
	orders  []*triggerCodec.OrderData
}

func (s *spyResolver) Resolve(_ context.Context, order *triggerCodec.OrderData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order)
	return s.verdict
}

func (s *spyResolver) Strategy() oracleConfig.ResolverStrategyType {
	return "spy"
}

func (s *spyResolver) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func envelope(t *testing.T, triggerId uint64, orderId *uint256.Int) []byte {
	t.Helper()
	action, err := triggerCodec.NewEthContractEventAction(testContract, "local", triggerId, orderId)
	require.NoError(t, err)
	b, err := triggerCodec.MarshalTriggerAction(action)
	require.NoError(t, err)
	return b
}

func decodeResult(t *testing.T, out []byte) (uint64, *uint256.Int, bool) {
	t.Helper()
	outer, err := triggerCodec.DecodeDataWithId(out)
	require.NoError(t, err)
	inner, err := triggerCodec.DecodeAvsOutputData(outer.Data)
	require.NoError(t, err)
	return outer.TriggerId, inner.OrderId, inner.Result
}

func Test_Oracle_Run(t *testing.T) {
	l := zap.NewNop()

	t.Run("Should resolve a trigger end to end with the static resolver", func(t *testing.T) {
		o := NewOracle(resolver.NewStaticResolver(true, nil), nil, l)

		out, err := o.Run(context.Background(), envelope(t, 42, uint256.NewInt(7)))
		require.NoError(t, err)
		require.Len(t, out, 192)

		triggerId, orderId, result := decodeResult(t, out)
		assert.Equal(t, uint64(42), triggerId)
		assert.Equal(t, uint256.NewInt(7), orderId)
		assert.True(t, result)

		expected, err := triggerCodec.EncodeTriggerOutput(42, uint256.NewInt(7), true)
		require.NoError(t, err)
		assert.Equal(t, expected, out)
	})
	t.Run("Should pass the decoded order to the resolver", func(t *testing.T) {
		spy := &spyResolver{verdict: false}
		o := NewOracle(spy, nil, l)

		orderId := new(uint256.Int).SetAllOne()
		out, err := o.Run(context.Background(), envelope(t, 1<<63, orderId))
		require.NoError(t, err)

		require.Equal(t, 1, spy.calls())
		assert.Equal(t, orderId, spy.orders[0].OrderId)

		triggerId, gotOrderId, result := decodeResult(t, out)
		assert.Equal(t, uint64(1<<63), triggerId)
		assert.Equal(t, orderId, gotOrderId)
		assert.False(t, result)
	})
	t.Run("Should fail without calling the resolver when the envelope is malformed", func(t *testing.T) {
		spy := &spyResolver{verdict: true}
		o := NewOracle(spy, nil, l)

		for _, in := range [][]byte{nil, []byte("{"), []byte("null"), []byte(`{"data": {"type": 5}}`)} {
			out, err := o.Run(context.Background(), in)
			assert.Error(t, err)
			assert.Nil(t, out)
		}
		assert.Equal(t, 0, spy.calls())
	})
	t.Run("Should fail without calling the resolver for unsupported trigger types", func(t *testing.T) {
		spy := &spyResolver{verdict: true}
		o := NewOracle(spy, nil, l)

		in := []byte(`{"config": {"serviceId": "svc"}, "data": {"type": "cron", "cron": {"triggerTime": 1}}}`)
		out, err := o.Run(context.Background(), in)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, triggerCodec.ErrUnsupportedTrigger))
		assert.Equal(t, "unsupported trigger data type", err.Error())
		assert.Equal(t, 0, spy.calls())
	})
	t.Run("Should fail with a stage error when the order payload is truncated", func(t *testing.T) {
		spy := &spyResolver{verdict: true}
		o := NewOracle(spy, nil, l)

		lg, err := triggerCodec.EncodeNewTriggerLog(testContract, &triggerCodec.TriggerInfo{
			TriggerId: 9,
			Data:      []byte{0x01, 0x02},
		})
		require.NoError(t, err)
		action := &triggerCodec.TriggerAction{Data: triggerCodec.TriggerData{
			Type:             triggerCodec.TriggerDataType_EthContractEvent,
			EthContractEvent: &triggerCodec.EthContractEvent{ContractAddress: testContract, Log: lg},
		}}

		out, err := o.RunAction(context.Background(), action)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Contains(t, err.Error(), "failed to decode trigger data")
		assert.Equal(t, 0, spy.calls())
	})
	t.Run("Should reject a nil action", func(t *testing.T) {
		o := NewOracle(&spyResolver{}, nil, l)
		_, err := o.RunAction(context.Background(), nil)
		assert.Error(t, err)
	})
	t.Run("Should produce a false verdict when the price feed is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		feed, err := priceFeed.NewClient(&priceFeed.ClientConfig{Url: server.URL}, l)
		require.NoError(t, err)
		o := NewOracle(resolver.NewThresholdResolver(feed, 50000, nil, l), metrics.NewMetrics(), l)

		out, err := o.Run(context.Background(), envelope(t, 42, uint256.NewInt(7)))
		require.NoError(t, err)

		triggerId, orderId, result := decodeResult(t, out)
		assert.Equal(t, uint64(42), triggerId)
		assert.Equal(t, uint256.NewInt(7), orderId)
		assert.False(t, result)
	})
	t.Run("Should handle concurrent invocations independently", func(t *testing.T) {
		o := NewOracle(resolver.NewStaticResolver(true, nil), metrics.NewMetrics(), l)

		envelopes := make([][]byte, 16)
		for i := range envelopes {
			envelopes[i] = envelope(t, uint64(i), uint256.NewInt(uint64(i)*10))
		}

		var wg sync.WaitGroup
		for i := uint64(0); i < 16; i++ {
			wg.Add(1)
			go func(i uint64) {
				defer wg.Done()
				out, err := o.Run(context.Background(), envelopes[i])
				if !assert.NoError(t, err) {
					return
				}
				expected, _ := triggerCodec.EncodeTriggerOutput(i, uint256.NewInt(i*10), true)
				assert.Equal(t, hexutil.Encode(expected), hexutil.Encode(out))
			}(i)
		}
		wg.Wait()
	})
}
