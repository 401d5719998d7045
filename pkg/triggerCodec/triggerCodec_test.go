package triggerCodec

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

// word returns the 32 byte big-endian word at index i.
func word(t *testing.T, b []byte, i int) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(b), (i+1)*32, "buffer too short for word %d", i)
	return b[i*32 : (i+1)*32]
}

func wordUint64(t *testing.T, b []byte, i int) uint64 {
	w := word(t, b, i)
	for _, c := range w[:24] {
		require.Zero(t, c)
	}
	return binary.BigEndian.Uint64(w[24:])
}

// decodeOutputByHand walks the output layout without go-ethereum:
// [0x20][triggerId][0x40][len=64][orderId][result]
func decodeOutputByHand(t *testing.T, out []byte) (uint64, *uint256.Int, bool) {
	t.Helper()
	require.Len(t, out, 192)
	require.Equal(t, uint64(0x20), wordUint64(t, out, 0))
	triggerId := wordUint64(t, out, 1)
	require.Equal(t, uint64(0x40), wordUint64(t, out, 2))
	require.Equal(t, uint64(64), wordUint64(t, out, 3))
	orderId := new(uint256.Int).SetBytes32(word(t, out, 4))
	result := wordUint64(t, out, 5)
	require.LessOrEqual(t, result, uint64(1))
	return triggerId, orderId, result == 1
}

func buildEvent(t *testing.T, triggerId uint64, orderId uint64) *TriggerData {
	t.Helper()
	action, err := NewEthContractEventAction(testContract, "local", triggerId, uint256.NewInt(orderId))
	require.NoError(t, err)
	return &action.Data
}

func Test_NewTriggerEventID(t *testing.T) {
	assert.Equal(t, crypto.Keccak256Hash([]byte("NewTrigger(bytes)")), NewTriggerEventID)
}

func Test_EncodeTriggerOutput(t *testing.T) {
	t.Run("Should produce the solidity abi.encode layout", func(t *testing.T) {
		out, err := EncodeTriggerOutput(42, uint256.NewInt(7), true)
		require.NoError(t, err)

		triggerId, orderId, result := decodeOutputByHand(t, out)
		assert.Equal(t, uint64(42), triggerId)
		assert.Equal(t, uint64(7), orderId.Uint64())
		assert.True(t, result)
	})
	t.Run("Should encode the extremes of every field", func(t *testing.T) {
		maxOrder := new(uint256.Int).SetAllOne()
		for _, result := range []bool{true, false} {
			out, err := EncodeTriggerOutput(^uint64(0), maxOrder, result)
			require.NoError(t, err)
			require.NotEmpty(t, out)

			triggerId, orderId, decodedResult := decodeOutputByHand(t, out)
			assert.Equal(t, ^uint64(0), triggerId)
			assert.True(t, maxOrder.Eq(orderId))
			assert.Equal(t, result, decodedResult)
		}
	})
	t.Run("Should treat a nil order id as zero", func(t *testing.T) {
		out, err := EncodeTriggerOutput(0, nil, false)
		require.NoError(t, err)
		_, orderId, _ := decodeOutputByHand(t, out)
		assert.True(t, orderId.IsZero())
	})
	t.Run("Should compose the two layers", func(t *testing.T) {
		inner, err := EncodeAvsOutputData(uint256.NewInt(9), false)
		require.NoError(t, err)
		assert.Len(t, inner, 64)

		outer, err := EncodeDataWithId(3, inner)
		require.NoError(t, err)

		combined, err := EncodeTriggerOutput(3, uint256.NewInt(9), false)
		require.NoError(t, err)
		assert.Equal(t, outer, combined)

		dwi, err := DecodeDataWithId(combined)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), dwi.TriggerId)
		assert.Equal(t, inner, dwi.Data)

		aod, err := DecodeAvsOutputData(dwi.Data)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), aod.OrderId.Uint64())
		assert.False(t, aod.Result)
	})
}

func Test_DecodeTriggerEvent(t *testing.T) {
	t.Run("Should decode a well formed NewTrigger log", func(t *testing.T) {
		info, order, err := DecodeTriggerEvent(buildEvent(t, 42, 7))
		require.NoError(t, err)
		assert.Equal(t, uint64(42), info.TriggerId)
		assert.Equal(t, uint64(7), order.OrderId.Uint64())
	})
	t.Run("Should preserve a full width order id", func(t *testing.T) {
		orderId, _ := uint256.FromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))
		action, err := NewEthContractEventAction(testContract, "local", 1, orderId)
		require.NoError(t, err)

		_, order, err := DecodeTriggerEvent(&action.Data)
		require.NoError(t, err)
		assert.True(t, orderId.Eq(order.OrderId))
	})
	t.Run("Should reject unsupported trigger types", func(t *testing.T) {
		for _, data := range []*TriggerData{
			{Type: TriggerDataType_CosmosContractEvent, CosmosContractEvent: &CosmosContractEvent{EventType: "new-trigger"}},
			{Type: TriggerDataType_BlockInterval, BlockInterval: &BlockInterval{BlockHeight: 10}},
			{Type: TriggerDataType_Cron, Cron: &CronTrigger{TriggerTime: 1}},
			{Type: TriggerDataType_Raw, Raw: []byte{0x01}},
			{Type: "something_else"},
		} {
			info, order, err := DecodeTriggerEvent(data)
			assert.True(t, errors.Is(err, ErrUnsupportedTrigger), "type %s", data.Type)
			assert.Nil(t, info)
			assert.Nil(t, order)
		}
	})
	t.Run("Should reject nil data and a missing log", func(t *testing.T) {
		_, _, err := DecodeTriggerEvent(nil)
		assert.Error(t, err)

		_, _, err = DecodeTriggerEvent(&TriggerData{Type: TriggerDataType_EthContractEvent})
		assert.Error(t, err)

		_, _, err = DecodeTriggerEvent(&TriggerData{
			Type:             TriggerDataType_EthContractEvent,
			EthContractEvent: &EthContractEvent{ContractAddress: testContract},
		})
		assert.Error(t, err)
	})
	t.Run("Should reject a log with another signature", func(t *testing.T) {
		data := buildEvent(t, 1, 1)
		data.EthContractEvent.Log.Topics[0] = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

		info, order, err := DecodeTriggerEvent(data)
		assert.True(t, errors.Is(err, ErrEventMismatch))
		assert.Contains(t, err.Error(), "failed to decode NewTrigger event")
		assert.Nil(t, info)
		assert.Nil(t, order)

		data.EthContractEvent.Log.Topics = nil
		_, _, err = DecodeTriggerEvent(data)
		assert.True(t, errors.Is(err, ErrEventMismatch))
	})
	t.Run("Should name the stage that failed", func(t *testing.T) {
		newLog := func(triggerInfo []byte) *TriggerData {
			eventData, err := iTypesABI.Events[NewTriggerEventName].Inputs.Pack(triggerInfo)
			require.NoError(t, err)
			return &TriggerData{
				Type: TriggerDataType_EthContractEvent,
				EthContractEvent: &EthContractEvent{
					Log: &EventLog{Address: testContract, Topics: []common.Hash{NewTriggerEventID}, Data: eventData},
				},
			}
		}

		// stage 1: event data truncated
		data := buildEvent(t, 1, 1)
		data.EthContractEvent.Log.Data = data.EthContractEvent.Log.Data[:40]
		_, _, err := DecodeTriggerEvent(data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode NewTrigger event")

		// stage 2: event carries bytes that are not a TriggerInfo
		_, _, err = DecodeTriggerEvent(newLog([]byte{0xde, 0xad, 0xbe, 0xef}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode trigger info")

		// stage 3: TriggerInfo.data is not an order
		info, err := EncodeTriggerInfo(&TriggerInfo{TriggerId: 5, Data: []byte{0x01, 0x02}})
		require.NoError(t, err)
		_, _, err = DecodeTriggerEvent(newLog(info))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode trigger data")
	})
}

func Test_DecodeOutputRejectsBadBool(t *testing.T) {
	inner, err := EncodeAvsOutputData(uint256.NewInt(1), true)
	require.NoError(t, err)
	inner[63] = 2

	_, err = DecodeAvsOutputData(inner)
	assert.Error(t, err)
}

func Test_Envelope(t *testing.T) {
	t.Run("Should round trip through JSON", func(t *testing.T) {
		action, err := NewEthContractEventAction(testContract, "local", 42, uint256.NewInt(7))
		require.NoError(t, err)
		action.Config = TriggerConfig{ServiceId: "p2p", WorkflowId: "default"}

		envelope, err := MarshalTriggerAction(action)
		require.NoError(t, err)

		parsed, err := UnmarshalTriggerAction(envelope)
		require.NoError(t, err)
		assert.Equal(t, action, parsed)

		info, order, err := DecodeTriggerEvent(&parsed.Data)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), info.TriggerId)
		assert.Equal(t, uint64(7), order.OrderId.Uint64())
	})
	t.Run("Should use hex encoding for log fields", func(t *testing.T) {
		action, err := NewEthContractEventAction(testContract, "local", 1, uint256.NewInt(1))
		require.NoError(t, err)
		envelope, err := MarshalTriggerAction(action)
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(envelope, &raw))
		lg := raw["data"].(map[string]interface{})["ethContractEvent"].(map[string]interface{})["log"].(map[string]interface{})
		assert.Equal(t, NewTriggerEventID.Hex(), lg["topics"].([]interface{})[0])
		assert.Regexp(t, "^0x[0-9a-f]+$", lg["data"])
	})
	t.Run("Should reject empty, null and malformed envelopes", func(t *testing.T) {
		for _, envelope := range [][]byte{nil, []byte("null"), []byte("{not json"), []byte(`{"data":{"type":1}}`)} {
			action, err := UnmarshalTriggerAction(envelope)
			assert.Error(t, err, "envelope %q", envelope)
			assert.Nil(t, action)
		}
	})
}
