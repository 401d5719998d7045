package triggerCodec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// EncodeTriggerOutput produces abi.encode(DataWithId{triggerId, abi.encode(AvsOutputData{orderId, result})}),
// the payload the trigger contract consumes to settle the order. The error is always nil for
// well-typed input; a nil orderId encodes as zero.
func EncodeTriggerOutput(triggerId uint64, orderId *uint256.Int, result bool) ([]byte, error) {
	inner, err := EncodeAvsOutputData(orderId, result)
	if err != nil {
		return nil, err
	}
	return EncodeDataWithId(triggerId, inner)
}

// EncodeAvsOutputData is the inner layer of the output: abi.encode(AvsOutputData{orderId, result}).
func EncodeAvsOutputData(orderId *uint256.Int, result bool) ([]byte, error) {
	encoded, err := avsOutputDataArgs.Pack(abiAvsOutputData{
		OrderId: toBig(orderId),
		Result:  result,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode avs output data")
	}
	return encoded, nil
}

// EncodeDataWithId is the outer correlation layer of the output: abi.encode(DataWithId{triggerId, data}).
func EncodeDataWithId(triggerId uint64, data []byte) ([]byte, error) {
	if data == nil {
		data = []byte{}
	}
	encoded, err := dataWithIdArgs.Pack(abiDataWithId{
		TriggerId: triggerId,
		Data:      data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode data with id")
	}
	return encoded, nil
}

// EncodeOrderData mirrors the contract side: abi.encode(TriggerInputData{orderId}).
func EncodeOrderData(order *OrderData) ([]byte, error) {
	var orderId *uint256.Int
	if order != nil {
		orderId = order.OrderId
	}
	encoded, err := orderDataArgs.Pack(abiOrderData{OrderId: toBig(orderId)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order data")
	}
	return encoded, nil
}

// EncodeTriggerInfo mirrors the contract side: abi.encode(TriggerInfo{triggerId, data}).
func EncodeTriggerInfo(info *TriggerInfo) ([]byte, error) {
	if info == nil {
		return nil, errors.New("trigger info is nil")
	}
	data := info.Data
	if data == nil {
		data = []byte{}
	}
	encoded, err := triggerInfoArgs.Pack(abiTriggerInfo{
		TriggerId: info.TriggerId,
		Data:      data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode trigger info")
	}
	return encoded, nil
}

// EncodeNewTriggerLog builds the log the trigger contract emits for a request, i.e.
// emit NewTrigger(abi.encode(info)) from the given contract address.
func EncodeNewTriggerLog(contract common.Address, info *TriggerInfo) (*EventLog, error) {
	encodedInfo, err := EncodeTriggerInfo(info)
	if err != nil {
		return nil, err
	}
	data, err := iTypesABI.Events[NewTriggerEventName].Inputs.Pack(encodedInfo)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode NewTrigger event data")
	}
	return &EventLog{
		Address: contract,
		Topics:  []common.Hash{NewTriggerEventID},
		Data:    data,
	}, nil
}

func toBig(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
