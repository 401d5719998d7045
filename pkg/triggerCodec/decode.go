package triggerCodec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedTrigger = errors.New("unsupported trigger data type")
	ErrEventMismatch      = errors.New("log is not a NewTrigger event")
)

// DecodeTriggerEvent extracts the trigger record and order from the host's trigger data.
// Only contract log events are supported. Decoding is all or nothing: on error both
// returned records are nil.
func DecodeTriggerEvent(data *TriggerData) (*TriggerInfo, *OrderData, error) {
	if data == nil {
		return nil, nil, errors.New("trigger data is nil")
	}

	switch data.Type {
	case TriggerDataType_EthContractEvent:
		if data.EthContractEvent == nil || data.EthContractEvent.Log == nil {
			return nil, nil, errors.New("eth contract event is missing its log")
		}
	default:
		return nil, nil, ErrUnsupportedTrigger
	}

	rawTriggerInfo, err := DecodeNewTriggerEvent(data.EthContractEvent.Log)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode NewTrigger event")
	}

	triggerInfo, err := DecodeTriggerInfo(rawTriggerInfo)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode trigger info")
	}

	order, err := DecodeOrderData(triggerInfo.Data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode trigger data")
	}

	return triggerInfo, order, nil
}

// DecodeNewTriggerEvent checks the log signature and returns the event's single bytes field.
func DecodeNewTriggerEvent(lg *EventLog) ([]byte, error) {
	if lg == nil {
		return nil, errors.New("log is nil")
	}
	if len(lg.Topics) == 0 || lg.Topics[0] != NewTriggerEventID {
		return nil, ErrEventMismatch
	}

	values, err := iTypesABI.Unpack(NewTriggerEventName, lg.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("expected 1 event field, got %d", len(values))
	}
	raw, ok := values[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected event field type %T", values[0])
	}
	return raw, nil
}

// DecodeTriggerInfo is abi.decode(raw, (TriggerInfo)).
func DecodeTriggerInfo(raw []byte) (*TriggerInfo, error) {
	var decoded abiTriggerInfo
	if err := unpackTuple(triggerInfoArgs, raw, &decoded); err != nil {
		return nil, err
	}
	return &TriggerInfo{
		TriggerId: decoded.TriggerId,
		Data:      decoded.Data,
	}, nil
}

// DecodeOrderData is abi.decode(raw, (TriggerInputData)).
func DecodeOrderData(raw []byte) (*OrderData, error) {
	var decoded abiOrderData
	if err := unpackTuple(orderDataArgs, raw, &decoded); err != nil {
		return nil, err
	}
	orderId, err := fromBig(decoded.OrderId)
	if err != nil {
		return nil, err
	}
	return &OrderData{OrderId: orderId}, nil
}

// DecodeDataWithId is abi.decode(raw, (DataWithId)), the inverse of EncodeDataWithId.
func DecodeDataWithId(raw []byte) (*DataWithId, error) {
	var decoded abiDataWithId
	if err := unpackTuple(dataWithIdArgs, raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode data with id")
	}
	return &DataWithId{
		TriggerId: decoded.TriggerId,
		Data:      decoded.Data,
	}, nil
}

// DecodeAvsOutputData is abi.decode(raw, (AvsOutputData)), the inverse of EncodeAvsOutputData.
func DecodeAvsOutputData(raw []byte) (*AvsOutputData, error) {
	var decoded abiAvsOutputData
	if err := unpackTuple(avsOutputDataArgs, raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode avs output data")
	}
	orderId, err := fromBig(decoded.OrderId)
	if err != nil {
		return nil, err
	}
	return &AvsOutputData{
		OrderId: orderId,
		Result:  decoded.Result,
	}, nil
}

// unpackTuple decodes a single tuple argument into out, which must point at a struct whose
// fields line up with the tuple components.
func unpackTuple(args abi.Arguments, raw []byte, out interface{}) (err error) {
	values, err := args.Unpack(raw)
	if err != nil {
		return err
	}
	if len(values) != 1 {
		return fmt.Errorf("expected 1 value, got %d", len(values))
	}
	// ConvertType panics when the shapes disagree
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("abi: cannot convert %T: %v", values[0], r)
		}
	}()
	abi.ConvertType(values[0], out)
	return nil
}

func fromBig(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("value %s overflows uint256", v.String())
	}
	return u, nil
}
