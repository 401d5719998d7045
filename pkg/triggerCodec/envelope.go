package triggerCodec

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// UnmarshalTriggerAction parses the envelope bytes delivered by the host.
func UnmarshalTriggerAction(envelope []byte) (*TriggerAction, error) {
	if len(envelope) == 0 {
		return nil, errors.New("trigger envelope is empty")
	}
	var action *TriggerAction
	if err := json.Unmarshal(envelope, &action); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal trigger envelope")
	}
	if action == nil {
		return nil, errors.New("trigger envelope is null")
	}
	return action, nil
}

func MarshalTriggerAction(action *TriggerAction) ([]byte, error) {
	return json.Marshal(action)
}

// NewEthContractEventAction builds the envelope the host would deliver for a NewTrigger
// log requesting resolution of orderId.
func NewEthContractEventAction(
	contract common.Address,
	chainName string,
	triggerId uint64,
	orderId *uint256.Int,
) (*TriggerAction, error) {
	orderData, err := EncodeOrderData(&OrderData{OrderId: orderId})
	if err != nil {
		return nil, err
	}
	lg, err := EncodeNewTriggerLog(contract, &TriggerInfo{
		TriggerId: triggerId,
		Data:      orderData,
	})
	if err != nil {
		return nil, err
	}
	return &TriggerAction{
		Data: TriggerData{
			Type: TriggerDataType_EthContractEvent,
			EthContractEvent: &EthContractEvent{
				ContractAddress: contract,
				ChainName:       chainName,
				Log:             lg,
			},
		},
	}, nil
}
