// Package triggerCodec decodes the trigger envelope delivered by the host into a trigger
// record and order payload, and encodes resolved verdicts into the envelope the trigger
// contract expects back.
package triggerCodec

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// TriggerDataType discriminates the variants of TriggerData.
type TriggerDataType string

const (
	TriggerDataType_EthContractEvent    TriggerDataType = "eth_contract_event"
	TriggerDataType_CosmosContractEvent TriggerDataType = "cosmos_contract_event"
	TriggerDataType_BlockInterval       TriggerDataType = "block_interval"
	TriggerDataType_Cron                TriggerDataType = "cron"
	TriggerDataType_Raw                 TriggerDataType = "raw"
)

// TriggerAction is the envelope the host delivers for a single invocation.
type TriggerAction struct {
	Config TriggerConfig `json:"config"`
	Data   TriggerData   `json:"data"`
}

// TriggerConfig identifies the service and workflow the host is running on behalf of.
// It is informational only.
type TriggerConfig struct {
	ServiceId  string `json:"serviceId"`
	WorkflowId string `json:"workflowId"`
}

// TriggerData is a tagged union; exactly the field matching Type is expected to be set.
type TriggerData struct {
	Type                TriggerDataType      `json:"type"`
	EthContractEvent    *EthContractEvent    `json:"ethContractEvent,omitempty"`
	CosmosContractEvent *CosmosContractEvent `json:"cosmosContractEvent,omitempty"`
	BlockInterval       *BlockInterval       `json:"blockInterval,omitempty"`
	Cron                *CronTrigger         `json:"cron,omitempty"`
	Raw                 hexutil.Bytes        `json:"raw,omitempty"`
}

type EthContractEvent struct {
	ContractAddress common.Address `json:"contractAddress"`
	ChainName       string         `json:"chainName"`
	Log             *EventLog      `json:"log"`
	BlockHeight     uint64         `json:"blockHeight"`
}

// EventLog is the raw log record emitted by the trigger contract.
type EventLog struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

type CosmosContractEvent struct {
	ContractAddress string            `json:"contractAddress"`
	ChainName       string            `json:"chainName"`
	EventType       string            `json:"eventType"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	BlockHeight     uint64            `json:"blockHeight"`
}

type BlockInterval struct {
	ChainName   string `json:"chainName"`
	BlockHeight uint64 `json:"blockHeight"`
}

type CronTrigger struct {
	// TriggerTime is unix nanoseconds
	TriggerTime uint64 `json:"triggerTime"`
}

// TriggerInfo is the payload of the NewTrigger event.
type TriggerInfo struct {
	// TriggerId correlates the result with the pending request on chain. It is never
	// interpreted, only echoed back.
	TriggerId uint64
	Data      []byte
}

// OrderData is the order payload carried inside TriggerInfo.Data.
type OrderData struct {
	OrderId *uint256.Int
}

// AvsOutputData is the inner result payload.
type AvsOutputData struct {
	OrderId *uint256.Int
	Result  bool
}

// DataWithId is the outer envelope returned to the trigger contract.
type DataWithId struct {
	TriggerId uint64
	Data      []byte
}
