package triggerCodec

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ITypesABI is the subset of the trigger contract's ITypes interface this module consumes.
const ITypesABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "internalType": "bytes", "name": "_triggerInfo", "type": "bytes"}
		],
		"name": "NewTrigger",
		"type": "event"
	}
]`

const NewTriggerEventName = "NewTrigger"

var (
	iTypesABI = mustParseABI(ITypesABI)

	// NewTriggerEventID is topic0 of every NewTrigger log, keccak256("NewTrigger(bytes)").
	NewTriggerEventID = iTypesABI.Events[NewTriggerEventName].ID

	// struct TriggerInfo { uint64 triggerId; bytes data; }
	triggerInfoArgs = mustTupleArguments([]abi.ArgumentMarshaling{
		{Name: "triggerId", Type: "uint64"},
		{Name: "data", Type: "bytes"},
	})

	// struct TriggerInputData { uint256 orderId; }
	orderDataArgs = mustTupleArguments([]abi.ArgumentMarshaling{
		{Name: "orderId", Type: "uint256"},
	})

	// struct AvsOutputData { uint256 orderId; bool result; }
	avsOutputDataArgs = mustTupleArguments([]abi.ArgumentMarshaling{
		{Name: "orderId", Type: "uint256"},
		{Name: "result", Type: "bool"},
	})

	// struct DataWithId { uint64 triggerId; bytes data; }
	dataWithIdArgs = mustTupleArguments([]abi.ArgumentMarshaling{
		{Name: "triggerId", Type: "uint64"},
		{Name: "data", Type: "bytes"},
	})
)

// Go mirrors of the solidity structs. Field names must match the camel-cased ABI component
// names so go-ethereum can pack and unpack them.
type abiTriggerInfo struct {
	TriggerId uint64
	Data      []byte
}

type abiOrderData struct {
	OrderId *big.Int
}

type abiAvsOutputData struct {
	OrderId *big.Int
	Result  bool
}

type abiDataWithId struct {
	TriggerId uint64
	Data      []byte
}

func mustParseABI(abiJSON string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("failed to parse ITypes ABI: %v", err))
	}
	return &parsed
}

// mustTupleArguments builds the argument list for abi.encode(struct) / abi.decode(data, (struct)).
// The struct is a single tuple argument, so a struct with a dynamic member is encoded with a
// leading offset word exactly as solidity does.
func mustTupleArguments(components []abi.ArgumentMarshaling) abi.Arguments {
	tupleType, err := abi.NewType("tuple", "", components)
	if err != nil {
		panic(fmt.Sprintf("failed to create tuple type: %v", err))
	}
	return abi.Arguments{{Type: tupleType}}
}
