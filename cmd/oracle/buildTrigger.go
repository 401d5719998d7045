package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
	"github.com/tony1908/pear2pear/pkg/util"
)

const (
	triggerIdFlag       = "trigger-id"
	orderIdFlag         = "order-id"
	contractAddressFlag = "contract-address"
	chainNameFlag       = "chain-name"
	serviceIdFlag       = "service-id"
	workflowIdFlag      = "workflow-id"
)

func init() {
	buildTriggerCmd.Flags().Uint64(triggerIdFlag, 0, "trigger id carried by the NewTrigger event")
	buildTriggerCmd.Flags().String(orderIdFlag, "0", "order id, decimal or 0x prefixed hex, up to 256 bits")
	buildTriggerCmd.Flags().String(contractAddressFlag, common.Address{}.Hex(), "address of the emitting trigger contract")
	buildTriggerCmd.Flags().String(chainNameFlag, "local", "chain the event was observed on")
	buildTriggerCmd.Flags().String(serviceIdFlag, "", "service id placed in the envelope config")
	buildTriggerCmd.Flags().String(workflowIdFlag, "", "workflow id placed in the envelope config")
}

var buildTriggerCmd = &cobra.Command{
	Use:   "build-trigger",
	Short: "Print a hex encoded envelope wrapping a NewTrigger log",
	RunE: func(cmd *cobra.Command, args []string) error {
		triggerId, _ := cmd.Flags().GetUint64(triggerIdFlag)
		orderIdStr, _ := cmd.Flags().GetString(orderIdFlag)
		contractStr, _ := cmd.Flags().GetString(contractAddressFlag)
		chainName, _ := cmd.Flags().GetString(chainNameFlag)
		serviceId, _ := cmd.Flags().GetString(serviceIdFlag)
		workflowId, _ := cmd.Flags().GetString(workflowIdFlag)

		envelope, err := buildTriggerEnvelope(triggerId, orderIdStr, contractStr, chainName, serviceId, workflowId)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), util.EncodeHexString(envelope))
		return nil
	},
}

func parseOrderId(s string) (*uint256.Int, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

func buildTriggerEnvelope(triggerId uint64, orderIdStr, contractStr, chainName, serviceId, workflowId string) ([]byte, error) {
	orderId, err := parseOrderId(orderIdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", orderIdStr, err)
	}
	if !common.IsHexAddress(contractStr) {
		return nil, fmt.Errorf("invalid contract address %q", contractStr)
	}

	action, err := triggerCodec.NewEthContractEventAction(common.HexToAddress(contractStr), chainName, triggerId, orderId)
	if err != nil {
		return nil, err
	}
	action.Config = triggerCodec.TriggerConfig{
		ServiceId:  serviceId,
		WorkflowId: workflowId,
	}
	return triggerCodec.MarshalTriggerAction(action)
}
