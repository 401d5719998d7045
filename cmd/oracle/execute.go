package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tony1908/pear2pear/pkg/clients/performerClient"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
)

const (
	performerUrlFlag = "performer-url"
	insecureFlag     = "insecure"
	timeoutFlag      = "timeout"
)

func init() {
	executeCmd.Flags().String(performerUrlFlag, "localhost:8080", "address of a running gRPC performer")
	executeCmd.Flags().Bool(insecureFlag, false, "use a plaintext connection to a non-loopback performer")
	executeCmd.Flags().Duration(timeoutFlag, 30*time.Second, "request timeout")
	executeCmd.Flags().String(envelopeFlag, "", "hex encoded trigger envelope; read from stdin when empty")
}

type executeResult struct {
	TriggerId uint64 `json:"triggerId"`
	OrderId   string `json:"orderId"`
	Result    bool   `json:"result"`
}

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Send a trigger envelope to a running gRPC performer",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString(performerUrlFlag)
		insecureConn, _ := cmd.Flags().GetBool(insecureFlag)
		timeout, _ := cmd.Flags().GetDuration(timeoutFlag)
		envelopeHex, _ := cmd.Flags().GetString(envelopeFlag)

		envelope, err := readEnvelope(envelopeHex, os.Stdin)
		if err != nil {
			return err
		}
		action, err := triggerCodec.UnmarshalTriggerAction(envelope)
		if err != nil {
			return err
		}

		client, err := performerClient.NewPerformerClient(url, insecureConn)
		if err != nil {
			return fmt.Errorf("failed to create performer client: %w", err)
		}
		defer client.Close() //nolint:errcheck

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		outer, inner, err := client.ExecuteTrigger(ctx, action)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(&executeResult{
			TriggerId: outer.TriggerId,
			OrderId:   inner.OrderId.Dec(),
			Result:    inner.Result,
		})
	},
}
