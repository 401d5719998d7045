package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tony1908/pear2pear/pkg/logger"
	"github.com/tony1908/pear2pear/pkg/oracle"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/resolver"
	"github.com/tony1908/pear2pear/pkg/util"
	"go.uber.org/zap"
)

const envelopeFlag = "envelope"

func init() {
	resolveCmd.Flags().String(envelopeFlag, "", "hex encoded trigger envelope; read from stdin when empty")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single trigger envelope and print the hex encoded result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Config.Validate(); err != nil {
			return err
		}

		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: Config.Debug})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer l.Sync() //nolint:errcheck

		envelopeHex, _ := cmd.Flags().GetString(envelopeFlag)
		envelope, err := readEnvelope(envelopeHex, os.Stdin)
		if err != nil {
			return err
		}

		out, err := resolveEnvelope(cmd.Context(), Config.Resolver, envelope, l)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), util.EncodeHexString(out))
		return nil
	},
}

// readEnvelope decodes the hex envelope from the flag value, or from stdin when the flag is empty.
func readEnvelope(flagValue string, stdin io.Reader) ([]byte, error) {
	if flagValue == "" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read envelope from stdin: %w", err)
		}
		flagValue = string(raw)
	}
	envelope, err := util.DecodeHexString(flagValue)
	if err != nil {
		return nil, fmt.Errorf("envelope is not valid hex: %w", err)
	}
	return envelope, nil
}

func resolveEnvelope(ctx context.Context, cfg *oracleConfig.ResolverConfig, envelope []byte, l *zap.Logger) ([]byte, error) {
	r, err := resolver.NewResolver(cfg, nil, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}
	return oracle.NewOracle(r, nil, l).Run(ctx, envelope)
}
