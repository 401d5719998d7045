package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tony1908/pear2pear/pkg/config"
	"github.com/tony1908/pear2pear/pkg/oracleConfig"
	"github.com/tony1908/pear2pear/pkg/priceFeed"
)

var rootCmd = &cobra.Command{
	Use:          "oracle",
	Short:        "Resolve binary outcome triggers",
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var configFile string
var Config *oracleConfig.OracleConfig

func init() {
	cobra.OnInitialize(initConfigIfPresent)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(oracleConfig.Debug, false, `"true" or "false"`)
	rootCmd.PersistentFlags().String(oracleConfig.ResolverStrategy, string(oracleConfig.ResolverStrategy_Static), "verdict strategy: static or threshold")
	rootCmd.PersistentFlags().Bool(oracleConfig.StaticVerdict, oracleConfig.DefaultStaticVerdict, "verdict returned by the static strategy")
	rootCmd.PersistentFlags().Float64(oracleConfig.PriceThreshold, oracleConfig.DefaultPriceThreshold, "threshold strategy answers true when price > threshold")
	rootCmd.PersistentFlags().String(oracleConfig.PriceFeedUrl, priceFeed.DefaultPriceFeedUrl, "price endpoint used by the threshold strategy")
	rootCmd.PersistentFlags().Int64(oracleConfig.PriceFeedTimeoutMs, 0, "price request timeout in milliseconds, 0 for none")

	// setup sub commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(buildTriggerCmd)
	rootCmd.AddCommand(executeCmd)

	rootCmd.PersistentFlags().VisitAll(bindFlag)
}

func bindFlag(f *pflag.Flag) {
	key := config.KebabToSnakeCase(f.Name)
	viper.BindPFlag(key, f) //nolint:errcheck
	viper.BindEnv(key)      //nolint:errcheck
}

func initConfig(cmd *cobra.Command) {
	viper.SetEnvPrefix(oracleConfig.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func initConfigIfPresent() {
	if configFile == "" {
		Config = oracleConfig.NewOracleConfig()
		return
	}

	fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
	data, err := os.ReadFile(configFile)
	if err != nil {
		panic(err)
	}
	if strings.HasSuffix(configFile, ".json") {
		Config, err = oracleConfig.NewOracleConfigFromJsonBytes(data)
	} else {
		Config, err = oracleConfig.NewOracleConfigFromYamlBytes(data)
	}
	if err != nil {
		panic(err)
	}
	if Config == nil {
		Config = &oracleConfig.OracleConfig{}
	}
}

func main() {
	Execute()
}
