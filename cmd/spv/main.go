package main

import (
	"log"
	"os"

	"SPVWaterfall/internal/config"

	"github.com/spf13/cobra"
)

var cfgPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spv",
	Short: "Simulate how an SPV's final cash pool is paid out across its tranches.",
	Long: `spv allocates an SPV's capital plus collected premiums, net of market ` +
		`losses, across Senior, Mezzanine and Equity tranches in strict priority ` +
		`order. It can run one-off simulations, loss sweeps and attachment ` +
		`analysis, or serve the same operations over HTTP and Telegram.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.AddCommand(
		newSimulateCmd(),
		newSweepCmd(),
		newAttachCmd(),
		newScenariosCmd(),
		newServeCmd(),
	)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
