package main

import (
	"fmt"
	"os"

	"github.com/sebuszqo/FlexiFi/internal/config"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfigFile string

	cfg    *config.Config
	logger logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flexifi",
	Short: "FlexiFi personal budget API and advisory engine",
	Long: `FlexiFi tracks accounts, transactions, budgets and savings goals,
and derives budget advice from them over HTTP or offline from a JSON export.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["config"] == "skip" {
			logger = logging.NewLogrusAdapter("warn", "text")
			return nil
		}
		loaded, err := config.Load(flagConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", "", "config file (default: ./config.yaml or $HOME/.flexifi/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(configCmd)
}
