// Command cli runs one conversion against the live rate source without
// starting the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"currency-calculator/internal/adapter/repository"
	"currency-calculator/internal/config"
	"currency-calculator/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
	api *repository.CurrencyAPI
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cli",
	Short:         "Currency calculator",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		var err error
		if envFile != "" {
			cfg, err = config.LoadConfig(envFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Log.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log = logger.New(logger.Options{Level: level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})
		api = repository.NewCurrencyAPI(
			cfg.RateSource.RatesURL,
			cfg.RateSource.RatesField,
			cfg.RateSource.DateURL,
			cfg.RateSource.Timeout,
			log,
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "env file to load before the environment (default: .env)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(codesCmd)
}
