package main

import (
	"github.com/spf13/cobra"

	"github.com/contactkeval/option-iv/internal/config"
	"github.com/contactkeval/option-iv/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "option-iv",
	Short: "Computes implied volatilities for listed-option snapshots and serves them over HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		return nil
	},
}

// loadConfig reads --config and applies --verbosity when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAndValidate(path)
	if err != nil {
		return nil, err
	}

	verbosity := *cfg.Log.Verbosity
	if cmd.Flags().Changed("verbosity") {
		verbosity, _ = cmd.Flags().GetInt("verbosity")
	}
	logger.SetVerbosity(verbosity)
	return cfg, nil
}

func main() {
	rootCmd.PersistentFlags().String("config", "", "path to YAML config")
	rootCmd.PersistentFlags().IntP("verbosity", "v", config.DefaultVerbosity, "0=error 1=info 2=debug 3=trace")

	rootCmd.AddCommand(runCmd, serveCmd, synthCmd)
	cobra.CheckErr(rootCmd.Execute())
}
