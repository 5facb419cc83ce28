// Package commands implements the towguide CLI.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stonebridge-motors/towguide/internal/config"
	"github.com/stonebridge-motors/towguide/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "towguide",
	Short: "Towing guide extraction and vehicle capacity lookup",
	Long: `towguide turns a manufacturer towing guide PDF into a structured JSON
document, then resolves individual inventory vehicles (by VIN or stock
number) against it to answer how much each one can tow.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func newLogger(cfg *config.Config) *observability.Logger {
	level := cfg.Observability.LogLevel
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "towguide",
	})
}
