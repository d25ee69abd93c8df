package commands

// Root command: loads configuration and logging once for every subcommand.

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ohlc-logchart/internal/config"
	logging "ohlc-logchart/internal/infra/log"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ohlc-logchart",
	Short: "Synthetic OHLC price series with a logarithmic chart for Telegram",
	Long: `ohlc-logchart generates a synthetic "price boom" series from two blended random
walks, packs it into OHLC bars, renders it on a logarithmic price axis and can
publish the chart to Telegram on a cron schedule.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if err := logging.Init(cfg.App.LogDir); err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		logging.LogDebug("Config loaded",
			zap.String("command", cmd.Name()),
			zap.Int("points", cfg.Series.PointCount),
			zap.String("theme", cfg.Chart.Theme))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./config.yaml)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(scheduleCmd)
}
