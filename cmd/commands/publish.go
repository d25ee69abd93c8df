package commands

// Command to generate, render and send one chart to Telegram.

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logging "ohlc-logchart/internal/infra/log"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Generate, render and publish the chart to Telegram",
	RunE:  runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, rec, err := newService(true)
	if err != nil {
		return err
	}
	defer rec.Close()

	rep, err := svc.Run(ctx, true)
	if err != nil {
		logging.LogError("Publish failed", zap.Error(err))
		return err
	}
	logging.LogSuccess("Chart published",
		zap.String("chart", rep.ChartPath),
		zap.Int64("seed", rep.Result.Seed))
	return nil
}
