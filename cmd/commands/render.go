package commands

// Command to render the log-axis chart, from a fresh run or a saved series.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ohlc-logchart/internal/features/logchart"
	logging "ohlc-logchart/internal/infra/log"
)

var renderInput string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the OHLC chart to PNG",
	Long:  `Render the OHLC chart with a logarithmic Y axis. Without --input a new series is generated first.`,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderInput, "input", "", "Render a series.json written by generate instead of generating")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, rec, err := newService(false)
	if err != nil {
		return err
	}
	defer rec.Close()

	var rep *logchart.Report
	if renderInput != "" {
		rep, err = logchart.Load(renderInput)
	} else {
		rep, err = svc.Generate(ctx)
	}
	if err != nil {
		return err
	}

	if err := svc.Render(rep); err != nil {
		logging.LogError("Render failed", zap.Error(err))
		return err
	}
	if renderInput == "" {
		if err := svc.Record(rep); err != nil {
			logging.LogWarn("Run not archived", zap.Error(err))
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), rep.ChartPath)
	return nil
}
