package commands

// Command to generate the series and print a summary table.

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ohlc-logchart/internal/features/logchart"
	logging "ohlc-logchart/internal/infra/log"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the OHLC series and save it as JSON and CSV",
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, rec, err := newService(false)
	if err != nil {
		return err
	}
	defer rec.Close()

	rep, err := svc.Generate(ctx)
	if err != nil {
		logging.LogError("Generation failed", zap.Error(err))
		return err
	}
	if err := svc.Record(rep); err != nil {
		logging.LogWarn("Run not archived", zap.Error(err))
	}

	printSummary(cmd.OutOrStdout(), rep)
	return nil
}

func printSummary(w io.Writer, rep *logchart.Report) {
	p := message.NewPrinter(language.English)
	s := rep.Summary

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Seed", fmt.Sprintf("%d", rep.Result.Seed)})
	table.Append([]string{"Points", p.Sprintf("%d", len(rep.Result.Points))})
	table.Append([]string{"Bars", p.Sprintf("%d", s.Bars)})
	table.Append([]string{"First open", p.Sprintf("%.2f", s.FirstOpen)})
	table.Append([]string{"Last close", p.Sprintf("%.2f", s.LastClose)})
	table.Append([]string{"Low", p.Sprintf("%.2f", s.Low)})
	table.Append([]string{"High", p.Sprintf("%.2f", s.High)})
	table.Append([]string{"Mean close", p.Sprintf("%.2f", s.MeanClose)})
	table.Append([]string{"Median close", p.Sprintf("%.2f", s.MedianClose)})
	table.Append([]string{"Std dev close", p.Sprintf("%.2f", s.StdDevClose)})
	table.Append([]string{"Return", fmt.Sprintf("%+.1f%%", s.ReturnPct)})
	for _, path := range []string{rep.SeriesPath, rep.CSVPath, rep.ChartPath} {
		if path != "" {
			table.Append([]string{"File", path})
		}
	}

	table.Render()
}
