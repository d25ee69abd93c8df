package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ohlc-logchart/internal/features/logchart"
	"ohlc-logchart/internal/series"
)

func TestRootHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate", "render", "publish", "schedule"} {
		assert.True(t, names[want], want)
	}

	for _, flag := range []string{"config", "series.point_count", "series.seed", "chart.theme", "schedule.cron"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.NotNil(t, renderCmd.Flags().Lookup("input"))
	assert.NotNil(t, scheduleCmd.Flags().Lookup("run-on-start"))
}

func TestPrintSummary(t *testing.T) {
	rep := &logchart.Report{
		Result: &series.Result{
			Seed:   42,
			Points: make([]series.TimedPoint, 15000),
			Params: series.Params{Origin: time.Date(2013, 9, 16, 0, 0, 0, 0, time.UTC)},
		},
		Summary: series.Summary{
			Bars:      15000,
			FirstOpen: 1234.5,
			LastClose: 23456.789,
			ReturnPct: 1800.12,
		},
		SeriesPath: "data_out/series.json",
	}

	var buf bytes.Buffer
	printSummary(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "METRIC")
	assert.Contains(t, out, "15,000")
	assert.Contains(t, out, "1,234.50")
	assert.Contains(t, out, "23,456.79")
	assert.Contains(t, out, "+1800.1%")
	assert.Contains(t, out, "data_out/series.json")
}
