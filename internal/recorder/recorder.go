package recorder

import (
	"time"

	"ohlc-logchart/internal/series"
)

// RunRecord is one finished generation run.
type RunRecord struct {
	Seed      int64
	Params    series.Params
	Summary   series.Summary
	Bars      []series.OHLCBar
	ChartPath string // empty when nothing was rendered
	Published bool
	CreatedAt time.Time
}

// Recorder archives runs for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	Close() error
}
