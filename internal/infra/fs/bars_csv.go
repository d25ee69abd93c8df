package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"ohlc-logchart/internal/series"
)

// BarRow is one CSV line. Time is the absolute bucket start, BucketStart the
// offset from the axis origin in milliseconds.
type BarRow struct {
	Time        string  `csv:"time"`
	BucketStart int64   `csv:"bucket_start"`
	Open        float64 `csv:"open"`
	High        float64 `csv:"high"`
	Low         float64 `csv:"low"`
	Close       float64 `csv:"close"`
	Samples     int     `csv:"samples"`
}

// ExportBarsCSV writes bars to path, one row per bar.
func ExportBarsCSV(path string, origin time.Time, bars []series.OHLCBar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	rows := make([]*BarRow, len(bars))
	for i, b := range bars {
		rows[i] = &BarRow{
			Time:        series.TimeAt(origin, b.BucketStart).UTC().Format(time.RFC3339),
			BucketStart: b.BucketStart,
			Open:        b.Open,
			High:        b.High,
			Low:         b.Low,
			Close:       b.Close,
			Samples:     b.Samples,
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to marshal bars CSV: %w", err)
	}
	return nil
}

// ImportBarsCSV reads bars written by ExportBarsCSV.
func ImportBarsCSV(path string) ([]series.OHLCBar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	var rows []*BarRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bars CSV: %w", err)
	}

	bars := make([]series.OHLCBar, len(rows))
	for i, r := range rows {
		bars[i] = series.OHLCBar{
			BucketStart: r.BucketStart,
			Open:        r.Open,
			High:        r.High,
			Low:         r.Low,
			Close:       r.Close,
			Samples:     r.Samples,
		}
	}
	return bars, nil
}
