package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ohlc-logchart/internal/series"
)

const (
	// SeriesFileName is the JSON snapshot of the latest run under the data dir.
	SeriesFileName = "series.json"
	// BarsFileName is the CSV export of the latest run's bars.
	BarsFileName = "bars.csv"
)

// ErrEmptySeriesFile is returned when the snapshot exists but holds nothing.
var ErrEmptySeriesFile = errors.New("series file is empty")

// SaveSeries writes res to path as indented JSON. The write goes through a
// temp file and a rename so readers never see a half-written snapshot.
func SaveSeries(path string, res *series.Result) error {
	if res == nil {
		return fmt.Errorf("failed to save series: result is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal series JSON: %w", err)
	}
	return writeAtomic(path, data)
}

// LoadSeries reads a snapshot written by SaveSeries.
func LoadSeries(path string) (*series.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read series file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySeriesFile)
	}

	var res series.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse series JSON: %w", err)
	}
	return &res, nil
}

func writeAtomic(path string, data []byte) error {
	tempFilePath := path + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFilePath, path); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}
	return nil
}
