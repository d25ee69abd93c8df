package series

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes a bar sequence for reports.
type Summary struct {
	Bars        int     `json:"bars"`
	FirstOpen   float64 `json:"first_open"`
	LastClose   float64 `json:"last_close"`
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	MeanClose   float64 `json:"mean_close"`
	MedianClose float64 `json:"median_close"`
	StdDevClose float64 `json:"stddev_close"`
	ReturnPct   float64 `json:"return_pct"`
}

// Summarize computes close statistics and the overall range of bars.
func Summarize(bars []OHLCBar) (Summary, error) {
	if len(bars) == 0 {
		return Summary{}, invalidf("Summarize", "no bars")
	}

	closes := make(stats.Float64Data, len(bars))
	lows := make(stats.Float64Data, len(bars))
	highs := make(stats.Float64Data, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		lows[i] = b.Low
		highs[i] = b.High
	}

	s := Summary{
		Bars:      len(bars),
		FirstOpen: bars[0].Open,
		LastClose: bars[len(bars)-1].Close,
	}

	var err error
	if s.Low, err = lows.Min(); err != nil {
		return Summary{}, fmt.Errorf("Summarize: min low: %w", err)
	}
	if s.High, err = highs.Max(); err != nil {
		return Summary{}, fmt.Errorf("Summarize: max high: %w", err)
	}
	if s.MeanClose, err = closes.Mean(); err != nil {
		return Summary{}, fmt.Errorf("Summarize: mean: %w", err)
	}
	if s.MedianClose, err = closes.Median(); err != nil {
		return Summary{}, fmt.Errorf("Summarize: median: %w", err)
	}
	if s.StdDevClose, err = closes.StandardDeviation(); err != nil {
		return Summary{}, fmt.Errorf("Summarize: stddev: %w", err)
	}
	if s.FirstOpen != 0 {
		s.ReturnPct = (s.LastClose - s.FirstOpen) / s.FirstOpen * 100
	}
	return s, nil
}
