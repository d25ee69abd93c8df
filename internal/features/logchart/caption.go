package logchart

import (
	"fmt"
	"html"
	"strings"

	"ohlc-logchart/internal/series"
)

// FormatCaption builds the HTML caption sent with the chart.
func FormatCaption(rep *Report) string {
	s := rep.Summary
	res := rep.Result

	var b strings.Builder
	b.WriteString("<b>OHLC Chart with Logarithmic Y Axis</b>\n\n")
	fmt.Fprintf(&b, "Period: %s to %s\n",
		res.Params.Origin.Format("2006-01-02"),
		series.TimeAt(res.Params.Origin, lastBarEnd(rep)).Format("2006-01-02"))
	fmt.Fprintf(&b, "Bars: %d\n", s.Bars)
	fmt.Fprintf(&b, "Open: %s  Close: %s\n", formatPrice(s.FirstOpen), formatPrice(s.LastClose))
	fmt.Fprintf(&b, "Low: %s  High: %s\n", formatPrice(s.Low), formatPrice(s.High))
	fmt.Fprintf(&b, "Return: %+.1f%%\n", s.ReturnPct)
	for _, m := range res.Markers {
		at := series.TimeAt(res.Params.Origin, m.Offset)
		fmt.Fprintf(&b, "%s: %s\n", html.EscapeString(m.Name), at.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "\n<i>seed %d</i>", res.Seed)
	return b.String()
}

func lastBarEnd(rep *Report) int64 {
	bars := rep.Result.Bars
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].BucketStart + rep.Result.Params.BucketWidth
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}
