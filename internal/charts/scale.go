package charts

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ohlc-logchart/internal/series"
)

// minorTickDecades is the widest range (in decades) that still gets 2x and 5x
// minor ticks.
const minorTickDecades = 3

type yTick struct {
	Value float64
	Major bool
}

// logBounds widens [min, max] to whole decades. Both values must be positive.
func logBounds(min, max float64) (lo, hi float64) {
	// math.Log10 can land one ulp under an exact power of ten
	lo = math.Pow10(int(math.Floor(math.Log10(min) + 1e-9)))
	hi = math.Pow10(int(math.Ceil(math.Log10(max) - 1e-9)))
	if hi <= lo {
		hi = lo * 10
	}
	return lo, hi
}

// logTicks lists decade ticks from lo to hi, plus 2x and 5x minors when the
// range is narrow.
func logTicks(lo, hi float64) []yTick {
	decades := int(math.Round(math.Log10(hi / lo)))
	minors := decades < minorTickDecades

	var ticks []yTick
	for d := 0; d <= decades; d++ {
		v := lo * math.Pow10(d)
		ticks = append(ticks, yTick{Value: v, Major: true})
		if !minors || d == decades {
			continue
		}
		ticks = append(ticks, yTick{Value: 2 * v}, yTick{Value: 5 * v})
	}
	return ticks
}

// logY maps v onto [bottom, top] of the plot.
func logY(v, lo, hi, top, bottom float64) float64 {
	f := (math.Log10(v) - math.Log10(lo)) / (math.Log10(hi) - math.Log10(lo))
	return bottom - f*(bottom-top)
}

// tickPrinter groups thousands in price labels, 10000 -> "10,000".
var tickPrinter = message.NewPrinter(language.English)

func formatTick(v float64) string {
	if v >= 1 {
		return tickPrinter.Sprintf("%.0f", v)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type xTick struct {
	Offset int64
	Label  string
}

// dateTicks spreads count+1 ticks evenly over [from, to], labelled with the
// calendar date at origin+offset.
func dateTicks(origin time.Time, from, to int64, count int) []xTick {
	if count < 1 {
		count = 1
	}
	ticks := make([]xTick, 0, count+1)
	for i := 0; i <= count; i++ {
		off := from + (to-from)*int64(i)/int64(count)
		ticks = append(ticks, xTick{
			Offset: off,
			Label:  series.TimeAt(origin, off).Format("2006-01-02"),
		})
	}
	return ticks
}

// guessBucketWidth takes the smallest gap between bars as the bar width.
// Used only when the caller did not pass the packing resolution.
func guessBucketWidth(bars []series.OHLCBar) int64 {
	var w int64
	for i := 1; i < len(bars); i++ {
		if d := bars[i].BucketStart - bars[i-1].BucketStart; d > 0 && (w == 0 || d < w) {
			w = d
		}
	}
	if w == 0 {
		w = time.Hour.Milliseconds()
	}
	return w
}

// displayBars packs bars so that each keeps at least minBarPixels of width.
// width is the bars' packing resolution; 0 means guess it from the bars.
func displayBars(bars []series.OHLCBar, plotWidth float64, width int64) ([]series.OHLCBar, int64, error) {
	if width <= 0 {
		width = guessBucketWidth(bars)
	}
	capacity := int(plotWidth / minBarPixels)
	if capacity < 1 {
		capacity = 1
	}
	if len(bars) <= capacity {
		return bars, width, nil
	}
	factor := int64((len(bars) + capacity - 1) / capacity)
	packed, err := series.Repack(bars, width*factor)
	if err != nil {
		return nil, 0, err
	}
	return packed, width * factor, nil
}
