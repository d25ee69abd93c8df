package charts

// OHLC chart with a logarithmic price axis and a date axis, rendered for
// Telegram.

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	logging "ohlc-logchart/internal/infra/log"
	"ohlc-logchart/internal/series"
)

var (
	ErrNoBars           = errors.New("charts: no bars to render")
	ErrNonPositiveValue = errors.New("charts: non-positive value on logarithmic axis")
)

const (
	marginLeft   = 230.0
	marginRight  = 90.0
	marginTop    = 170.0
	marginBottom = 150.0

	minBarPixels = 3.0
	xTickCount   = 6

	titleFontSize  = 48.0
	axisFontSize   = 30.0
	labelFontSize  = 26.0
	legendFontSize = 28.0
)

type Options struct {
	Width      int
	Height     int
	Theme      string
	Title      string
	YAxisTitle string
	SeriesName string
	OutputDir  string
	FileName   string

	// Origin is the date at bar offset 0.
	Origin  time.Time
	Markers []series.Marker
	// BucketWidth is the bars' packing resolution in milliseconds. Zero
	// guesses it from the smallest gap between bars.
	BucketWidth int64
}

func DefaultOptions() Options {
	return Options{
		Width:      2326,
		Height:     1334,
		Theme:      DefaultTheme,
		Title:      "OHLC Chart with Logarithmic Y Axis",
		YAxisTitle: "Stock price (€)",
		SeriesName: "Stock price",
		OutputDir:  filepath.Join("etc", "charts"),
		FileName:   "ohlc_log_chart.png",
		Origin:     series.DefaultParams().Origin,
	}
}

func validateBars(bars []series.OHLCBar) error {
	if len(bars) == 0 {
		return ErrNoBars
	}
	for i, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if !(v > 0) || math.IsInf(v, 0) {
				return fmt.Errorf("bar %d (start %d): %w: %v", i, b.BucketStart, ErrNonPositiveValue, v)
			}
		}
	}
	return nil
}

// plot is the drawing area and the value ranges mapped onto it.
type plot struct {
	left, right, top, bottom float64
	xMin, xMax               int64
	lo, hi                   float64
}

func (p plot) x(offset int64) float64 {
	return p.left + float64(offset-p.xMin)/float64(p.xMax-p.xMin)*(p.right-p.left)
}

func (p plot) y(v float64) float64 {
	return logY(v, p.lo, p.hi, p.top, p.bottom)
}

// RenderOHLC draws bars into a PNG under opts.OutputDir and returns its path.
// Bar timestamps are offsets from opts.Origin in milliseconds.
func RenderOHLC(bars []series.OHLCBar, opts Options) (string, error) {
	if err := validateBars(bars); err != nil {
		return "", err
	}
	if opts.Width < 200 || opts.Height < 200 {
		return "", fmt.Errorf("chart size %dx%d is too small", opts.Width, opts.Height)
	}
	if opts.FileName == "" {
		opts.FileName = DefaultOptions().FileName
	}
	theme, ok := ThemeByName(opts.Theme)
	if !ok {
		logging.LogWarn("Unknown chart theme, using default",
			zap.String("theme", opts.Theme),
			zap.String("default", DefaultTheme))
	}

	p := plot{
		left:   marginLeft,
		right:  float64(opts.Width) - marginRight,
		top:    marginTop,
		bottom: float64(opts.Height) - marginBottom,
	}

	shown, width, err := displayBars(bars, p.right-p.left, opts.BucketWidth)
	if err != nil {
		return "", fmt.Errorf("failed to pack bars for display: %w", err)
	}
	if len(shown) != len(bars) {
		logging.LogDebug("Bars repacked for display",
			zap.Int("bars", len(bars)),
			zap.Int("shown", len(shown)),
			zap.Int64("bucket_ms", width))
	}

	low, high := shown[0].Low, shown[0].High
	for _, b := range shown {
		low = math.Min(low, b.Low)
		high = math.Max(high, b.High)
	}
	p.lo, p.hi = logBounds(low, high)
	p.xMin = shown[0].BucketStart
	p.xMax = shown[len(shown)-1].BucketStart + width

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(theme.Background)
	dc.Clear()
	dc.SetColor(theme.Plot)
	dc.DrawRectangle(p.left, p.top, p.right-p.left, p.bottom-p.top)
	dc.Fill()

	font := findFont()

	drawYAxis(dc, font, theme, p)
	drawXAxis(dc, font, theme, p, opts.Origin)
	drawBars(dc, theme, p, shown, width)
	drawMarkers(dc, font, theme, p, opts.Markers)
	drawLegend(dc, font, theme, p, opts.SeriesName)

	dc.SetColor(theme.Text)
	font.use(dc, titleFontSize)
	dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, marginTop/2, 0.5, 0.5)

	font.use(dc, axisFontSize)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, marginLeft/4, (p.top+p.bottom)/2)
	dc.DrawStringAnchored(opts.YAxisTitle, marginLeft/4, (p.top+p.bottom)/2, 0.5, 0.5)
	dc.Pop()

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create charts directory: %w", err)
	}
	filename := filepath.Join(opts.OutputDir, opts.FileName)
	if err := dc.SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return "", fmt.Errorf("failed to stat chart file: %w", err)
	}
	if fileInfo.Size() == 0 {
		os.Remove(filename)
		logging.LogError("Chart file is empty after rendering", zap.String("filename", filename))
		return "", fmt.Errorf("chart file is empty after rendering")
	}

	logging.LogInfo("OHLC chart generated successfully",
		zap.String("filename", filename),
		zap.Int64("fileSize", fileInfo.Size()),
		zap.Int("barsCount", len(shown)),
		zap.String("theme", theme.Name))

	return filename, nil
}

func drawYAxis(dc *gg.Context, font fontFace, theme Theme, p plot) {
	font.use(dc, labelFontSize)
	for _, t := range logTicks(p.lo, p.hi) {
		y := p.y(t.Value)
		if t.Major {
			dc.SetColor(theme.Grid)
			dc.SetLineWidth(1.5)
		} else {
			dc.SetColor(theme.MinorGrid)
			dc.SetLineWidth(1)
		}
		dc.DrawLine(p.left, y, p.right, y)
		dc.Stroke()

		dc.SetColor(theme.Text)
		dc.DrawStringAnchored(formatTick(t.Value), p.left-15, y, 1, 0.35)
	}

	dc.SetColor(theme.Axis)
	dc.SetLineWidth(2)
	dc.DrawLine(p.left, p.top, p.left, p.bottom)
	dc.Stroke()
}

func drawXAxis(dc *gg.Context, font fontFace, theme Theme, p plot, origin time.Time) {
	dc.SetColor(theme.Axis)
	dc.SetLineWidth(2)
	dc.DrawLine(p.left, p.bottom, p.right, p.bottom)
	dc.Stroke()

	font.use(dc, labelFontSize)
	for _, t := range dateTicks(origin, p.xMin, p.xMax, xTickCount) {
		x := p.x(t.Offset)
		dc.SetColor(theme.MinorGrid)
		dc.SetLineWidth(1)
		dc.DrawLine(x, p.top, x, p.bottom)
		dc.Stroke()

		dc.SetColor(theme.Axis)
		dc.DrawLine(x, p.bottom, x, p.bottom+10)
		dc.Stroke()

		dc.SetColor(theme.Text)
		dc.DrawStringAnchored(t.Label, x, p.bottom+40, 0.5, 0.5)
	}
}

func drawBars(dc *gg.Context, theme Theme, p plot, bars []series.OHLCBar, width int64) {
	pixels := p.x(p.xMin+width) - p.x(p.xMin)
	tick := math.Max(1, pixels*0.35)
	stroke := math.Max(1, math.Min(3, pixels*0.25))
	dc.SetLineWidth(stroke)

	for _, b := range bars {
		if b.Close >= b.Open {
			dc.SetColor(theme.Up)
		} else {
			dc.SetColor(theme.Down)
		}
		x := p.x(b.BucketStart) + pixels/2

		dc.DrawLine(x, p.y(b.High), x, p.y(b.Low))
		dc.Stroke()
		yo := p.y(b.Open)
		dc.DrawLine(x-tick, yo, x, yo)
		dc.Stroke()
		yc := p.y(b.Close)
		dc.DrawLine(x, yc, x+tick, yc)
		dc.Stroke()
	}
}

func drawMarkers(dc *gg.Context, font fontFace, theme Theme, p plot, markers []series.Marker) {
	font.use(dc, labelFontSize)
	for _, m := range markers {
		if m.Offset < p.xMin || m.Offset > p.xMax {
			continue
		}
		x := p.x(m.Offset)

		dc.SetColor(theme.Marker)
		dc.SetLineWidth(2)
		dc.SetDash(14, 8)
		dc.DrawLine(x, p.top, x, p.bottom)
		dc.Stroke()
		dc.SetDash()

		dc.DrawStringAnchored(m.Name, x+10, p.top+30, 0, 0.5)
	}
}

func drawLegend(dc *gg.Context, font fontFace, theme Theme, p plot, name string) {
	if name == "" {
		return
	}
	font.use(dc, legendFontSize)
	w, h := dc.MeasureString(name)
	boxW, boxH := w+90, h+36
	x, y := p.right-boxW-20, p.top+20

	dc.SetColor(theme.LegendBox)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 8)
	dc.Fill()
	dc.SetColor(theme.Grid)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 8)
	dc.Stroke()

	// sample stick
	sx := x + 30
	dc.SetColor(theme.Up)
	dc.SetLineWidth(3)
	dc.DrawLine(sx, y+10, sx, y+boxH-10)
	dc.Stroke()
	dc.DrawLine(sx-8, y+boxH*0.6, sx, y+boxH*0.6)
	dc.Stroke()
	dc.DrawLine(sx, y+boxH*0.4, sx+8, y+boxH*0.4)
	dc.Stroke()

	dc.SetColor(theme.Text)
	dc.DrawStringAnchored(name, x+60, y+boxH/2, 0, 0.35)
}
