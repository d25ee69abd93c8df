package logchart

// Report flow: generate the series, store it as JSON and CSV, render the
// log-axis chart, optionally publish it, then archive the run.

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ohlc-logchart/internal/charts"
	"ohlc-logchart/internal/config"
	"ohlc-logchart/internal/infra/fs"
	logging "ohlc-logchart/internal/infra/log"
	"ohlc-logchart/internal/recorder"
	"ohlc-logchart/internal/series"
)

// ChartPublisher delivers a rendered chart. *telegram.Publisher implements it.
type ChartPublisher interface {
	PublishChart(ctx context.Context, path, caption string) error
	PublishText(ctx context.Context, text string) error
}

type Options struct {
	Params  series.Params
	Chart   charts.Options
	DataDir string
}

// OptionsFromConfig maps the loaded configuration onto report options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	params, err := cfg.Params()
	if err != nil {
		return Options{}, err
	}
	chart := charts.Options{
		Width:      cfg.Chart.Width,
		Height:     cfg.Chart.Height,
		Theme:      cfg.Chart.Theme,
		Title:      cfg.Chart.Title,
		YAxisTitle: cfg.Chart.YAxisTitle,
		SeriesName: cfg.Chart.SeriesName,
		OutputDir:  cfg.Chart.OutputDir,
		FileName:   cfg.Chart.FileName,
	}
	return Options{Params: params, Chart: chart, DataDir: cfg.Storage.DataDir}, nil
}

// Report is the outcome of one run. Paths are empty for steps not taken.
type Report struct {
	Result     *series.Result
	Summary    series.Summary
	SeriesPath string
	CSVPath    string
	ChartPath  string
	Published  bool
}

type Service struct {
	opts      Options
	recorder  recorder.Recorder
	publisher ChartPublisher
}

// NewService builds a report service. rec may be nil (nothing is archived)
// and so may pub (Publish fails).
func NewService(opts Options, rec recorder.Recorder, pub ChartPublisher) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{opts: opts, recorder: rec, publisher: pub}
}

// Generate runs the pipeline and writes series.json and bars.csv to the data
// directory.
func (s *Service) Generate(ctx context.Context) (*Report, error) {
	start := time.Now()
	res, err := series.Run(ctx, s.opts.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate series: %w", err)
	}
	rep, err := newReport(res)
	if err != nil {
		return nil, err
	}

	rep.SeriesPath = filepath.Join(s.opts.DataDir, fs.SeriesFileName)
	if err := fs.SaveSeries(rep.SeriesPath, res); err != nil {
		return nil, fmt.Errorf("failed to save series: %w", err)
	}
	rep.CSVPath = filepath.Join(s.opts.DataDir, fs.BarsFileName)
	if err := fs.ExportBarsCSV(rep.CSVPath, res.Params.Origin, res.Bars); err != nil {
		return nil, fmt.Errorf("failed to export bars: %w", err)
	}

	logging.LogInfo("Series generated",
		zap.Int64("seed", res.Seed),
		zap.Int("points", len(res.Points)),
		zap.Int("bars", len(res.Bars)),
		zap.Float64("last_close", rep.Summary.LastClose),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return rep, nil
}

// Load rebuilds a report from a series.json written by Generate.
func Load(path string) (*Report, error) {
	res, err := fs.LoadSeries(path)
	if err != nil {
		return nil, err
	}
	rep, err := newReport(res)
	if err != nil {
		return nil, err
	}
	rep.SeriesPath = path
	return rep, nil
}

func newReport(res *series.Result) (*Report, error) {
	summary, err := series.Summarize(res.Bars)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize bars: %w", err)
	}
	return &Report{Result: res, Summary: summary}, nil
}

// Render draws the chart for rep and stores its path.
func (s *Service) Render(rep *Report) error {
	opts := s.opts.Chart
	opts.Origin = rep.Result.Params.Origin
	opts.Markers = rep.Result.Markers
	opts.BucketWidth = rep.Result.Params.BucketWidth

	path, err := charts.RenderOHLC(rep.Result.Bars, opts)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	rep.ChartPath = path
	return nil
}

// Publish sends the rendered chart. When the chart cannot be sent the caption
// goes out as a text message instead and the chart error is returned.
func (s *Service) Publish(ctx context.Context, rep *Report) error {
	if s.publisher == nil {
		return fmt.Errorf("no publisher configured")
	}
	caption := FormatCaption(rep)
	if rep.ChartPath == "" {
		return fmt.Errorf("nothing to publish: chart was not rendered")
	}

	err := s.publisher.PublishChart(ctx, rep.ChartPath, caption)
	if err == nil {
		rep.Published = true
		return nil
	}
	logging.LogError("Failed to send chart, sending text instead", zap.Error(err))
	if textErr := s.publisher.PublishText(ctx, caption); textErr != nil {
		logging.LogError("Failed to send text fallback", zap.Error(textErr))
	}
	return err
}

// Record archives rep. Failures are returned, the report itself is kept.
func (s *Service) Record(rep *Report) error {
	err := s.recorder.RecordRun(&recorder.RunRecord{
		Seed:      rep.Result.Seed,
		Params:    rep.Result.Params,
		Summary:   rep.Summary,
		Bars:      rep.Result.Bars,
		ChartPath: rep.ChartPath,
		Published: rep.Published,
		CreatedAt: rep.Result.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Run executes the whole flow. With publish false the chart is only rendered.
// The run is archived even when publishing fails.
func (s *Service) Run(ctx context.Context, publish bool) (*Report, error) {
	rep, err := s.Generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Render(rep); err != nil {
		return rep, err
	}

	var publishErr error
	if publish {
		publishErr = s.Publish(ctx, rep)
	}
	if err := s.Record(rep); err != nil {
		logging.LogError("Run not archived", zap.Error(err))
	}
	return rep, publishErr
}
