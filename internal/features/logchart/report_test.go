package logchart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohlc-logchart/internal/charts"
	"ohlc-logchart/internal/config"
	"ohlc-logchart/internal/recorder"
	"ohlc-logchart/internal/series"
)

type fakePublisher struct {
	chartErr error
	charts   []string
	texts    []string
}

func (f *fakePublisher) PublishChart(_ context.Context, path, caption string) error {
	if f.chartErr != nil {
		return f.chartErr
	}
	f.charts = append(f.charts, path)
	return nil
}

func (f *fakePublisher) PublishText(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

type memRecorder struct {
	runs []*recorder.RunRecord
}

func (m *memRecorder) RecordRun(run *recorder.RunRecord) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRecorder) Close() error { return nil }

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()

	p := series.DefaultParams()
	p.PointCount = 600
	p.Blend = series.RegimeBlendConfig{TransitionStart: 200, TransitionEnd: 400}
	p.BucketWidth = 4 * p.Step
	p.Seed = 7

	chart := charts.DefaultOptions()
	chart.Width, chart.Height = 600, 400
	chart.OutputDir = filepath.Join(dir, "charts")

	return Options{Params: p, Chart: chart, DataDir: filepath.Join(dir, "data")}
}

func TestService_RunPublishes(t *testing.T) {
	opts := testOptions(t)
	pub := &fakePublisher{}
	rec := &memRecorder{}
	svc := NewService(opts, rec, pub)

	rep, err := svc.Run(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, int64(7), rep.Result.Seed)
	assert.Len(t, rep.Result.Bars, 150)
	assert.Equal(t, 150, rep.Summary.Bars)
	assert.FileExists(t, rep.SeriesPath)
	assert.FileExists(t, rep.CSVPath)
	assert.FileExists(t, rep.ChartPath)
	assert.True(t, rep.Published)
	assert.Equal(t, []string{rep.ChartPath}, pub.charts)
	assert.Empty(t, pub.texts)

	require.Len(t, rec.runs, 1)
	assert.True(t, rec.runs[0].Published)
	assert.Equal(t, rep.ChartPath, rec.runs[0].ChartPath)
	assert.Len(t, rec.runs[0].Bars, 150)
}

func TestService_RunWithoutPublishing(t *testing.T) {
	pub := &fakePublisher{}
	rec := &memRecorder{}
	svc := NewService(testOptions(t), rec, pub)

	rep, err := svc.Run(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, rep.Published)
	assert.Empty(t, pub.charts)
	require.Len(t, rec.runs, 1)
	assert.False(t, rec.runs[0].Published)
}

func TestService_PublishFallsBackToText(t *testing.T) {
	sendErr := errors.New("telegram down")
	pub := &fakePublisher{chartErr: sendErr}
	rec := &memRecorder{}
	svc := NewService(testOptions(t), rec, pub)

	rep, err := svc.Run(context.Background(), true)
	assert.ErrorIs(t, err, sendErr)
	require.NotNil(t, rep)
	assert.False(t, rep.Published)
	require.Len(t, pub.texts, 1)
	assert.Contains(t, pub.texts[0], "Price boom start")
	// archived even though publishing failed
	assert.Len(t, rec.runs, 1)
}

func TestService_PublishWithoutPublisher(t *testing.T) {
	svc := NewService(testOptions(t), nil, nil)
	_, err := svc.Run(context.Background(), true)
	assert.Error(t, err)
}

func TestService_GenerateRejectsBadParams(t *testing.T) {
	opts := testOptions(t)
	opts.Params.PointCount = 0
	_, err := NewService(opts, nil, nil).Generate(context.Background())
	assert.ErrorIs(t, err, series.ErrInvalidArgument)
}

func TestLoadAndRender(t *testing.T) {
	opts := testOptions(t)
	svc := NewService(opts, nil, nil)

	rep, err := svc.Generate(context.Background())
	require.NoError(t, err)

	loaded, err := Load(rep.SeriesPath)
	require.NoError(t, err)
	assert.Equal(t, rep.Result.Bars, loaded.Result.Bars)
	assert.Equal(t, rep.Summary, loaded.Summary)

	require.NoError(t, svc.Render(loaded))
	info, err := os.Stat(loaded.ChartPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRender_SingleBarUsesBucketWidth(t *testing.T) {
	opts := testOptions(t)
	svc := NewService(opts, nil, nil)

	rep, err := svc.Generate(context.Background())
	require.NoError(t, err)
	rep.Result.Bars = rep.Result.Bars[:1]
	rep.Result.Markers = nil

	require.NoError(t, svc.Render(rep))
	info, err := os.Stat(rep.ChartPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFormatCaption(t *testing.T) {
	opts := testOptions(t)
	rep, err := NewService(opts, nil, nil).Generate(context.Background())
	require.NoError(t, err)

	caption := FormatCaption(rep)
	assert.True(t, strings.HasPrefix(caption, "<b>OHLC Chart with Logarithmic Y Axis</b>"))
	assert.Contains(t, caption, "Period: 2013-09-16 to 2013-10-11")
	assert.Contains(t, caption, "Bars: 150")
	// boom starts 200 hours after the origin
	assert.Contains(t, caption, "Price boom start: 2013-09-24")
	assert.Contains(t, caption, "seed 7")
}

func TestOptionsFromConfig(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 15000, opts.Params.PointCount)
	assert.Equal(t, "darkGold", opts.Chart.Theme)
	assert.Equal(t, "Stock price", opts.Chart.SeriesName)
	assert.Equal(t, cfg.Storage.DataDir, opts.DataDir)
}
