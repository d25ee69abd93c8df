package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallParams() Params {
	p := DefaultParams()
	p.PointCount = 1200
	p.Blend = RegimeBlendConfig{TransitionStart: 300, TransitionEnd: 700}
	p.BucketWidth = 4 * time.Hour.Milliseconds()
	p.Seed = 20130916
	return p
}

func TestRun_Reproducible(t *testing.T) {
	p := smallParams()

	first, err := Run(context.Background(), p)
	require.NoError(t, err)
	second, err := Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first.Bars, second.Bars)
	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, first.ShapeA, second.ShapeA)
	assert.Equal(t, p.Seed, first.Seed)
}

func TestRun_Shape(t *testing.T) {
	p := smallParams()
	res, err := Run(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, res.Points, p.PointCount)
	assert.Equal(t, int64(0), res.Points[0].Timestamp, "points are relative to the origin")
	assert.Len(t, res.Bars, p.PointCount/4)

	for _, b := range res.Bars {
		assert.Equal(t, 4, b.Samples)
		assert.Greater(t, b.Low, 0.0, "log axis needs strictly positive values")
	}

	require.Len(t, res.Markers, 1)
	assert.Equal(t, BoomMarkerName, res.Markers[0].Name)
	assert.Equal(t, int64(300)*p.Step, res.Markers[0].Offset)

	assert.GreaterOrEqual(t, res.ShapeA.Baseline, p.LevelA*0.5)
	assert.Less(t, res.ShapeA.Baseline, p.LevelA*1.5)
	// after the boom every value comes from the reflected series
	for _, pt := range res.Points[p.Blend.TransitionEnd:] {
		assert.GreaterOrEqual(t, pt.Value, res.ShapeB.Baseline+res.ShapeB.Floor())
	}
}

func TestRun_InvalidParams(t *testing.T) {
	tests := map[string]func(p *Params){
		"zero points":     func(p *Params) { p.PointCount = 0 },
		"zero step":       func(p *Params) { p.Step = 0 },
		"zero bucket":     func(p *Params) { p.BucketWidth = 0 },
		"blend past end":  func(p *Params) { p.Blend.TransitionEnd = p.PointCount + 1 },
		"inverted steps":  func(p *Params) { p.MinStep, p.MaxStep = 1, -1 },
		"non-positive lv": func(p *Params) { p.LevelB = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := smallParams()
			mutate(&p)
			res, err := Run(context.Background(), p)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, res)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, smallParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProduceOHLCSeries(t *testing.T) {
	origin := OriginMillis(time.Date(2013, time.September, 16, 0, 0, 0, 0, time.UTC))
	bars, err := ProduceOHLCSeries(600, time.Hour.Milliseconds(), origin, RegimeBlendConfig{TransitionStart: 100, TransitionEnd: 200})
	require.NoError(t, err)
	require.Len(t, bars, 600)
	assert.Equal(t, int64(0), bars[0].BucketStart)

	_, err = ProduceOHLCSeries(600, 0, origin, RegimeBlendConfig{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
