package series

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

// BoomMarkerName labels the marker placed at the start of the regime change.
const BoomMarkerName = "Price boom start"

// Params configures one generation run. DefaultParams reproduces the
// reference "price boom" chart.
type Params struct {
	PointCount  int               `json:"point_count"`
	Step        int64             `json:"step_ms"`
	BucketWidth int64             `json:"bucket_ms"`
	Origin      time.Time         `json:"origin"`
	Blend       RegimeBlendConfig `json:"blend"`
	MinStep     float64           `json:"min_step"`
	MaxStep     float64           `json:"max_step"`

	// Series A: max(levelA*(0.5+u) + v*GainA, FloorA)
	LevelA float64 `json:"level_a"`
	GainA  float64 `json:"gain_a"`
	FloorA float64 `json:"floor_a"`

	// Series B: levelB*(0.5+u) + reflect(levelB*(0.5+u)*FloorRatioB, v*GainB)
	LevelB      float64 `json:"level_b"`
	GainB       float64 `json:"gain_b"`
	FloorRatioB float64 `json:"floor_ratio_b"`

	// Seed 0 seeds from the clock.
	Seed int64 `json:"seed"`
}

// DefaultParams returns 15000 hourly points from 2013-09-16 packed into hourly
// bars, with the boom between samples 3216 and 5796.
func DefaultParams() Params {
	return Params{
		PointCount:  15000,
		Step:        time.Hour.Milliseconds(),
		BucketWidth: time.Hour.Milliseconds(),
		Origin:      time.Date(2013, time.September, 16, 0, 0, 0, 0, time.UTC),
		Blend:       RegimeBlendConfig{TransitionStart: 3216, TransitionEnd: 5796},
		MinStep:     DefaultMinStep,
		MaxStep:     DefaultMaxStep,
		LevelA:      1000,
		GainA:       6,
		FloorA:      1,
		LevelB:      10000,
		GainB:       250,
		FloorRatioB: 0.75,
	}
}

// Marker is a named constant line on the time axis, relative to the origin.
type Marker struct {
	Name   string `json:"name"`
	Offset int64  `json:"offset_ms"`
}

// Result is everything one run produced. Points, Bars and Markers carry
// timestamps relative to Params.Origin.
type Result struct {
	Params      Params         `json:"params"`
	Seed        int64          `json:"seed"`
	ShapeA      BaselineShape  `json:"shape_a"`
	ShapeB      ReflectedShape `json:"shape_b"`
	Points      []TimedPoint   `json:"points"`
	Bars        []OHLCBar      `json:"bars"`
	Markers     []Marker       `json:"markers"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// OriginMillis returns the run's axis origin in epoch milliseconds.
func (r *Result) OriginMillis() int64 {
	return OriginMillis(r.Params.Origin)
}

// Validate checks p without running anything.
func (p Params) Validate() error {
	if p.PointCount <= 0 {
		return invalidf("Params", "point count must be positive, got %d", p.PointCount)
	}
	if p.Step <= 0 {
		return invalidf("Params", "step duration must be positive, got %d", p.Step)
	}
	if p.BucketWidth <= 0 {
		return invalidf("Params", "bucket width must be positive, got %d", p.BucketWidth)
	}
	if p.MinStep > p.MaxStep {
		return invalidf("Params", "min step %v above max step %v", p.MinStep, p.MaxStep)
	}
	if !(p.LevelA > 0) || !(p.LevelB > 0) {
		return invalidf("Params", "levels must be positive (a=%v, b=%v)", p.LevelA, p.LevelB)
	}
	return p.Blend.validate("Params", p.PointCount)
}

// Run generates the two walks concurrently, shapes and blends them, maps the
// result onto the time axis and packs it into OHLC bars.
func Run(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	master := rand.New(rand.NewSource(seed))
	shapeA := BaselineShape{Baseline: p.LevelA * (0.5 + master.Float64()), Gain: p.GainA, Floor: p.FloorA}
	baselineB := p.LevelB * (0.5 + master.Float64())
	shapeB := ReflectedShape{Baseline: baselineB, Gain: p.GainB, FloorRatio: p.FloorRatioB}
	seedA, seedB := master.Int63(), master.Int63()

	var walkA, walkB []Sample
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := generateWalk(gctx, seedA, p)
		walkA = w
		return err
	})
	g.Go(func() error {
		w, err := generateWalk(gctx, seedB, p)
		walkB = w
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a, err := shapeA.Apply(walkA)
	if err != nil {
		return nil, err
	}
	b, err := shapeB.Apply(walkB)
	if err != nil {
		return nil, err
	}
	blended, err := Blend(a, b, p.Blend)
	if err != nil {
		return nil, err
	}

	origin := OriginMillis(p.Origin)
	absolute, err := MapToTime(blended, origin, p.Step)
	if err != nil {
		return nil, err
	}
	points := NormalizeToOrigin(absolute, origin)

	bars, err := Aggregate(points, p.BucketWidth)
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:  p,
		Seed:    seed,
		ShapeA:  shapeA,
		ShapeB:  shapeB,
		Points:  points,
		Bars:    bars,
		Markers: []Marker{{Name: BoomMarkerName, Offset: int64(p.Blend.TransitionStart) * p.Step}},
		// not part of the deterministic output
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func generateWalk(ctx context.Context, seed int64, p Params) ([]Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("walk generation cancelled: %w", err)
	}
	gen, err := NewWalkGenerator(rand.New(rand.NewSource(seed)), p.MinStep, p.MaxStep)
	if err != nil {
		return nil, err
	}
	return gen.Generate(p.PointCount)
}

// ProduceOHLCSeries runs the default pipeline with the given point count,
// bucket width, origin (epoch milliseconds) and blend window. Bar timestamps
// are relative to origin.
func ProduceOHLCSeries(pointCount int, bucketWidth int64, origin int64, blend RegimeBlendConfig) ([]OHLCBar, error) {
	p := DefaultParams()
	p.PointCount = pointCount
	p.BucketWidth = bucketWidth
	p.Origin = time.UnixMilli(origin).UTC()
	p.Blend = blend

	res, err := Run(context.Background(), p)
	if err != nil {
		return nil, err
	}
	return res.Bars, nil
}
