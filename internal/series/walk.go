package series

import "math"

const (
	// DefaultMinStep and DefaultMaxStep bound one progressive trace increment.
	DefaultMinStep = -0.5
	DefaultMaxStep = 0.5
)

// Float64Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// WalkGenerator produces progressive traces: cumulative sums of uniformly
// distributed increments, starting from 0.
type WalkGenerator struct {
	src     Float64Source
	minStep float64
	maxStep float64
}

// NewWalkGenerator returns a generator drawing increments from src, scaled to
// [minStep, maxStep].
func NewWalkGenerator(src Float64Source, minStep, maxStep float64) (*WalkGenerator, error) {
	if src == nil {
		return nil, invalidf("NewWalkGenerator", "random source is nil")
	}
	if math.IsNaN(minStep) || math.IsNaN(maxStep) || minStep > maxStep {
		return nil, invalidf("NewWalkGenerator", "bad step range [%v, %v]", minStep, maxStep)
	}
	return &WalkGenerator{src: src, minStep: minStep, maxStep: maxStep}, nil
}

// MaxStep is the largest magnitude a single increment can have.
func (g *WalkGenerator) MaxStep() float64 {
	return math.Max(math.Abs(g.minStep), math.Abs(g.maxStep))
}

// Generate returns count samples. Sample 0 is 0, so count-1 increments are drawn.
func (g *WalkGenerator) Generate(count int) ([]Sample, error) {
	if count <= 0 {
		return nil, invalidf("Generate", "count must be positive, got %d", count)
	}

	out := make([]Sample, count)
	span := g.maxStep - g.minStep
	v := 0.0
	for i := 1; i < count; i++ {
		v += g.minStep + g.src.Float64()*span
		out[i] = Sample{Index: i, Value: v}
	}
	return out, nil
}
