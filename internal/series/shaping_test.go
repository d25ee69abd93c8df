package series

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectBelowFloor(t *testing.T) {
	tests := []struct {
		floor, v, want float64
	}{
		{10, 12, 12},
		{10, 10, 10},
		{10, 7, 13},
		{10, -5, 25},
		{0, -3, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReflectBelowFloor(tt.floor, tt.v), "floor=%v v=%v", tt.floor, tt.v)
	}
}

func TestBaselineShape_FloorsToPositive(t *testing.T) {
	in := []Sample{{0, 0}, {1, -200}, {2, 50}}
	out, err := BaselineShape{Baseline: 1000, Gain: 6, Floor: 1}.Apply(in)
	require.NoError(t, err)

	assert.Equal(t, []Sample{{0, 1000}, {1, 1}, {2, 1300}}, out)
	assert.Equal(t, -200.0, in[1].Value, "input must not be mutated")

	_, err = BaselineShape{Baseline: 1000, Gain: 6, Floor: 0}.Apply(in)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReflectedShape_StaysAboveBand(t *testing.T) {
	shape := ReflectedShape{Baseline: 8000, Gain: 250, FloorRatio: 0.75}
	assert.Equal(t, 6000.0, shape.Floor())

	in := []Sample{{0, 0}, {1, 30}, {2, -10}}
	out, err := shape.Apply(in)
	require.NoError(t, err)
	// 0*250 = 0 < 6000 -> 12000; 7500 stays; -2500 -> 14500
	assert.Equal(t, []Sample{{0, 20000}, {1, 15500}, {2, 22500}}, out)

	gen, err := NewWalkGenerator(rand.New(rand.NewSource(3)), DefaultMinStep, DefaultMaxStep)
	require.NoError(t, err)
	walk, err := gen.Generate(3000)
	require.NoError(t, err)
	shaped, err := shape.Apply(walk)
	require.NoError(t, err)
	for _, s := range shaped {
		assert.GreaterOrEqual(t, s.Value, shape.Baseline+shape.Floor())
	}
}

func TestReflectedShape_InvalidArguments(t *testing.T) {
	_, err := ReflectedShape{Baseline: 0, Gain: 1, FloorRatio: 0.5}.Apply(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ReflectedShape{Baseline: 10, Gain: 1, FloorRatio: -0.5}.Apply(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
