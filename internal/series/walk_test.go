package series

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed fractions; over [-2, 2] the fraction f maps to
// the increment 4f-2.
type scriptedSource struct {
	fractions []float64
	next      int
}

func (s *scriptedSource) Float64() float64 {
	f := s.fractions[s.next%len(s.fractions)]
	s.next++
	return f
}

func stepsSource(steps ...float64) *scriptedSource {
	fr := make([]float64, len(steps))
	for i, st := range steps {
		fr[i] = (st + 2) / 4
	}
	return &scriptedSource{fractions: fr}
}

func TestWalkGenerator_CumulativeSum(t *testing.T) {
	gen, err := NewWalkGenerator(stepsSource(1, -1, 2, 1, -2), -2, 2)
	require.NoError(t, err)

	walk, err := gen.Generate(6)
	require.NoError(t, err)
	require.Len(t, walk, 6)

	want := []float64{0, 1, 0, 2, 3, 1}
	for i, s := range walk {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, want[i], s.Value, "sample %d", i)
	}
}

func TestWalkGenerator_StepBound(t *testing.T) {
	gen, err := NewWalkGenerator(rand.New(rand.NewSource(42)), DefaultMinStep, DefaultMaxStep)
	require.NoError(t, err)

	for _, n := range []int{1, 2, 17, 5000} {
		walk, err := gen.Generate(n)
		require.NoError(t, err)
		require.Len(t, walk, n)
		assert.Equal(t, 0.0, walk[0].Value)
		for i := 1; i < len(walk); i++ {
			d := walk[i].Value - walk[i-1].Value
			if d < 0 {
				d = -d
			}
			assert.LessOrEqual(t, d, gen.MaxStep())
		}
	}
}

func TestWalkGenerator_Reproducible(t *testing.T) {
	a, _ := NewWalkGenerator(rand.New(rand.NewSource(7)), -1, 1)
	b, _ := NewWalkGenerator(rand.New(rand.NewSource(7)), -1, 1)

	wa, err := a.Generate(100)
	require.NoError(t, err)
	wb, err := b.Generate(100)
	require.NoError(t, err)
	assert.Equal(t, wa, wb)
}

func TestWalkGenerator_InvalidArguments(t *testing.T) {
	_, err := NewWalkGenerator(nil, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewWalkGenerator(rand.New(rand.NewSource(1)), 1, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	gen, err := NewWalkGenerator(rand.New(rand.NewSource(1)), -1, 1)
	require.NoError(t, err)
	for _, n := range []int{0, -3} {
		walk, err := gen.Generate(n)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, walk)
	}
}
