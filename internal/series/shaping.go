package series

import "math"

// ReflectBelowFloor mirrors v above floor when it falls below it, so a walk
// bounces off the floor instead of crossing it. Log-scaled consumers cannot
// draw non-positive values.
func ReflectBelowFloor(floor, v float64) float64 {
	if v < floor {
		return floor + (floor - v)
	}
	return v
}

// BaselineShape scales a walk around Baseline and clamps it to Floor:
// max(Baseline + v*Gain, Floor).
type BaselineShape struct {
	Baseline float64 `json:"baseline"`
	Gain     float64 `json:"gain"`
	Floor    float64 `json:"floor"`
}

// Apply returns the shaped copy of samples.
func (s BaselineShape) Apply(samples []Sample) ([]Sample, error) {
	if !(s.Floor > 0) {
		return nil, invalidf("BaselineShape.Apply", "floor must be positive, got %v", s.Floor)
	}
	out := make([]Sample, len(samples))
	for i, smp := range samples {
		out[i] = Sample{Index: smp.Index, Value: math.Max(s.Baseline+smp.Value*s.Gain, s.Floor)}
	}
	return out, nil
}

// ReflectedShape scales a walk by Gain, reflects it at Baseline*FloorRatio and
// offsets it by Baseline. Every output is at least Baseline*(1+FloorRatio).
type ReflectedShape struct {
	Baseline   float64 `json:"baseline"`
	Gain       float64 `json:"gain"`
	FloorRatio float64 `json:"floor_ratio"`
}

// Floor is the reflection threshold applied to the scaled walk.
func (s ReflectedShape) Floor() float64 {
	return s.Baseline * s.FloorRatio
}

// Apply returns the shaped copy of samples.
func (s ReflectedShape) Apply(samples []Sample) ([]Sample, error) {
	if !(s.Baseline > 0) {
		return nil, invalidf("ReflectedShape.Apply", "baseline must be positive, got %v", s.Baseline)
	}
	if !(s.FloorRatio >= 0) {
		return nil, invalidf("ReflectedShape.Apply", "floor ratio must not be negative, got %v", s.FloorRatio)
	}
	floor := s.Floor()
	out := make([]Sample, len(samples))
	for i, smp := range samples {
		out[i] = Sample{Index: smp.Index, Value: s.Baseline + ReflectBelowFloor(floor, smp.Value*s.Gain)}
	}
	return out, nil
}
