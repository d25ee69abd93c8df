package series

import (
	"math"
	"time"
)

// MapToTime places every sample at origin + index*step. Indices must be
// non-negative and strictly increasing, so timestamps strictly increase too.
func MapToTime(samples []Sample, origin, step int64) ([]TimedPoint, error) {
	if step <= 0 {
		return nil, invalidf("MapToTime", "step duration must be positive, got %d", step)
	}
	out := make([]TimedPoint, len(samples))
	for i, s := range samples {
		if s.Index < 0 {
			return nil, invalidf("MapToTime", "negative index %d at position %d", s.Index, i)
		}
		if i > 0 && s.Index <= samples[i-1].Index {
			return nil, invalidf("MapToTime", "index %d at position %d does not follow %d", s.Index, i, samples[i-1].Index)
		}
		ts, ok := offsetAt(origin, int64(s.Index), step)
		if !ok {
			return nil, invalidf("MapToTime", "timestamp of index %d overflows (origin %d, step %d)", s.Index, origin, step)
		}
		out[i] = TimedPoint{Timestamp: ts, Value: s.Value}
	}
	return out, nil
}

// offsetAt returns origin + index*step, or false when it does not fit in
// int64. index must be >= 0 and step > 0.
func offsetAt(origin, index, step int64) (int64, bool) {
	if index > math.MaxInt64/step {
		return 0, false
	}
	d := index * step
	if origin > 0 && d > math.MaxInt64-origin {
		return 0, false
	}
	return origin + d, true
}

// NormalizeToOrigin expresses timestamps relative to origin. Axes that use a
// date origin need this for sub-day ranges.
func NormalizeToOrigin(points []TimedPoint, origin int64) []TimedPoint {
	return shift(points, -origin)
}

// DenormalizeFromOrigin turns origin-relative timestamps back into absolute ones.
func DenormalizeFromOrigin(points []TimedPoint, origin int64) []TimedPoint {
	return shift(points, origin)
}

func shift(points []TimedPoint, by int64) []TimedPoint {
	out := make([]TimedPoint, len(points))
	for i, p := range points {
		out[i] = TimedPoint{Timestamp: p.Timestamp + by, Value: p.Value}
	}
	return out
}

// OriginMillis converts a date origin into epoch milliseconds.
func OriginMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// TimeAt is the inverse of OriginMillis for relative timestamps.
func TimeAt(origin time.Time, offsetMillis int64) time.Time {
	return origin.Add(time.Duration(offsetMillis) * time.Millisecond)
}
