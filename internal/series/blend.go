package series

// Blend merges two equal-length series: a up to TransitionStart, b from
// TransitionEnd on and a linear interpolation in between.
//
// The "b" branch is checked first, so with TransitionStart == TransitionEnd
// the boundary index takes b's value.
func Blend(a, b []Sample, cfg RegimeBlendConfig) ([]Sample, error) {
	if len(a) != len(b) {
		return nil, invalidf("Blend", "series lengths differ (%d != %d)", len(a), len(b))
	}
	if err := cfg.validate("Blend", len(a)); err != nil {
		return nil, err
	}

	start, end := cfg.TransitionStart, cfg.TransitionEnd
	out := make([]Sample, len(a))
	for i := range a {
		switch {
		case i >= end:
			out[i] = b[i]
		case i <= start:
			out[i] = a[i]
		default:
			t := float64(i-start) / float64(end-start)
			out[i] = Sample{Index: a[i].Index, Value: a[i].Value + t*(b[i].Value-a[i].Value)}
		}
	}
	return out, nil
}
