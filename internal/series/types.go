package series

// Sample is one raw walk position.
type Sample struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// TimedPoint is a value placed on the time axis, in milliseconds.
type TimedPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// OHLCBar summarizes all points of one fixed-width bucket.
type OHLCBar struct {
	BucketStart int64   `json:"bucket_start"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Samples     int     `json:"samples"` // number of points packed into the bar
}

// RegimeBlendConfig selects which series dominates at each index.
type RegimeBlendConfig struct {
	TransitionStart int `json:"transition_start"`
	TransitionEnd   int `json:"transition_end"`
}

func (c RegimeBlendConfig) validate(op string, length int) error {
	if c.TransitionStart < 0 || c.TransitionEnd < 0 {
		return invalidf(op, "negative transition bound (start=%d, end=%d)", c.TransitionStart, c.TransitionEnd)
	}
	if c.TransitionStart > c.TransitionEnd {
		return invalidf(op, "transition start %d after end %d", c.TransitionStart, c.TransitionEnd)
	}
	if c.TransitionEnd > length {
		return invalidf(op, "transition end %d exceeds series length %d", c.TransitionEnd, length)
	}
	return nil
}
