package series

import (
	"fmt"
	"math"
)

// Aggregator packs a time-ordered point stream into fixed-width OHLC bars.
// It is not safe for concurrent use.
type Aggregator struct {
	width   int64
	open    bool
	current OHLCBar
	seen    bool
	last    int64

	// closed is set once a bar was emitted; points may not reopen
	// buckets at or before closedStart.
	closed      bool
	closedStart int64
}

// NewAggregator returns an aggregator for buckets of bucketWidth milliseconds.
func NewAggregator(bucketWidth int64) (*Aggregator, error) {
	if bucketWidth <= 0 {
		return nil, invalidf("NewAggregator", "bucket width must be positive, got %d", bucketWidth)
	}
	return &Aggregator{width: bucketWidth}, nil
}

// Width returns the bucket width.
func (a *Aggregator) Width() int64 { return a.width }

// BucketStart returns floor(ts/width)*width, rounding toward negative infinity.
func BucketStart(ts, width int64) int64 {
	q := ts / width
	if ts%width != 0 && ts < 0 {
		q--
	}
	return q * width
}

// Add feeds one point. When p opens a later bucket the finished bar of the
// previous bucket is returned with ok == true. A rejected point leaves the
// aggregator untouched.
func (a *Aggregator) Add(p TimedPoint) (done OHLCBar, ok bool, err error) {
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return OHLCBar{}, false, invalidf("Aggregator.Add", "non-finite value at t=%d", p.Timestamp)
	}
	if a.seen && p.Timestamp < a.last {
		return OHLCBar{}, false, fmt.Errorf("Aggregator.Add: %w: t=%d after t=%d", ErrOutOfOrderInput, p.Timestamp, a.last)
	}
	start := BucketStart(p.Timestamp, a.width)
	if a.closed && start <= a.closedStart {
		return OHLCBar{}, false, fmt.Errorf("Aggregator.Add: %w: t=%d falls in bucket %d, already emitted", ErrOutOfOrderInput, p.Timestamp, a.closedStart)
	}
	a.seen = true
	a.last = p.Timestamp

	if a.open && start == a.current.BucketStart {
		a.current.Close = p.Value
		a.current.High = math.Max(a.current.High, p.Value)
		a.current.Low = math.Min(a.current.Low, p.Value)
		a.current.Samples++
		return OHLCBar{}, false, nil
	}

	done, ok = a.current, a.open
	if ok {
		a.closed, a.closedStart = true, done.BucketStart
	}
	a.current = OHLCBar{BucketStart: start, Open: p.Value, High: p.Value, Low: p.Value, Close: p.Value, Samples: 1}
	a.open = true
	return done, ok, nil
}

// Expire emits the open bar once its time range has fully elapsed at now.
// Real-time feeds call it on a clock tick instead of waiting for the next point.
func (a *Aggregator) Expire(now int64) (OHLCBar, bool) {
	if !a.open || now < a.current.BucketStart+a.width {
		return OHLCBar{}, false
	}
	return a.Flush()
}

// Flush finalizes the open bucket, if any.
func (a *Aggregator) Flush() (OHLCBar, bool) {
	if !a.open {
		return OHLCBar{}, false
	}
	bar := a.current
	a.closed, a.closedStart = true, bar.BucketStart
	a.open = false
	a.current = OHLCBar{}
	return bar, true
}

// Aggregate packs points into bars in one pass. Only non-empty buckets are
// emitted, in ascending order.
func Aggregate(points []TimedPoint, bucketWidth int64) ([]OHLCBar, error) {
	agg, err := NewAggregator(bucketWidth)
	if err != nil {
		return nil, err
	}

	bars := make([]OHLCBar, 0, estimateBars(points, bucketWidth))
	for _, p := range points {
		bar, ok, err := agg.Add(p)
		if err != nil {
			return nil, err
		}
		if ok {
			bars = append(bars, bar)
		}
	}
	if bar, ok := agg.Flush(); ok {
		bars = append(bars, bar)
	}
	return bars, nil
}

func estimateBars(points []TimedPoint, width int64) int {
	if len(points) == 0 {
		return 0
	}
	span := points[len(points)-1].Timestamp - points[0].Timestamp
	if span < 0 {
		return 0
	}
	n := span/width + 1
	if n > int64(len(points)) {
		n = int64(len(points))
	}
	return int(n)
}

// Repack merges bars into wider buckets of width milliseconds. Bars must be in
// ascending BucketStart order.
func Repack(bars []OHLCBar, width int64) ([]OHLCBar, error) {
	if width <= 0 {
		return nil, invalidf("Repack", "bucket width must be positive, got %d", width)
	}

	var out []OHLCBar
	for i, b := range bars {
		if i > 0 && b.BucketStart < bars[i-1].BucketStart {
			return nil, fmt.Errorf("Repack: %w: bar %d starts before bar %d", ErrOutOfOrderInput, i, i-1)
		}
		start := BucketStart(b.BucketStart, width)
		if n := len(out); n > 0 && out[n-1].BucketStart == start {
			m := &out[n-1]
			m.Close = b.Close
			m.High = math.Max(m.High, b.High)
			m.Low = math.Min(m.Low, b.Low)
			m.Samples += b.Samples
			continue
		}
		b.BucketStart = start
		out = append(out, b)
	}
	return out, nil
}
