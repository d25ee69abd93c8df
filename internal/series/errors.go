package series

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument covers bad counts, widths, steps, mismatched series
// lengths and malformed blend bounds.
var ErrInvalidArgument = errors.New("series: invalid argument")

// ErrOutOfOrderInput is returned by the aggregator when a point arrives with a
// timestamp earlier than the last one it accepted.
var ErrOutOfOrderInput = errors.New("series: out of order input")

func invalidf(op, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidArgument, fmt.Sprintf(format, args...))
}
