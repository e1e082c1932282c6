package domain

import (
	"fmt"
	"time"
)

// DateLayout is the fixed calendar input format: day, month, year digits.
// "01092018" is 1 September 2018.
const DateLayout = "02012006"

// Bound is one side of a TimeWindow. The zero value is unbounded,
// which is distinct from a bound at epoch 0.
type Bound struct {
	Set  bool
	Unix int64
}

// At returns a bound at the given Unix second
func At(unix int64) Bound {
	return Bound{Set: true, Unix: unix}
}

// Unbounded returns an open bound
func Unbounded() Bound {
	return Bound{}
}

func (b Bound) String() string {
	if !b.Set {
		return "*"
	}
	return time.Unix(b.Unix, 0).UTC().Format(time.RFC3339)
}

// TimeWindow is an inclusive [Start, Stop] range in Unix seconds.
// Either side may be unbounded.
type TimeWindow struct {
	Start Bound
	Stop  Bound
}

// NewTimeWindow validates that a bounded window is not inverted
func NewTimeWindow(start, stop Bound) (TimeWindow, error) {
	if start.Set && stop.Set && start.Unix > stop.Unix {
		return TimeWindow{}, fmt.Errorf("%w: window start %s is after stop %s", ErrInvalidArgument, start, stop)
	}
	return TimeWindow{Start: start, Stop: stop}, nil
}

// ParseWindow converts optional DDMMYYYY dates into a window.
// An empty string leaves that side unbounded.
func ParseWindow(start, stop string) (TimeWindow, error) {
	var lo, hi Bound

	if start != "" {
		unix, err := ParseDate(start)
		if err != nil {
			return TimeWindow{}, err
		}
		lo = At(unix)
	}

	if stop != "" {
		unix, err := ParseDate(stop)
		if err != nil {
			return TimeWindow{}, err
		}
		hi = At(unix)
	}

	return NewTimeWindow(lo, hi)
}

// ParseDate converts a DDMMYYYY date to Unix seconds at 00:00:00 UTC
func ParseDate(s string) (int64, error) {
	if len(s) != len(DateLayout) {
		return 0, fmt.Errorf("%w: %q is not DDMMYYYY", ErrInvalidDate, s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not DDMMYYYY", ErrInvalidDate, s)
		}
	}

	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return t.Unix(), nil
}

// FormatDate renders Unix seconds back into DDMMYYYY (UTC)
func FormatDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(DateLayout)
}

// Contains reports whether t lies inside the window, bounds inclusive
func (w TimeWindow) Contains(t int64) bool {
	if w.Start.Set && t < w.Start.Unix {
		return false
	}
	if w.Stop.Set && t > w.Stop.Unix {
		return false
	}
	return true
}

// IsUnbounded reports whether the window admits every timestamp
func (w TimeWindow) IsUnbounded() bool {
	return !w.Start.Set && !w.Stop.Set
}

// Match returns the indices of timestamps inside the window, in index order
func (w TimeWindow) Match(timestamps []int64) []int {
	var idx []int
	for i, t := range timestamps {
		if w.Contains(t) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start, w.Stop)
}
