package clock

import "time"

// Clock supplies timestamps for records; tests substitute a fixed clock
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// New creates a System clock
func New() System {
	return System{}
}

// Now returns the current time in UTC, truncated to microseconds so that
// values survive a round trip through every storage backend unchanged
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
