package clock

import "time"

// Real reads the system clock in UTC.
type Real struct{}

// New creates a new Real clock.
func New() Real {
	return Real{}
}

// Now returns the current UTC time.
func (Real) Now() time.Time {
	return time.Now().UTC()
}
