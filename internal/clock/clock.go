// Package clock abstracts time so debouncing and cache freshness can be
// driven manually in tests.
package clock

import "time"

// Timer is a pending AfterFunc call
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// stopped before it fired.
	Stop() bool
}

// Clock tells the time and schedules callbacks
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns the wall clock
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
