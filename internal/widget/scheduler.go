package widget

import "time"

// Timer is a scheduled callback that can be cancelled before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

//nolint:ireturn
func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
