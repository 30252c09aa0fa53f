package auth

import (
	"time"
)

// Timer is a pending scheduled call. *time.Timer satisfies it
type Timer interface {
	// Stop cancels the call. Returns false if it already fired or was stopped
	Stop() bool
}

// AfterFunc schedules f to run once after d
type AfterFunc func(d time.Duration, f func()) Timer

func timeAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RefreshTask is the single pending background refresh of the session
type RefreshTask struct {
	timer Timer
	due   time.Time
}

// Due returns the moment the refresh fires
func (t *RefreshTask) Due() time.Time {
	return t.due
}

// Stop cancels the task. Safe to call many times
func (t *RefreshTask) Stop() bool {
	if t == nil || t.timer == nil {
		return false
	}
	return t.timer.Stop()
}
