package access

import (
	"fmt"
	"time"
)

type attemptCounter interface {
	IncrementWindowed(key string, window time.Duration) int64
	DeleteOne(key string) bool
}

// FailureTracker counts consecutive denials per checkpoint inside a sliding
// window. Hitting the streak raises the multiple-failed-attempts signal; a
// permitted access resets the streak.
type FailureTracker struct {
	counter attemptCounter
	streak  int
	window  time.Duration
}

func NewFailureTracker(counter attemptCounter, streak int, window time.Duration) *FailureTracker {
	return &FailureTracker{counter: counter, streak: streak, window: window}
}

// RecordDenied bumps the checkpoint's failure count and reports whether this
// denial completed a streak. The streak fires exactly on the boundary, not
// on every denial after it, so one incident raises one alert.
func (ft *FailureTracker) RecordDenied(checkpointID string) (count int64, streakHit bool) {
	count = ft.counter.IncrementWindowed(ft.key(checkpointID), ft.window)
	return count, count == int64(ft.streak)
}

// RecordPermitted clears the checkpoint's failure count.
func (ft *FailureTracker) RecordPermitted(checkpointID string) {
	ft.counter.DeleteOne(ft.key(checkpointID))
}

func (ft *FailureTracker) key(checkpointID string) string {
	return fmt.Sprintf("failed_attempts:%s", checkpointID)
}
