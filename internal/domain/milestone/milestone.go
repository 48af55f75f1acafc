// Package milestone decides when a group's lifetime drink count crosses a
// round number worth announcing.
package milestone

// DefaultInterval is the round-number step between announcements.
const DefaultInterval = 100

// IsMilestone reports whether the new lifetime count for a group just
// crossed a default-interval milestone. Count 0 never fires: nothing was
// logged, so there is nothing to announce.
func IsMilestone(newTotal int) bool {
	return IsMilestoneEvery(newTotal, DefaultInterval)
}

// IsMilestoneEvery is IsMilestone with a configurable interval. A
// non-positive interval never fires.
func IsMilestoneEvery(newTotal, interval int) bool {
	if newTotal <= 0 || interval <= 0 {
		return false
	}
	return newTotal%interval == 0
}
