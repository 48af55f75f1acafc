// Package window computes per-user sums over fixed trailing time windows.
package window

import (
	"time"

	"github.com/blakkis/promille/internal/domain/model"
)

// Canonical trailing windows used for social display, in hours.
const (
	Hours12 = 12.0
	Hours24 = 24.0
	Hours48 = 48.0
)

// Sum summarizes the drinks inside one trailing window.
type Sum struct {
	Count    int
	Grams    float64
	Earliest time.Time // zero when the window is empty
}

// SumWindow filters events with OccurredAt strictly after now minus the
// window and totals them. An empty window yields the zero Sum.
func SumWindow(events []model.DrinkEvent, hours float64, now time.Time) Sum {
	cutoff := cutoff(now, hours)
	var s Sum
	for _, e := range events {
		if !e.OccurredAt.After(cutoff) {
			continue
		}
		s.Count++
		s.Grams += e.EthanolGrams
		if s.Earliest.IsZero() || e.OccurredAt.Before(s.Earliest) {
			s.Earliest = e.OccurredAt
		}
	}
	return s
}

// Recent returns the events inside the trailing window, preserving their
// order in the history.
func Recent(events []model.DrinkEvent, hours float64, now time.Time) []model.DrinkEvent {
	cutoff := cutoff(now, hours)
	var recent []model.DrinkEvent
	for _, e := range events {
		if e.OccurredAt.After(cutoff) {
			recent = append(recent, e)
		}
	}
	return recent
}

func cutoff(now time.Time, hours float64) time.Time {
	return now.Add(-time.Duration(hours * float64(time.Hour)))
}
