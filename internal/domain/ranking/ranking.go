// Package ranking builds the group leaderboard from member histories.
package ranking

import (
	"sort"
	"time"

	"github.com/blakkis/promille/internal/domain/alcomath"
	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/internal/domain/units"
	"github.com/blakkis/promille/internal/domain/window"
)

// Member is one group member's snapshot handed in by the caller: the
// read-only profile and the full drink history as of a single "now".
type Member struct {
	DisplayName string
	Profile     model.BiometricProfile
	History     []model.DrinkEvent
}

// RankGroup computes the leaderboard over all members at one instant.
//
// Members at exactly zero per-mille are left out; a sober member is not
// listed. The result is ordered descending by concentration with ties kept
// in member-key order, and may be empty. A member with an invalid profile
// fails the whole computation; callers must not include such users.
func RankGroup(members map[string]Member, now time.Time) ([]model.RankingEntry, error) {
	// Deterministic iteration so the stable sort has a defined tie order.
	keys := make([]string, 0, len(members))
	for key := range members {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]model.RankingEntry, 0, len(members))
	for _, key := range keys {
		m := members[key]
		permilles, err := alcomath.Permilles(m.Profile, m.History, now)
		if err != nil {
			return nil, err
		}
		if permilles == 0 {
			continue
		}
		sum12 := window.SumWindow(m.History, window.Hours12, now)
		sum24 := window.SumWindow(m.History, window.Hours24, now)
		entries = append(entries, model.RankingEntry{
			DisplayName: m.DisplayName,
			Permilles:   permilles,
			Units12h:    units.StandardUnits(sum12.Grams),
			Units24h:    units.StandardUnits(sum24.Grams),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Permilles > entries[j].Permilles
	})
	return entries, nil
}
