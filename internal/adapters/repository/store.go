// Package repository defines the drink event store interface and its
// in-memory implementation.
package repository

import (
	"context"
	"time"

	"github.com/blakkis/promille/internal/domain/model"
)

// EventStore provides append and range-query access to per-user drink
// histories. Histories are chronological and append-only except for the
// explicit undo of the most recent drink.
type EventStore interface {
	// Append inserts an event into the user's history, keeping the
	// history chronological even for backdated events.
	Append(ctx context.Context, userID string, e model.DrinkEvent) error

	// History returns the user's full drink history in chronological
	// order. An unknown user has an empty history, not an error.
	History(ctx context.Context, userID string) ([]model.DrinkEvent, error)

	// HistorySince returns the events with OccurredAt strictly after the
	// given instant, in chronological order.
	HistorySince(ctx context.Context, userID string, since time.Time) ([]model.DrinkEvent, error)

	// UndoLast removes and returns the user's most recent drink.
	// Returns ErrNoEvents when the history is empty.
	UndoLast(ctx context.Context, userID string) (model.DrinkEvent, error)

	// Count returns the number of events logged by one user.
	Count(ctx context.Context, userID string) (int, error)

	// CountForUsers returns the combined lifetime event count across the
	// given users, used for group milestone detection.
	CountForUsers(ctx context.Context, userIDs []string) (int, error)
}
