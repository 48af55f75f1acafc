package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// MemStore is a sharded, in-memory EventStore. Histories are kept sorted
// by OccurredAt; backdated inserts land at their chronological position.
type MemStore struct {
	shards     []*shard
	shardCount int
	eventCount atomic.Int64
	userCount  atomic.Int64
}

type shard struct {
	mu     sync.RWMutex
	events map[string][]model.DrinkEvent
}

// NewMemStore creates a new in-memory event store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shardCount: defaultShardCount,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{events: make(map[string][]model.DrinkEvent)}
	}

	metrics.UpdateStoreShardCount(s.shardCount)
	metrics.UpdateStoreEvents(0)
	metrics.UpdateStoreUsers(0)
	return s
}

func (s *MemStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// Append inserts an event at its chronological position in the user's history.
func (s *MemStore) Append(ctx context.Context, userID string, e model.DrinkEvent) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	history, known := sh.events[userID]
	// Most inserts are live drinks landing at the end; search only when
	// the new event is older than the current tail.
	if n := len(history); n == 0 || !e.OccurredAt.Before(history[n-1].OccurredAt) {
		history = append(history, e)
	} else {
		i := sort.Search(n, func(i int) bool {
			return history[i].OccurredAt.After(e.OccurredAt)
		})
		history = append(history, model.DrinkEvent{})
		copy(history[i+1:], history[i:])
		history[i] = e
	}
	sh.events[userID] = history

	if !known {
		s.userCount.Add(1)
	}
	s.eventCount.Add(1)
	metrics.UpdateStoreEvents(int(s.eventCount.Load()))
	metrics.UpdateStoreUsers(int(s.userCount.Load()))
	return nil
}

// History returns a copy of the user's full chronological history.
func (s *MemStore) History(ctx context.Context, userID string) ([]model.DrinkEvent, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	history := sh.events[userID]
	out := make([]model.DrinkEvent, len(history))
	copy(out, history)
	return out, nil
}

// HistorySince returns a copy of the events strictly after the given instant.
func (s *MemStore) HistorySince(ctx context.Context, userID string, since time.Time) ([]model.DrinkEvent, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	history := sh.events[userID]
	i := sort.Search(len(history), func(i int) bool {
		return history[i].OccurredAt.After(since)
	})
	out := make([]model.DrinkEvent, len(history)-i)
	copy(out, history[i:])
	return out, nil
}

// UndoLast removes and returns the user's most recent drink.
func (s *MemStore) UndoLast(ctx context.Context, userID string) (model.DrinkEvent, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	history := sh.events[userID]
	if len(history) == 0 {
		return model.DrinkEvent{}, ErrNoEvents
	}
	last := history[len(history)-1]
	sh.events[userID] = history[:len(history)-1]

	s.eventCount.Add(-1)
	metrics.UpdateStoreEvents(int(s.eventCount.Load()))
	return last, nil
}

// Count returns the number of events logged by one user.
func (s *MemStore) Count(ctx context.Context, userID string) (int, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.events[userID]), nil
}

// CountForUsers returns the combined lifetime event count for a user set.
func (s *MemStore) CountForUsers(ctx context.Context, userIDs []string) (int, error) {
	var total int
	for _, userID := range userIDs {
		n, err := s.Count(ctx, userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
