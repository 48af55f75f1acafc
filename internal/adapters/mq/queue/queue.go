// Package queue defines the contract for enqueuing and consuming milestone
// announcements. Announcements are fire-and-forget: the drink logging path
// must never block on group message delivery.
package queue

import (
	"context"
	"sync"

	"github.com/blakkis/promille/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
)

// Announcement is one pending milestone announcement for a group.
type Announcement struct {
	GroupID     string
	DisplayName string // the member whose drink crossed the milestone
	Count       int    // the group's new lifetime drink count
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an announcement. Returns false when the queue is full
	// or closed; the announcement is then dropped.
	Enqueue(ctx context.Context, a Announcement) bool

	// Dequeue returns the channel announcements are consumed from. The
	// channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Announcement

	// Len returns the current number of queued announcements.
	Len(ctx context.Context) int

	// Close shuts the queue down; no further enqueues are accepted.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	announcements chan Announcement
	capacity      int
	mu            sync.RWMutex
	closed        bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.announcements = make(chan Announcement, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds an announcement to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Announcement) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.announcements <- a:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// Queue full. Milestone announcements are best-effort; drop.
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns the consumption channel.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Announcement {
	return q.announcements
}

// Len returns the current number of queued announcements. Read-only: the
// size gauge is maintained on the enqueue path, never by observers.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.announcements)
}

// Close shuts down the queue. Idempotent.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.announcements)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.announcements)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
