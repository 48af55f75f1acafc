// Package worker delivers milestone announcements asynchronously.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/blakkis/promille/internal/adapters/mq/queue"
	"github.com/blakkis/promille/pkg/logger"
	"github.com/blakkis/promille/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	workerShutdownTimeout = 5 * time.Second
)

// Renderer produces the leaderboard text appended to an announcement.
// Implemented by the application service.
type Renderer interface {
	RenderGroup(ctx context.Context, groupID string, now time.Time) (string, error)
}

// Notifier is the messaging-transport boundary. The engine never talks to
// the transport directly; it hands finished text to this interface.
type Notifier interface {
	Notify(ctx context.Context, groupID, text string) error
}

// Queue defines how workers receive announcements.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Announcement
}

// Worker consumes announcements, renders them, and hands them to the notifier.
type Worker struct {
	queue    Queue
	renderer Renderer
	notifier Notifier
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a new announcement worker with configuration options.
func NewWorker(q Queue, r Renderer, n Notifier, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		renderer: r,
		notifier: n,
		name:     "announcer",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	announcements := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case a, ok := <-announcements:
			if !ok {
				return
			}
			if err := w.deliver(ctx, a); err != nil {
				metrics.RecordAnnouncementError()
				w.logger.Error(ctx, "announcement delivery failed",
					logger.String("groupID", a.GroupID),
					logger.Int("count", a.Count),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// deliver renders the current leaderboard and sends the milestone message.
func (w *Worker) deliver(ctx context.Context, a queue.Announcement) error {
	board, err := w.renderer.RenderGroup(ctx, a.GroupID, time.Now())
	if err != nil {
		return fmt.Errorf("render group %s: %w", a.GroupID, err)
	}
	text := fmt.Sprintf("%s just logged the group's drink number %d!\n\n%s", a.DisplayName, a.Count, board)
	if err := w.notifier.Notify(ctx, a.GroupID, text); err != nil {
		return fmt.Errorf("notify group %s: %w", a.GroupID, err)
	}
	metrics.RecordAnnouncementSent()
	return nil
}

// Pool manages a fixed set of announcement workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers over one queue.
func NewPool(workerCount int, q Queue, r Renderer, n Notifier) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("announcer-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, r, n, WithName("announcer-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown stops all workers, waiting up to the shutdown timeout each.
func (p *Pool) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
