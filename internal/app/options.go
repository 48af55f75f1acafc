package service

import (
	"github.com/blakkis/promille/internal/adapters/mq/worker"
	"github.com/blakkis/promille/internal/adapters/repository"
	"github.com/blakkis/promille/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the event store. Defaults to an in-memory store.
func WithStore(store repository.EventStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNotifier sets the messaging transport announcements are delivered to.
func WithNotifier(n worker.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShardCount sets the shard count for the default in-memory store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithAnnounceQueueSize bounds the milestone announcement queue.
func WithAnnounceQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.announceQueueSize = size
		}
	}
}

// WithAnnounceWorkerCount sets the number of announcement workers.
func WithAnnounceWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.announceWorkerCount = count
		}
	}
}

// WithMilestoneInterval sets the round-number step between announcements.
func WithMilestoneInterval(interval int) Option {
	return func(s *Service) {
		if interval > 0 {
			s.milestoneInterval = interval
		}
	}
}
