// Package service provides the core business service tying the BAC engine
// to its collaborators: the event store, the announcement pipeline, and
// the user/group registry.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blakkis/promille/internal/adapters/mq/queue"
	"github.com/blakkis/promille/internal/adapters/mq/worker"
	"github.com/blakkis/promille/internal/adapters/repository"
	"github.com/blakkis/promille/internal/domain/alcomath"
	"github.com/blakkis/promille/internal/domain/milestone"
	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/internal/domain/ranking"
	"github.com/blakkis/promille/internal/domain/retro"
	"github.com/blakkis/promille/internal/domain/units"
	"github.com/blakkis/promille/pkg/logger"
	"github.com/blakkis/promille/pkg/metrics"
)

// profileRecord pairs a display name with the read-only biometric profile.
type profileRecord struct {
	displayName string
	profile     model.BiometricProfile
}

// Service implements the engine's call-level contracts over one event
// store and one announcement pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.EventStore
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	notifier worker.Notifier

	// Registry of known users and group memberships. The profile store
	// proper is an external collaborator; this is the in-process snapshot
	// the engine reads.
	profiles map[string]profileRecord
	groups   map[string]map[string]struct{}

	// Configuration
	shardCount          int
	announceQueueSize   int
	announceWorkerCount int
	milestoneInterval   int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		profiles:            make(map[string]profileRecord),
		groups:              make(map[string]map[string]struct{}),
		shardCount:          8,
		announceQueueSize:   1024,
		announceWorkerCount: 2,
		milestoneInterval:   milestone.DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemStore(
			repository.WithShardCount(s.shardCount),
		)
	}
	if s.notifier == nil {
		s.notifier = &logNotifier{logger: s.logger.Named("notifier")}
	}

	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.announceQueueSize),
	)
	s.pool = worker.NewPool(s.announceWorkerCount, s.queue, s, s.notifier)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "promille service started",
		logger.Int("shards", s.shardCount),
		logger.Int("announceWorkers", s.announceWorkerCount),
		logger.Int("milestoneInterval", s.milestoneInterval),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "promille service stopped")
}

// RegisterUser adds or replaces a user's biometric record. The profile is
// validated up front so the model is never called for a broken user.
func (s *Service) RegisterUser(ctx context.Context, userID, displayName string, weightKg float64, sex model.Sex) error {
	profile := model.BiometricProfile{WeightKg: weightKg, Sex: sex}
	if _, err := alcomath.BurnRate(profile); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profileRecord{displayName: displayName, profile: profile}
	return nil
}

// JoinGroup adds a user to a group, creating the group on first join.
func (s *Service) JoinGroup(ctx context.Context, userID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, ErrUnknownUser)
	}
	members, ok := s.groups[groupID]
	if !ok {
		members = make(map[string]struct{})
		s.groups[groupID] = members
	}
	members[userID] = struct{}{}
	return nil
}

// LogDrink records a single drink of known ethanol mass at the given
// instant and returns the user's recomputed burn state. Crossing a group
// milestone enqueues an asynchronous announcement.
func (s *Service) LogDrink(ctx context.Context, userID string, grams float64, description string, now time.Time) (alcomath.State, error) {
	record, err := s.lookup(userID)
	if err != nil {
		return alcomath.State{}, err
	}

	event := model.DrinkEvent{
		EventID:      uuid.NewString(),
		EthanolGrams: grams,
		Description:  description,
		OccurredAt:   now,
	}
	if err := s.store.Append(ctx, userID, event); err != nil {
		return alcomath.State{}, fmt.Errorf("append drink: %w: %w", ErrUpstreamUnavailable, err)
	}
	metrics.RecordDrinkLogged()

	s.checkMilestones(ctx, userID, record.displayName)

	return s.stateFor(ctx, userID, record.profile, now)
}

// LogPreset records one of the fixed drink presets.
func (s *Service) LogPreset(ctx context.Context, userID, presetName string, now time.Time) (alcomath.State, error) {
	grams, ok := units.Preset(presetName)
	if !ok {
		return alcomath.State{}, fmt.Errorf("preset %q: %w", presetName, ErrUnknownPreset)
	}
	return s.LogDrink(ctx, userID, grams, "/"+presetName, now)
}

// LogCustom converts a free drink specification and records it.
func (s *Service) LogCustom(ctx context.Context, userID string, volumeLiters, fractionByVolume float64, description string, now time.Time) (alcomath.State, error) {
	grams, err := units.MassOfEthanol(volumeLiters, fractionByVolume)
	if err != nil {
		return alcomath.State{}, err
	}
	return s.LogDrink(ctx, userID, grams, description, now)
}

// Backfill plans a batch of forgotten drinks over a trailing span, inserts
// them backdated, and returns the recomputed state as confirmation.
//
// Validation is all-or-nothing; inserts are reported as failed on the
// first store error, with no rollback of already-inserted siblings (that
// guarantee belongs to the store, if anywhere).
func (s *Service) Backfill(ctx context.Context, userID string, plan model.RetroPlan, now time.Time) (alcomath.State, error) {
	record, err := s.lookup(userID)
	if err != nil {
		return alcomath.State{}, err
	}

	events, err := retro.Plan(plan, now)
	if err != nil {
		return alcomath.State{}, err
	}
	for _, e := range events {
		if err := s.store.Append(ctx, userID, e); err != nil {
			return alcomath.State{}, fmt.Errorf("append backdated drink: %w: %w", ErrUpstreamUnavailable, err)
		}
		metrics.RecordDrinkBackfilled()
	}

	s.checkMilestones(ctx, userID, record.displayName)

	return s.stateFor(ctx, userID, record.profile, now)
}

// CurrentState computes the user's burn state at the given instant.
func (s *Service) CurrentState(ctx context.Context, userID string, now time.Time) (alcomath.State, error) {
	record, err := s.lookup(userID)
	if err != nil {
		return alcomath.State{}, err
	}
	return s.stateFor(ctx, userID, record.profile, now)
}

// LifetimeUnits returns the user's all-time consumed grams and the
// equivalent count of standard drinks.
func (s *Service) LifetimeUnits(ctx context.Context, userID string) (grams, standardUnits float64, err error) {
	if _, err := s.lookup(userID); err != nil {
		return 0, 0, err
	}
	history, err := s.store.History(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch history: %w: %w", ErrUpstreamUnavailable, err)
	}
	grams = alcomath.SumGrams(history)
	return grams, units.StandardUnits(grams), nil
}

// RecentDrinks lists the user's drinks within the trailing window, oldest
// first.
func (s *Service) RecentDrinks(ctx context.Context, userID string, hours float64, now time.Time) ([]model.DrinkEvent, error) {
	if _, err := s.lookup(userID); err != nil {
		return nil, err
	}
	since := now.Add(-time.Duration(hours * float64(time.Hour)))
	events, err := s.store.HistorySince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w: %w", ErrUpstreamUnavailable, err)
	}
	return events, nil
}

// UndoLastDrink removes the user's most recent drink and returns it.
func (s *Service) UndoLastDrink(ctx context.Context, userID string) (model.DrinkEvent, error) {
	if _, err := s.lookup(userID); err != nil {
		return model.DrinkEvent{}, err
	}
	undone, err := s.store.UndoLast(ctx, userID)
	if err != nil {
		return model.DrinkEvent{}, err
	}
	metrics.RecordDrinkUndone()
	return undone, nil
}

// RankGroup builds the group leaderboard at one instant. All member
// histories are fetched under a single registry snapshot and share the
// given "now".
func (s *Service) RankGroup(ctx context.Context, groupID string, now time.Time) ([]model.RankingEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	memberIDs, ok := s.groups[groupID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("group %s: %w", groupID, ErrUnknownGroup)
	}

	members := make(map[string]ranking.Member, len(memberIDs))
	var fetchErr error
	for userID := range memberIDs {
		record, ok := s.profiles[userID]
		if !ok {
			continue
		}
		history, err := s.store.History(ctx, userID)
		if err != nil {
			fetchErr = fmt.Errorf("fetch history for %s: %w: %w", userID, ErrUpstreamUnavailable, err)
			break
		}
		members[userID] = ranking.Member{
			DisplayName: record.displayName,
			Profile:     record.profile,
			History:     history,
		}
	}
	s.mu.RUnlock()

	if fetchErr != nil {
		return nil, fetchErr
	}

	metrics.RecordRankingBuild()
	return ranking.RankGroup(members, now)
}

// RenderGroup formats the group leaderboard the way the announcement and
// group queries display it: one "name... X.XX‰ (12h/24h)" line per member.
func (s *Service) RenderGroup(ctx context.Context, groupID string, now time.Time) (string, error) {
	entries, err := s.RankGroup(ctx, groupID, now)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "Everyone is sober.", nil
	}

	var b strings.Builder
	b.WriteString("user...‰ (drinks 12h/24h)\n\n")
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s... %.2f‰ (%.1f/%.1f)", e.DisplayName, e.Permilles, e.Units12h, e.Units24h)
	}
	return b.String(), nil
}

// lookup returns the registry record for a user.
func (s *Service) lookup(userID string) (profileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.profiles[userID]
	if !ok {
		return profileRecord{}, fmt.Errorf("user %s: %w", userID, ErrUnknownUser)
	}
	return record, nil
}

// stateFor recomputes the burn state from the freshly stored history.
func (s *Service) stateFor(ctx context.Context, userID string, profile model.BiometricProfile, now time.Time) (alcomath.State, error) {
	history, err := s.store.History(ctx, userID)
	if err != nil {
		return alcomath.State{}, fmt.Errorf("fetch history: %w: %w", ErrUpstreamUnavailable, err)
	}
	return alcomath.CurrentState(profile, history, now)
}

// checkMilestones inspects every group the user belongs to and enqueues an
// announcement for each group whose lifetime count just crossed a
// milestone. Best-effort: a full queue drops the announcement.
func (s *Service) checkMilestones(ctx context.Context, userID, displayName string) {
	s.mu.RLock()
	groupMembers := make(map[string][]string)
	for groupID, members := range s.groups {
		if _, ok := members[userID]; !ok {
			continue
		}
		ids := make([]string, 0, len(members))
		for id := range members {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		groupMembers[groupID] = ids
	}
	s.mu.RUnlock()

	for groupID, ids := range groupMembers {
		count, err := s.store.CountForUsers(ctx, ids)
		if err != nil {
			s.logger.Warn(ctx, "milestone count failed",
				logger.String("groupID", groupID),
				logger.Error(err),
			)
			continue
		}
		if !milestone.IsMilestoneEvery(count, s.milestoneInterval) {
			continue
		}
		metrics.RecordMilestone()
		if !s.queue.Enqueue(ctx, queue.Announcement{
			GroupID:     groupID,
			DisplayName: displayName,
			Count:       count,
		}) {
			s.logger.Warn(ctx, "announcement dropped",
				logger.String("groupID", groupID),
				logger.Int("count", count),
			)
		}
	}
}

// logNotifier is the default transport: it only logs. The real messaging
// transport is an external collaborator injected via WithNotifier.
type logNotifier struct {
	logger logger.Logger
}

func (n *logNotifier) Notify(ctx context.Context, groupID, text string) error {
	n.logger.Info(ctx, "group announcement",
		logger.String("groupID", groupID),
		logger.String("text", text),
	)
	return nil
}
