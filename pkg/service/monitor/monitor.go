package monitor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"github.com/watchman-lab/argus/pkg/utils/logging"
)

const (
	// DefaultInterval matches the cadence the notification consumers
	// expect: one roster pass per minute
	DefaultInterval = 60 * time.Second

	// DefaultConcurrency bounds parallel community cycles per pass
	DefaultConcurrency = 4
)

// Archiver persists committed snapshots out of band. Failures never affect
// a cycle.
type Archiver interface {
	Save(ctx context.Context, id types.CommunityID, state *model.PollState) error
}

// Monitor drives the poll cycle for every configured community.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Community counts are small; network calls dominate cycle latency
type Monitor struct {
	repo     interfaces.Repository
	roster   interfaces.RosterClient
	notifier interfaces.Notifier
	archiver Archiver

	interval    time.Duration
	concurrency int

	stopCh chan struct{}
	doneCh chan struct{}
}

// Option is a functional option for monitor configuration
type Option func(*Monitor)

// WithInterval sets the poll interval
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithConcurrency sets the number of community cycles run in parallel
func WithConcurrency(n int) Option {
	return func(m *Monitor) {
		m.concurrency = n
	}
}

// WithArchiver enables snapshot archiving after each commit
func WithArchiver(a Archiver) Option {
	return func(m *Monitor) {
		m.archiver = a
	}
}

// New creates a poll monitor
func New(repo interfaces.Repository, roster interfaces.RosterClient, notifier interfaces.Notifier, opts ...Option) *Monitor {
	m := &Monitor{
		repo:        repo,
		roster:      roster,
		notifier:    notifier,
		interval:    DefaultInterval,
		concurrency: DefaultConcurrency,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins the background poll loop. It does not block.
func (m *Monitor) Start(ctx context.Context) {
	logging.From(ctx).Info("roster monitor starting",
		"interval", m.interval.String(),
		"concurrency", m.concurrency)

	go m.run(ctx)
}

// Stop signals the loop to stop and waits for the in-flight pass to finish
func (m *Monitor) Stop() {
	logging.Default().Info("roster monitor stopping")
	close(m.stopCh)
	<-m.doneCh
	logging.Default().Info("roster monitor stopped")
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CheckAll(ctx)

		case <-m.stopCh:
			return

		case <-ctx.Done():
			logging.From(ctx).Info("roster monitor context cancelled")
			return
		}
	}
}

// CheckAll runs one poll cycle for every configured community. A failing
// community never affects the others: every error is cycle-local, logged,
// and retried on the next tick.
func (m *Monitor) CheckAll(ctx context.Context) {
	logger := logging.From(ctx)

	configs, err := m.repo.Community().List(ctx)
	if err != nil {
		logger.Error("failed to list communities, skipping pass", "error", err.Error())
		return
	}

	start := time.Now()
	var checked int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, cfg := range configs {
		if !cfg.Monitorable() {
			continue
		}
		checked++

		g.Go(func() error {
			if err := m.checkCommunity(gctx, cfg); err != nil {
				logger.Warn("community cycle failed (will retry next tick)",
					"community", cfg.ID,
					"group_id", cfg.GroupID,
					"error", err.Error())
			}
			// Errors stay cycle-local: never cancel sibling cycles
			return nil
		})
	}

	_ = g.Wait()

	logger.Debug("poll pass completed",
		"communities", len(configs),
		"checked", checked,
		"duration", time.Since(start).String())
}

// checkCommunity runs one cycle: fetch, diff, notify, commit. A fetch
// failure aborts before any mutation so the next cycle diffs against the
// same baseline.
func (m *Monitor) checkCommunity(ctx context.Context, cfg *model.CommunityConfig) error {
	logger := logging.From(ctx)

	prev, err := m.repo.PollState().Get(ctx, cfg.ID)
	if err != nil {
		return err
	}

	curr, err := m.roster.FetchRoster(ctx, cfg.GroupID)
	if err != nil {
		return err
	}

	var prevMembers model.Snapshot
	if prev != nil {
		prevMembers = prev.Members
	}

	events := model.Diff(prevMembers, curr, prev != nil)
	for i := range events {
		if events[i].Kind == model.EventLeft {
			// The user is gone from the snapshot; resolve a display name
			// (placeholder on failure) just for the message text
			events[i].Username = m.roster.FetchUsername(ctx, events[i].UserID)
		}
	}

	events = append(events, model.TrackStatus(curr, cfg.SortedTargets())...)

	// Best-effort delivery: a failed send is logged and never blocks the
	// remaining events or the commit. Losing a notification beats
	// re-deriving a stale diff forever.
	for _, ev := range events {
		if err := m.notifier.Post(ctx, cfg.ChannelID, ev.Text()); err != nil {
			logger.Warn("notification delivery failed",
				"community", cfg.ID,
				"channel_id", cfg.ChannelID,
				"kind", ev.Kind,
				"user_id", ev.UserID,
				"error", err.Error())
		}
	}

	state := &model.PollState{
		Members:  curr,
		PolledAt: time.Now().UTC(),
	}
	if err := m.repo.PollState().Put(ctx, cfg.ID, state); err != nil {
		return err
	}

	if m.archiver != nil {
		if err := m.archiver.Save(ctx, cfg.ID, state); err != nil {
			logger.Warn("snapshot archive failed",
				"community", cfg.ID,
				"error", err.Error())
		}
	}

	return nil
}
