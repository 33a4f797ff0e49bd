package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"levelup/dto"
	"levelup/middleware"
	"levelup/model"
	"levelup/repository"
	"levelup/utils"

	"go.uber.org/zap"
)

// DefaultRefreshInterval is the background poll period.
const DefaultRefreshInterval = 60 * time.Second

// DashboardSync owns the dashboard view and the background refresh loop.
type DashboardSync struct {
	api       ProgressionAPI
	session   SessionReader
	notifier  Notifier
	logger    *zap.Logger
	interval  time.Duration
	now       func() time.Time
	onExpired func(generation uint64)

	mu   sync.RWMutex
	view model.DashboardView

	loopMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDashboardSync(api ProgressionAPI, session SessionReader, notifier Notifier, logger *zap.Logger, interval time.Duration) *DashboardSync {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &DashboardSync{
		api:      api,
		session:  session,
		notifier: notifier,
		logger:   utils.OrNop(logger),
		interval: interval,
		now:      time.Now,
		view:     model.DefaultDashboard(),
	}
}

// OnSessionExpired sets what the loop calls when it finds the session of
// the given generation expired or rejected by the service.
func (d *DashboardSync) OnSessionExpired(fn func(generation uint64)) {
	d.onExpired = fn
}

// View returns a copy of the current dashboard.
func (d *DashboardSync) View() model.DashboardView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view.Clone()
}

func (d *DashboardSync) Level() model.LevelInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view.Level
}

func (d *DashboardSync) Stats() model.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view.Stats.Clone()
}

func (d *DashboardSync) Refresh(ctx context.Context) error {
	return d.refresh(ctx, "action")
}

func (d *DashboardSync) refresh(ctx context.Context, trigger string) error {
	sess := d.session.Session()
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}

	resp, err := d.api.Dashboard(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || stale(d.session, sess) {
			middleware.TrackRefresh(trigger, "cancelled")
			return err
		}
		middleware.TrackRefresh(trigger, "failed")
		d.logger.Warn("dashboard refresh failed", zap.String("trigger", trigger), zap.Error(err))
		d.notifier.Push("Error", UserMessage(err, "Failed to load dashboard data"), model.KindError)
		return err
	}

	view := dto.ToDashboardView(resp, d.now())

	d.mu.Lock()
	if stale(d.session, sess) {
		d.mu.Unlock()
		middleware.TrackRefresh(trigger, "stale")
		return ErrStaleSession
	}
	d.view = view
	d.mu.Unlock()

	middleware.TrackRefresh(trigger, "ok")
	d.deliver(ctx, view.PendingNotifications)
	return nil
}

// deliver shows the server's pending notifications and acknowledges them in
// one batch. A failed acknowledgment is logged and not retried.
func (d *DashboardSync) deliver(ctx context.Context, pending []model.ServerNotification) {
	if len(pending) == 0 {
		return
	}

	ids := make([]string, 0, len(pending))
	for _, n := range pending {
		d.notifier.Push(n.Title, n.Message, model.ParseKind(n.Type))
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	if err := d.api.MarkNotificationsRead(ctx, ids); err != nil {
		d.logger.Warn("failed to acknowledge server notifications",
			zap.Strings("ids", ids),
			zap.Error(err),
		)
	}
}

// ApplyAllocation stores the stats and point counter returned by a point
// allocation.
func (d *DashboardSync) ApplyAllocation(stats map[string]float64, availablePoints int) {
	next := model.DefaultStats()
	for name, value := range stats {
		next[name] = value
	}

	d.mu.Lock()
	d.view.Stats = next
	d.view.Level.AvailablePoints = availablePoints
	d.mu.Unlock()
}

// Reset restores the logged-out view.
func (d *DashboardSync) Reset() {
	d.mu.Lock()
	d.view = model.DefaultDashboard()
	d.mu.Unlock()
}

// Start launches the background loop for the current session. It is a
// no-op when logged out or already running.
func (d *DashboardSync) Start() {
	d.loopMu.Lock()
	defer d.loopMu.Unlock()

	if d.cancel != nil {
		select {
		case <-d.done:
			// exited on its own after an expiry
			d.cancel()
			d.cancel, d.done = nil, nil
		default:
			return
		}
	}
	sess := d.session.Session()
	if !sess.Authenticated {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	go d.run(ctx, sess.Generation, done)

	d.logger.Debug("refresh loop started", zap.Duration("interval", d.interval))
}

// Stop cancels the loop and any refresh it has in flight, and waits for the
// loop goroutine to exit.
func (d *DashboardSync) Stop() {
	d.loopMu.Lock()
	defer d.loopMu.Unlock()

	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil

	d.logger.Debug("refresh loop stopped")
}

// Running reports whether the background loop is active.
func (d *DashboardSync) Running() bool {
	d.loopMu.Lock()
	defer d.loopMu.Unlock()

	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

func (d *DashboardSync) run(ctx context.Context, generation uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sess := d.session.Session()
		if !sess.Authenticated || sess.Generation != generation {
			return
		}
		if !sess.Valid(d.now()) {
			d.expire(generation)
			return
		}

		if err := d.refresh(ctx, "loop"); repository.IsUnauthorized(err) {
			d.expire(generation)
			return
		}
	}
}

// expire hands off to the session owner. Teardown stops this loop, so it
// cannot run on the loop goroutine.
func (d *DashboardSync) expire(generation uint64) {
	if d.onExpired != nil {
		go d.onExpired(generation)
	}
}

// Init loads the dashboard for a new session and starts the loop.
func (d *DashboardSync) Init(ctx context.Context) error {
	d.Start()
	return d.refresh(ctx, "initial")
}

func (d *DashboardSync) Teardown() {
	d.Stop()
	d.Reset()
}
