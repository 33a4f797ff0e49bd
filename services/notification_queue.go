package services

import (
	"context"
	"sync"
	"time"

	"levelup/middleware"
	"levelup/model"

	"go.uber.org/zap"
)

// DefaultNotificationTTL is how long a notification stays up unless the
// user dismisses it first.
const DefaultNotificationTTL = 5 * time.Second

type queueEntry struct {
	notification model.Notification
	timer        *time.Timer
}

// NotificationQueue holds the transient notifications in display order.
// Every entry owns exactly one expiry timer; removal by timer and removal
// by dismissal go through the same idempotent path.
type NotificationQueue struct {
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	nextID  int64
	entries []*queueEntry
}

type QueueOption func(*NotificationQueue)

func WithClock(now func() time.Time) QueueOption {
	return func(q *NotificationQueue) { q.now = now }
}

func WithQueueLogger(logger *zap.Logger) QueueOption {
	return func(q *NotificationQueue) { q.logger = logger }
}

func NewNotificationQueue(ttl time.Duration, opts ...QueueOption) *NotificationQueue {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	q := &NotificationQueue{
		ttl:    ttl,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a notification and schedules its removal. It returns the
// notification's identifier.
func (q *NotificationQueue) Push(title, message string, kind model.NotificationKind) int64 {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	now := q.now()
	entry := &queueEntry{
		notification: model.Notification{
			ID:        id,
			Title:     title,
			Message:   message,
			Kind:      kind,
			CreatedAt: now,
			ExpiresAt: now.Add(q.ttl),
		},
	}
	q.entries = append(q.entries, entry)
	// Assigned under the lock so the callback cannot observe a nil timer.
	entry.timer = time.AfterFunc(q.ttl, func() { q.expire(id) })
	count := len(q.entries)
	q.mu.Unlock()

	middleware.TrackNotificationPushed(string(kind))
	middleware.SetActiveNotifications(count)
	q.logger.Debug("notification pushed",
		zap.Int64("id", id),
		zap.String("kind", string(kind)),
		zap.String("title", title),
	)
	return id
}

// Remove dismisses a notification. It reports false when the notification
// is already gone.
func (q *NotificationQueue) Remove(id int64) bool {
	q.mu.Lock()
	removed := q.removeLocked(id)
	count := len(q.entries)
	q.mu.Unlock()

	if removed {
		middleware.SetActiveNotifications(count)
	}
	return removed
}

func (q *NotificationQueue) expire(id int64) {
	if q.Remove(id) {
		q.logger.Debug("notification expired", zap.Int64("id", id))
	}
}

func (q *NotificationQueue) removeLocked(id int64) bool {
	for i, e := range q.entries {
		if e.notification.ID != id {
			continue
		}
		e.timer.Stop()
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		return true
	}
	return false
}

// List returns the notifications in display order.
func (q *NotificationQueue) List() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.notification
	}
	return out
}

func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Clear stops every pending expiry timer and empties the queue.
func (q *NotificationQueue) Clear() {
	q.mu.Lock()
	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
	q.mu.Unlock()

	middleware.SetActiveNotifications(0)
}

func (q *NotificationQueue) Init(context.Context) error { return nil }

// Teardown drops the previous user's notifications when the session ends.
func (q *NotificationQueue) Teardown() { q.Clear() }
