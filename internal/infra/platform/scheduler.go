// internal/infra/platform/scheduler.go
package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bizbook_notifier/internal/domain/notification"
	domainPlatform "bizbook_notifier/internal/domain/platform"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const deliverTimeout = 30 * time.Second

// Sink surfaces a composed notification to the user. The Telegram adapter
// implements this for the notifier daemon.
type Sink interface {
	Deliver(ctx context.Context, p notification.Payload) error
}

// CronScheduler is an in-process implementation of the platform scheduler,
// backed by robfig/cron. Triggers live only as long as the process; the
// engine re-anchors them on every start via Reinstall, so nothing needs to be
// persisted here.
type CronScheduler struct {
	cronEngine *cron.Cron
	sink       Sink
	logger     *logrus.Entry

	mu      sync.Mutex
	nextID  int64
	entries map[string]entryRecord
}

type entryRecord struct {
	cronID  cron.EntryID
	payload notification.Payload
}

func NewCronScheduler(sink Sink, logger *logrus.Entry) *CronScheduler {
	return &CronScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		sink:       sink,
		logger:     logger,
		entries:    make(map[string]entryRecord),
	}
}

// Start begins firing scheduled triggers.
func (s *CronScheduler) Start() {
	s.cronEngine.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *CronScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
}

// RequestPermission always grants: in-process delivery has no OS-level
// permission gate.
func (s *CronScheduler) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// EnsureChannel is a no-op beyond logging; channels are an Android concept
// this sink does not need.
func (s *CronScheduler) EnsureChannel(ctx context.Context, ch domainPlatform.Channel) error {
	s.logger.WithField("channel", ch.ID).Debug("Delivery channel ensured")
	return nil
}

func (s *CronScheduler) ScheduleAt(ctx context.Context, delay, every time.Duration, p notification.Payload) (domainPlatform.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("trigger-%d", s.nextID)
	first := time.Now().Add(delay)

	var sched cron.Schedule
	if every > 0 {
		sched = fixedIntervalSchedule{first: first, every: every}
	} else {
		sched = oneShotSchedule{at: first}
	}

	cronID := s.cronEngine.Schedule(sched, cron.FuncJob(func() {
		s.fire(id, p, every <= 0)
	}))
	s.entries[id] = entryRecord{cronID: cronID, payload: p}

	s.logger.WithFields(logrus.Fields{
		"id":    id,
		"type":  p.Type(),
		"first": first.Format(time.RFC3339),
	}).Debug("Trigger scheduled")

	return domainPlatform.Handle{ID: id, Payload: p}, nil
}

func (s *CronScheduler) ScheduleNow(ctx context.Context, p notification.Payload) (domainPlatform.Handle, error) {
	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("immediate-%d", s.nextID)
	s.mu.Unlock()

	if err := s.sink.Deliver(ctx, p); err != nil {
		return domainPlatform.Handle{}, fmt.Errorf("failed to deliver notification: %w", err)
	}
	return domainPlatform.Handle{ID: id, Payload: p}, nil
}

func (s *CronScheduler) ListScheduled(ctx context.Context) ([]domainPlatform.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handles := make([]domainPlatform.Handle, 0, len(s.entries))
	for id, rec := range s.entries {
		handles = append(handles, domainPlatform.Handle{ID: id, Payload: rec.payload})
	}
	return handles, nil
}

// Cancel removes a trigger. Cancelling a handle the platform no longer knows
// is not an error.
func (s *CronScheduler) Cancel(ctx context.Context, h domainPlatform.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[h.ID]
	if !ok {
		return nil
	}
	s.cronEngine.Remove(rec.cronID)
	delete(s.entries, h.ID)
	return nil
}

func (s *CronScheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.entries {
		s.cronEngine.Remove(rec.cronID)
		delete(s.entries, id)
	}
	return nil
}

func (s *CronScheduler) fire(id string, p notification.Payload, oneShot bool) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	if err := s.sink.Deliver(ctx, p); err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Trigger delivery failed")
	}

	if oneShot {
		s.mu.Lock()
		if rec, ok := s.entries[id]; ok {
			s.cronEngine.Remove(rec.cronID)
			delete(s.entries, id)
		}
		s.mu.Unlock()
	}
}
