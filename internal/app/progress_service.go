// internal/app/progress_service.go
package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bizbook_notifier/internal/domain/kv"
	"bizbook_notifier/internal/domain/notification"
	"bizbook_notifier/internal/domain/settings"
	idb "bizbook_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Cooldown windows per notification type.
const (
	behindCooldown        = 24 * time.Hour
	exceededCooldown      = 24 * time.Hour
	onTrackCooldown       = 168 * time.Hour
	encouragementCooldown = 48 * time.Hour
	salesStreakCooldown   = 168 * time.Hour
)

// minInactiveDays is the inactivity threshold for re-engagement nudges;
// minStreakDays the minimum run length worth celebrating.
const (
	minInactiveDays = 3
	minStreakDays   = 3
)

// ProgressService is the stateful gate between freshly computed business
// progress and the dispatcher. It consults per-type cooldown stamps and
// per-period milestone latches in the persistent store to decide which
// immediate notifications may fire right now.
//
// Each cooldown type is a lazy two-state machine: a successful dispatch
// stamps the type, and eligibility returns purely as a function of elapsed
// wall-clock time on the next check. Each (milestone, period) is a one-way
// latch reset only by period rollover.
type ProgressService interface {
	CheckTargetProgress(ctx context.Context, p notification.TargetProgress, st settings.Settings) error
	CheckSalesActivity(ctx context.Context, daysSinceLastSale int, st settings.Settings) error
	NotifyFirstSale(ctx context.Context, st settings.Settings) error
	NotifySalesStreak(ctx context.Context, streakDays int, st settings.Settings) error
}

type ProgressServiceImpl struct {
	store    kv.Store
	dispatch DispatchService
	logger   *logrus.Entry
	now      func() time.Time
}

func NewProgressServiceImpl(store kv.Store, dispatch DispatchService, logger *logrus.Entry) *ProgressServiceImpl {
	return &ProgressServiceImpl{
		store:    store,
		dispatch: dispatch,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ProgressServiceImpl) CheckTargetProgress(ctx context.Context, p notification.TargetProgress, st settings.Settings) error {
	if !st.Enabled || !st.TargetReminders {
		return nil
	}

	var firstErr error
	record := func(err error) {
		if err != nil {
			s.logger.WithError(err).Error("Target progress dispatch failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	// Milestone ladder: each threshold fires at most once per calendar
	// month, independently of the cooldown reminders below.
	periodKey := notification.PeriodKey(s.now())
	switch {
	case p.ProgressPercentage >= 100:
		record(s.fireMilestoneOnce(ctx, "achieved", periodKey, notification.MilestoneTargetAchieved))
	case p.ProgressPercentage >= 75:
		record(s.fireMilestoneOnce(ctx, "75", periodKey, notification.MilestoneTarget75))
	case p.ProgressPercentage >= 50:
		record(s.fireMilestoneOnce(ctx, "50", periodKey, notification.MilestoneTarget50))
	}

	// Cooldown-gated status reminders.
	switch {
	case p.Status == notification.StatusAhead && p.Remaining < 0:
		record(s.remindWithCooldown(ctx, notification.CooldownExceeded, exceededCooldown, func(ctx context.Context) error {
			return s.dispatch.DispatchTargetReminder(ctx, notification.StatusExceeded, p.Current, p.Target, p.Remaining, p.DaysRemaining)
		}))
	case p.Status == notification.StatusBehind && p.DaysRemaining > 0:
		record(s.remindWithCooldown(ctx, notification.CooldownBehind, behindCooldown, func(ctx context.Context) error {
			return s.dispatch.DispatchTargetReminder(ctx, notification.StatusBehind, p.Current, p.Target, p.Remaining, p.DaysRemaining)
		}))
	case p.Status == notification.StatusOnTrack && p.ProgressPercentage > 20:
		record(s.remindWithCooldown(ctx, notification.CooldownOnTrack, onTrackCooldown, func(ctx context.Context) error {
			return s.dispatch.DispatchTargetReminder(ctx, notification.StatusOnTrack, p.Current, p.Target, p.Remaining, p.DaysRemaining)
		}))
	}

	return firstErr
}

func (s *ProgressServiceImpl) CheckSalesActivity(ctx context.Context, daysSinceLastSale int, st settings.Settings) error {
	// Re-engagement is gated by the master switch only, not by the
	// target-reminders category.
	if !st.Enabled || daysSinceLastSale < minInactiveDays {
		return nil
	}
	return s.remindWithCooldown(ctx, notification.CooldownEncouragement, encouragementCooldown, func(ctx context.Context) error {
		return s.dispatch.DispatchEncouragement(ctx, daysSinceLastSale)
	})
}

func (s *ProgressServiceImpl) NotifyFirstSale(ctx context.Context, st settings.Settings) error {
	if !st.Enabled {
		return nil
	}
	// Lifetime latch: celebrated once, ever.
	if s.latched(ctx, firstSaleKey) {
		return nil
	}
	if err := s.dispatch.DispatchMilestone(ctx, notification.MilestoneFirstSale); err != nil {
		return err
	}
	s.setLatch(ctx, firstSaleKey)
	return nil
}

func (s *ProgressServiceImpl) NotifySalesStreak(ctx context.Context, streakDays int, st settings.Settings) error {
	if !st.Enabled || streakDays < minStreakDays {
		return nil
	}
	return s.remindWithCooldown(ctx, notification.CooldownSalesStreak, salesStreakCooldown, func(ctx context.Context) error {
		return s.dispatch.DispatchMilestone(ctx, notification.MilestoneSalesStreak)
	})
}

// fireMilestoneOnce dispatches the milestone unless its latch is already set
// for the period. The latch is written only after a successful dispatch.
func (s *ProgressServiceImpl) fireMilestoneOnce(ctx context.Context, latch, periodKey string, kind notification.MilestoneKind) error {
	key := milestoneKey(latch, periodKey)
	if s.latched(ctx, key) {
		return nil
	}
	if err := s.dispatch.DispatchMilestone(ctx, kind); err != nil {
		return err
	}
	s.setLatch(ctx, key)
	return nil
}

// remindWithCooldown runs the check → dispatch → stamp sequence for one
// cooldown type. The stamp is written after a successful dispatch; a stamp
// that fails to persist only risks a duplicate, so it is logged and swallowed.
func (s *ProgressServiceImpl) remindWithCooldown(ctx context.Context, typ notification.CooldownType, window time.Duration, send func(context.Context) error) error {
	now := s.now()
	key := cooldownKey(typ)

	raw, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			if now.Sub(time.UnixMilli(ms)) < window {
				return nil
			}
		} else {
			s.logger.WithField("type", string(typ)).Warn("Unparsable cooldown stamp, treating as never sent")
		}
	case errors.Is(err, idb.ErrKeyNotFound):
		// Never sent; may send immediately.
	default:
		// A read failure degrades to "absent": worst case a duplicate.
		s.logger.WithError(err).WithField("type", string(typ)).Warn("Failed to read cooldown stamp")
	}

	if err := send(ctx); err != nil {
		return err
	}

	if err := s.store.Set(ctx, key, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		s.logger.WithError(err).WithField("type", string(typ)).Warn("Failed to persist cooldown stamp")
	}
	return nil
}

func (s *ProgressServiceImpl) latched(ctx context.Context, key string) bool {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, idb.ErrKeyNotFound) {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to read latch, treating as unset")
		}
		return false
	}
	return raw == latchedValue
}

func (s *ProgressServiceImpl) setLatch(ctx context.Context, key string) {
	if err := s.store.Set(ctx, key, latchedValue); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to persist latch")
	}
}
