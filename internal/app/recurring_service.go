// internal/app/recurring_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"bizbook_notifier/internal/domain/notification"
	"bizbook_notifier/internal/domain/platform"
	"bizbook_notifier/internal/domain/settings"

	"github.com/sirupsen/logrus"
)

// RecurringService maintains at most one live periodic trigger per type,
// consistent with the current settings.
type RecurringService interface {
	// Reinstall re-derives the recurring triggers from the given settings.
	// Calling it repeatedly with unchanged settings is idempotent; it is also
	// the recovery path after any platform scheduling failure.
	Reinstall(ctx context.Context, st settings.Settings) error
}

type RecurringServiceImpl struct {
	platform platform.Scheduler
	logger   *logrus.Entry
	now      func() time.Time
}

func NewRecurringServiceImpl(sched platform.Scheduler, logger *logrus.Entry) *RecurringServiceImpl {
	return &RecurringServiceImpl{
		platform: sched,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RecurringServiceImpl) Reinstall(ctx context.Context, st settings.Settings) error {
	if !st.Enabled {
		s.logger.Info("Notifications disabled, cancelling all platform triggers")
		if err := s.platform.CancelAll(ctx); err != nil {
			return fmt.Errorf("failed to cancel triggers: %w", err)
		}
		return nil
	}

	if st.DailySummary {
		delay := notification.NextDailyDelay(s.now(), st.DailySummaryTime.Hour, st.DailySummaryTime.Minute)
		if err := s.replaceTrigger(ctx, notification.TriggerDailySummary, delay, notification.DailyRepeatPeriod, dailySummaryPayload()); err != nil {
			return err
		}
	} else if err := s.cancelByType(ctx, notification.TriggerDailySummary); err != nil {
		return err
	}

	if st.WeeklySummary {
		delay := notification.NextWeeklyDelay(s.now(), st.WeeklySummaryDay)
		if err := s.replaceTrigger(ctx, notification.TriggerWeeklySummary, delay, notification.WeeklyRepeatPeriod, weeklySummaryPayload()); err != nil {
			return err
		}
	} else if err := s.cancelByType(ctx, notification.TriggerWeeklySummary); err != nil {
		return err
	}

	return nil
}

// replaceTrigger is the enumerate → cancel → install sequence. It is not
// atomic with respect to concurrent Reinstall calls; the domain tolerates an
// occasional duplicate, so no cross-call locking is attempted here.
func (s *RecurringServiceImpl) replaceTrigger(ctx context.Context, typ notification.TriggerType, delay, every time.Duration, p notification.Payload) error {
	if err := s.cancelByType(ctx, typ); err != nil {
		return err
	}
	if _, err := s.platform.ScheduleAt(ctx, delay, every, p); err != nil {
		return fmt.Errorf("failed to install %s trigger: %w", typ, err)
	}
	s.logger.WithFields(logrus.Fields{
		"trigger": string(typ),
		"delay":   delay.String(),
	}).Info("Recurring trigger installed")
	return nil
}

func (s *RecurringServiceImpl) cancelByType(ctx context.Context, typ notification.TriggerType) error {
	handles, err := s.platform.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate scheduled triggers: %w", err)
	}
	for _, h := range handles {
		if h.Payload.Type() != string(typ) {
			continue
		}
		if err := s.platform.Cancel(ctx, h); err != nil {
			// Best effort; a stale handle the platform already dropped is fine.
			s.logger.WithError(err).WithField("trigger", string(typ)).Warn("Failed to cancel stale trigger")
		}
	}
	return nil
}

func dailySummaryPayload() notification.Payload {
	return notification.Payload{
		Title: "Daily summary",
		Body:  "Today's sales and expenses are ready to review.",
		Data: map[string]string{
			notification.DataKeyType:   string(notification.TriggerDailySummary),
			notification.DataKeyScreen: "reports",
		},
	}
}

func weeklySummaryPayload() notification.Payload {
	return notification.Payload{
		Title: "Weekly summary",
		Body:  "See how your business did this week.",
		Data: map[string]string{
			notification.DataKeyType:   string(notification.TriggerWeeklySummary),
			notification.DataKeyScreen: "reports",
		},
	}
}
