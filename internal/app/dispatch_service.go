// internal/app/dispatch_service.go
package app

import (
	"context"
	"fmt"

	"bizbook_notifier/internal/domain/notification"
	"bizbook_notifier/internal/domain/platform"

	"github.com/sirupsen/logrus"
)

// DispatchService composes one-shot notifications and hands them to the
// platform for immediate display. It is a pure function of its inputs plus a
// fixed message table; it keeps no state of its own. Failures are returned to
// the caller and never retried: retrying an "immediate" notification after
// the fact is not meaningful.
type DispatchService interface {
	DispatchTargetReminder(ctx context.Context, status notification.ProgressStatus, current, target, remaining float64, daysLeft int) error
	DispatchMilestone(ctx context.Context, kind notification.MilestoneKind) error
	DispatchEncouragement(ctx context.Context, daysSinceLastSale int) error
}

type DispatchServiceImpl struct {
	platform platform.Scheduler
	logger   *logrus.Entry
}

func NewDispatchServiceImpl(sched platform.Scheduler, logger *logrus.Entry) *DispatchServiceImpl {
	return &DispatchServiceImpl{platform: sched, logger: logger}
}

func (d *DispatchServiceImpl) DispatchTargetReminder(ctx context.Context, status notification.ProgressStatus, current, target, remaining float64, daysLeft int) error {
	var title, body string
	switch status {
	case notification.StatusBehind:
		if daysLeft <= 0 {
			// No days left means there is no meaningful daily amount to
			// report; deliberately not an error.
			return nil
		}
		requiredDaily := remaining / float64(daysLeft)
		title = "You're behind on your target"
		body = fmt.Sprintf("Sell about %.0f per day for the next %d days to catch up.", requiredDaily, daysLeft)
	case notification.StatusOnTrack:
		progress := current / target * 100
		title = "You're on track"
		body = fmt.Sprintf("Nice pace! You've reached %.0f%% of your target.", progress)
	case notification.StatusExceeded:
		title = "Target exceeded"
		body = fmt.Sprintf("You've sold %.0f against a target of %.0f. Great work!", current, target)
	default:
		d.logger.WithField("status", string(status)).Warn("Unknown target reminder status, skipping dispatch")
		return nil
	}

	return d.send(ctx, title, body, "target-reminder", "reports")
}

var milestoneMessages = map[notification.MilestoneKind]struct {
	Title string
	Body  string
}{
	notification.MilestoneFirstSale:      {"First sale recorded!", "Congratulations on your very first sale. Many more to come."},
	notification.MilestoneTarget50:       {"Halfway there", "You've reached 50% of your sales target this month."},
	notification.MilestoneTarget75:       {"Almost there", "75% of your sales target is done. Keep pushing!"},
	notification.MilestoneTargetAchieved: {"Target achieved!", "You hit your sales target for this month. Well done!"},
	notification.MilestoneSalesStreak:    {"You're on a streak", "Sales recorded several days in a row. Keep the momentum going!"},
}

func (d *DispatchServiceImpl) DispatchMilestone(ctx context.Context, kind notification.MilestoneKind) error {
	msg, ok := milestoneMessages[kind]
	if !ok {
		d.logger.WithField("kind", string(kind)).Warn("Unknown milestone kind, skipping dispatch")
		return nil
	}
	return d.send(ctx, msg.Title, msg.Body, "milestone", "dashboard")
}

// Escalating re-engagement messages; intensity grows with inactivity up to a
// cap at index 2.
var encouragementMessages = [3]struct {
	Title string
	Body  string
}{
	{"Quiet day?", "No sales recorded yesterday. Don't forget to log today's."},
	{"Your books miss you", "It's been a couple of days since your last sale entry."},
	{"Let's get back to it", "No sales recorded for a few days now. A quick entry keeps your reports accurate."},
}

func (d *DispatchServiceImpl) DispatchEncouragement(ctx context.Context, daysSinceLastSale int) error {
	idx := daysSinceLastSale - 1
	if idx < 0 {
		idx = 0
	}
	if idx > 2 {
		idx = 2
	}
	msg := encouragementMessages[idx]
	return d.send(ctx, msg.Title, msg.Body, "encouragement", "sales")
}

func (d *DispatchServiceImpl) send(ctx context.Context, title, body, typ, screen string) error {
	p := notification.Payload{
		Title: title,
		Body:  body,
		Data: map[string]string{
			notification.DataKeyType:   typ,
			notification.DataKeyScreen: screen,
		},
	}
	if _, err := d.platform.ScheduleNow(ctx, p); err != nil {
		return fmt.Errorf("failed to dispatch %s notification: %w", typ, err)
	}
	d.logger.WithField("type", typ).Debug("Immediate notification dispatched")
	return nil
}
