// internal/domain/notification/schedule.go
package notification

import (
	"fmt"
	"time"
)

// WeeklySummaryHour is the fixed local fire hour of the weekly summary.
const WeeklySummaryHour = 9

// Repeat periods for the recurring triggers. Fixed-interval repetition is a
// coarse approximation of "same wall-clock time every day/week": DST shifts
// drift the apparent local fire time until the next Reinstall re-anchors it.
const (
	DailyRepeatPeriod  = 24 * time.Hour
	WeeklyRepeatPeriod = 7 * 24 * time.Hour
)

// NextDailyDelay returns the delay from now until the next occurrence of the
// configured wall-clock time, floored to whole seconds. A candidate at or
// before now rolls over to the next calendar day.
func NextDailyDelay(now time.Time, hour, minute int) time.Duration {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate.Sub(now).Truncate(time.Second)
}

// NextWeeklyDelay returns the delay from now until the next occurrence of
// WeeklySummaryHour on the target weekday, floored to whole seconds. A target
// earlier in the week, or today once the fire hour has passed, wraps to next
// week.
func NextWeeklyDelay(now time.Time, target time.Weekday) time.Duration {
	daysUntil := int(target) - int(now.Weekday())
	if daysUntil < 0 || (daysUntil == 0 && now.Hour() >= WeeklySummaryHour) {
		daysUntil += 7
	}
	candidate := time.Date(now.Year(), now.Month(), now.Day(), WeeklySummaryHour, 0, 0, 0, now.Location())
	candidate = candidate.AddDate(0, 0, daysUntil)
	return candidate.Sub(now).Truncate(time.Second)
}

// PeriodKey buckets an instant into its calendar month. Milestone latches are
// scoped by this key, so a new month resets milestone eligibility.
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
