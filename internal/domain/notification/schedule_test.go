package notification

import (
	"testing"
	"time"
)

// helper: build a local time on a known date (2025-05-07 is a Wednesday)
func at(t *testing.T, day, hh, mm, ss int) time.Time {
	t.Helper()
	return time.Date(2025, time.May, day, hh, mm, ss, 0, time.Local)
}

func TestNextDailyDelay_TargetAlreadyPassedToday(t *testing.T) {
	// 21:00:00 with a 20:00 target → tomorrow 20:00, i.e. 23h exactly.
	now := at(t, 7, 21, 0, 0)
	got := NextDailyDelay(now, 20, 0)
	want := 23 * time.Hour
	if got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextDailyDelay_TargetLaterToday(t *testing.T) {
	now := at(t, 7, 8, 15, 30)
	got := NextDailyDelay(now, 20, 0)
	want := 11*time.Hour + 44*time.Minute + 30*time.Second
	if got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextDailyDelay_ExactlyAtTargetRollsOver(t *testing.T) {
	// candidate == now counts as passed; delay is a full day.
	now := at(t, 7, 20, 0, 0)
	got := NextDailyDelay(now, 20, 0)
	if got != 24*time.Hour {
		t.Fatalf("want 24h, got %v", got)
	}
}

func TestNextDailyDelay_FloorsToWholeSeconds(t *testing.T) {
	now := time.Date(2025, time.May, 7, 19, 59, 59, 400_000_000, time.Local)
	got := NextDailyDelay(now, 20, 0)
	if got != 0 {
		t.Fatalf("sub-second remainder must floor to 0s, got %v", got)
	}
}

func TestNextWeeklyDelay_Wraparound(t *testing.T) {
	// Wednesday 10:00 targeting Monday → 5 days minus the hour past 09:00.
	now := at(t, 7, 10, 0, 0)
	got := NextWeeklyDelay(now, time.Monday)
	want := 5*24*time.Hour - time.Hour
	if got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextWeeklyDelay_SameDayBeforeFireHour(t *testing.T) {
	// Wednesday 07:30 targeting Wednesday → fires today at 09:00.
	now := at(t, 7, 7, 30, 0)
	got := NextWeeklyDelay(now, time.Wednesday)
	want := 90 * time.Minute
	if got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextWeeklyDelay_SameDayAfterFireHourWraps(t *testing.T) {
	// Wednesday 09:00 targeting Wednesday → next week.
	now := at(t, 7, 9, 0, 0)
	got := NextWeeklyDelay(now, time.Wednesday)
	want := 7 * 24 * time.Hour
	if got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestPeriodKey(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, time.May, 31, 23, 59, 0, 0, time.Local), "2025-05"},
		{time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local), "2025-06"},
		{time.Date(2025, time.December, 15, 12, 0, 0, 0, time.Local), "2025-12"},
	}
	for _, c := range cases {
		if got := PeriodKey(c.in); got != c.want {
			t.Fatalf("PeriodKey(%v): want %s, got %s", c.in, c.want, got)
		}
	}
}
