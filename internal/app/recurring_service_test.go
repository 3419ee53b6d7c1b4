package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bizbook_notifier/internal/domain/notification"
	"bizbook_notifier/internal/domain/settings"
)

// 2025-05-07 is a Wednesday.
var fixedNow = time.Date(2025, time.May, 7, 21, 0, 0, 0, time.Local)

func newRecurringForTest(f *fakePlatform) *RecurringServiceImpl {
	s := NewRecurringServiceImpl(f, testLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestReinstall_OneTriggerPerEnabledType(t *testing.T) {
	f := newFakePlatform()
	s := newRecurringForTest(f)
	ctx := context.Background()

	// Reinstalling twice with unchanged settings must not accumulate handles.
	for i := 0; i < 2; i++ {
		if err := s.Reinstall(ctx, settings.Defaults()); err != nil {
			t.Fatalf("reinstall %d: %v", i, err)
		}
	}

	if n := len(f.handlesOfType(notification.TriggerDailySummary)); n != 1 {
		t.Fatalf("want exactly 1 daily trigger, got %d", n)
	}
	if n := len(f.handlesOfType(notification.TriggerWeeklySummary)); n != 1 {
		t.Fatalf("want exactly 1 weekly trigger, got %d", n)
	}
}

func TestReinstall_DisabledCancelsEverything(t *testing.T) {
	f := newFakePlatform()
	s := newRecurringForTest(f)
	ctx := context.Background()

	if err := s.Reinstall(ctx, settings.Defaults()); err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(f.handles) == 0 {
		t.Fatal("precondition: triggers should be installed")
	}

	st := settings.Defaults()
	st.Enabled = false
	if err := s.Reinstall(ctx, st); err != nil {
		t.Fatalf("reinstall disabled: %v", err)
	}
	if len(f.handles) != 0 {
		t.Fatalf("want no triggers after disabling, got %d", len(f.handles))
	}
}

func TestReinstall_CategoryOffCancelsOnlyThatTrigger(t *testing.T) {
	f := newFakePlatform()
	s := newRecurringForTest(f)
	ctx := context.Background()

	if err := s.Reinstall(ctx, settings.Defaults()); err != nil {
		t.Fatalf("install: %v", err)
	}

	st := settings.Defaults()
	st.DailySummary = false
	if err := s.Reinstall(ctx, st); err != nil {
		t.Fatalf("reinstall: %v", err)
	}

	if n := len(f.handlesOfType(notification.TriggerDailySummary)); n != 0 {
		t.Fatalf("daily trigger should be cancelled, got %d", n)
	}
	if n := len(f.handlesOfType(notification.TriggerWeeklySummary)); n != 1 {
		t.Fatalf("weekly trigger should survive, got %d", n)
	}
}

func TestReinstall_DailyDelayAndPeriod(t *testing.T) {
	f := newFakePlatform()
	s := newRecurringForTest(f)

	// now = Wed 21:00, daily at 20:00 → tomorrow 20:00, 23h away.
	if err := s.Reinstall(context.Background(), settings.Defaults()); err != nil {
		t.Fatalf("reinstall: %v", err)
	}

	var daily *scheduledCall
	for i := range f.installs {
		if f.installs[i].payload.Type() == string(notification.TriggerDailySummary) {
			daily = &f.installs[i]
		}
	}
	if daily == nil {
		t.Fatal("daily trigger was not installed")
	}
	if daily.delay != 23*time.Hour {
		t.Fatalf("want 23h delay, got %v", daily.delay)
	}
	if daily.every != notification.DailyRepeatPeriod {
		t.Fatalf("want %v repeat period, got %v", notification.DailyRepeatPeriod, daily.every)
	}
}

func TestReinstall_WeeklyDelay(t *testing.T) {
	f := newFakePlatform()
	s := newRecurringForTest(f)

	// now = Wed 21:00, weekly on Monday at 09:00 → Monday in 5 days minus 12h.
	if err := s.Reinstall(context.Background(), settings.Defaults()); err != nil {
		t.Fatalf("reinstall: %v", err)
	}

	var weekly *scheduledCall
	for i := range f.installs {
		if f.installs[i].payload.Type() == string(notification.TriggerWeeklySummary) {
			weekly = &f.installs[i]
		}
	}
	if weekly == nil {
		t.Fatal("weekly trigger was not installed")
	}
	want := 5*24*time.Hour - 12*time.Hour
	if weekly.delay != want {
		t.Fatalf("want %v delay, got %v", want, weekly.delay)
	}
	if weekly.every != notification.WeeklyRepeatPeriod {
		t.Fatalf("want %v repeat period, got %v", notification.WeeklyRepeatPeriod, weekly.every)
	}
}

func TestReinstall_InstallFailureSurfaces(t *testing.T) {
	f := newFakePlatform()
	f.scheduleErr = fmt.Errorf("platform rejected the trigger")
	s := newRecurringForTest(f)

	if err := s.Reinstall(context.Background(), settings.Defaults()); err == nil {
		t.Fatal("want install failure to surface, got nil")
	}
}
