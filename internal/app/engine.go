// internal/app/engine.go
package app

import (
	"context"

	"bizbook_notifier/internal/domain/notification"
	"bizbook_notifier/internal/domain/settings"

	"github.com/sirupsen/logrus"
)

// Engine is the surface the hosting application talks to. It owns no state of
// its own; it sequences the settings store, the recurring scheduler and the
// progress monitor.
type Engine struct {
	settings  SettingsService
	recurring RecurringService
	progress  ProgressService
	logger    *logrus.Entry
}

func NewEngine(st SettingsService, rec RecurringService, prog ProgressService, logger *logrus.Entry) *Engine {
	return &Engine{
		settings:  st,
		recurring: rec,
		progress:  prog,
		logger:    logger,
	}
}

func (e *Engine) LoadSettings(ctx context.Context) settings.Settings {
	return e.settings.Load(ctx)
}

// SaveSettings persists the record and then re-derives the recurring
// triggers from it. A failed write returns before any trigger is touched.
func (e *Engine) SaveSettings(ctx context.Context, st settings.Settings) error {
	if err := e.settings.Save(ctx, st); err != nil {
		return err
	}
	return e.recurring.Reinstall(ctx, st)
}

// RequestEnable asks the platform for notification permission.
func (e *Engine) RequestEnable(ctx context.Context) (bool, error) {
	return e.settings.EnsurePermission(ctx)
}

// OnAppStart is the startup convenience path: ensure permission, load
// settings, reinstall recurring triggers. A declined or failed permission
// forces disabled semantics for scheduling without touching the stored
// record, so a later grant picks the user's preferences back up.
func (e *Engine) OnAppStart(ctx context.Context) error {
	granted, err := e.settings.EnsurePermission(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("Permission bootstrap failed, degrading to no notifications")
		granted = false
	}

	st := e.settings.Load(ctx)
	if !granted {
		st.Enabled = false
	}
	return e.recurring.Reinstall(ctx, st)
}

func (e *Engine) CheckTargetProgress(ctx context.Context, p notification.TargetProgress, st settings.Settings) error {
	return e.progress.CheckTargetProgress(ctx, p, st)
}

func (e *Engine) CheckSalesActivity(ctx context.Context, daysSinceLastSale int, st settings.Settings) error {
	return e.progress.CheckSalesActivity(ctx, daysSinceLastSale, st)
}

func (e *Engine) NotifyFirstSale(ctx context.Context) error {
	return e.progress.NotifyFirstSale(ctx, e.settings.Load(ctx))
}

func (e *Engine) NotifySalesStreak(ctx context.Context, streakDays int) error {
	return e.progress.NotifySalesStreak(ctx, streakDays, e.settings.Load(ctx))
}
