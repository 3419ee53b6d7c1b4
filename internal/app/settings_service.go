// internal/app/settings_service.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bizbook_notifier/internal/domain/kv"
	"bizbook_notifier/internal/domain/platform"
	"bizbook_notifier/internal/domain/settings"
	idb "bizbook_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// DeliveryChannel is the single channel all engine notifications go through.
var DeliveryChannel = platform.Channel{
	ID:          "bizbook-reminders",
	Name:        "Reminders",
	Description: "Sales summaries, target reminders and milestones",
}

// SettingsService owns the persisted NotificationSettings record and the
// permission/channel bootstrap that gates all scheduling.
type SettingsService interface {
	// Load never fails outward: an absent or unparsable record yields defaults.
	Load(ctx context.Context) settings.Settings
	// Save persists the record. A store failure propagates to the caller and
	// leaves previously installed triggers untouched.
	Save(ctx context.Context, st settings.Settings) error
	// EnsurePermission requests platform permission and, when granted, makes
	// sure the delivery channel exists. False means the user declined.
	EnsurePermission(ctx context.Context) (bool, error)
}

type SettingsServiceImpl struct {
	store    kv.Store
	platform platform.Scheduler
	logger   *logrus.Entry
}

func NewSettingsServiceImpl(store kv.Store, sched platform.Scheduler, logger *logrus.Entry) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		store:    store,
		platform: sched,
		logger:   logger,
	}
}

func (s *SettingsServiceImpl) Load(ctx context.Context) settings.Settings {
	raw, err := s.store.Get(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, idb.ErrKeyNotFound) {
			s.logger.WithError(err).Warn("Failed to read settings record, falling back to defaults")
		}
		return settings.Defaults()
	}

	var st settings.Settings
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// A corrupt record is treated as absent, never as a fatal condition.
		s.logger.WithError(err).Warn("Persisted settings record is unparsable, falling back to defaults")
		return settings.Defaults()
	}
	return st
}

func (s *SettingsServiceImpl) Save(ctx context.Context, st settings.Settings) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.store.Set(ctx, settingsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

func (s *SettingsServiceImpl) EnsurePermission(ctx context.Context) (bool, error) {
	granted, err := s.platform.RequestPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to request notification permission: %w", err)
	}
	if !granted {
		s.logger.Info("Notification permission declined, scheduling will be suppressed")
		return false, nil
	}
	if err := s.platform.EnsureChannel(ctx, DeliveryChannel); err != nil {
		return false, fmt.Errorf("failed to ensure delivery channel: %w", err)
	}
	return true, nil
}
