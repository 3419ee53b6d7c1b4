// internal/domain/settings/settings.go
package settings

import "time"

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Settings is the single persisted notification preferences record.
// Enabled is the master switch: when false, all scheduling and dispatch is
// suppressed and installed recurring triggers are cancelled.
type Settings struct {
	Enabled          bool         `json:"enabled"`
	TargetReminders  bool         `json:"targetReminders"`
	DailySummary     bool         `json:"dailySummary"`
	WeeklySummary    bool         `json:"weeklySummary"`
	DailySummaryTime TimeOfDay    `json:"dailySummaryTime"`
	WeeklySummaryDay time.Weekday `json:"weeklySummaryDay"`
}

// Defaults returns the record created on first use: everything on, daily
// summary at 20:00, weekly summary on Monday.
func Defaults() Settings {
	return Settings{
		Enabled:          true,
		TargetReminders:  true,
		DailySummary:     true,
		WeeklySummary:    true,
		DailySummaryTime: TimeOfDay{Hour: 20, Minute: 0},
		WeeklySummaryDay: time.Monday,
	}
}
