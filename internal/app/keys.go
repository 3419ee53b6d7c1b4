package app

import (
	"bizbook_notifier/internal/domain/notification"
)

// Logical keys of the engine's persisted state. All values are strings:
// the settings record is JSON, cooldown stamps are epoch milliseconds,
// latches are the literal "true".
const (
	settingsKey     = "notification_settings"
	firstSaleKey    = "first_sale_celebrated"
	latchedValue    = "true"
	cooldownPrefix  = "cooldown:"
	milestonePrefix = "milestone:"
)

func cooldownKey(typ notification.CooldownType) string {
	return cooldownPrefix + string(typ)
}

// milestoneKey scopes an achievement latch to a calendar period; a new
// period starts with no records, which resets milestone eligibility.
func milestoneKey(latch, periodKey string) string {
	return milestonePrefix + latch + ":" + periodKey
}
