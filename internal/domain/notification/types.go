// internal/domain/notification/types.go
package notification

// TriggerType tags the payload of a recurring trigger so previously
// installed handles can be found and cancelled by type.
type TriggerType string

const (
	TriggerDailySummary  TriggerType = "daily-summary"
	TriggerWeeklySummary TriggerType = "weekly-summary"
)

// CooldownType keys the per-type "last sent" timestamps that throttle
// immediate reminders. Absence of a record means "never sent".
type CooldownType string

const (
	CooldownBehind        CooldownType = "behind"
	CooldownOnTrack       CooldownType = "on-track"
	CooldownExceeded      CooldownType = "exceeded"
	CooldownEncouragement CooldownType = "encouragement"
	CooldownSalesStreak   CooldownType = "sales-streak"
)

// MilestoneKind identifies an achievement notification in the fixed
// message table of the dispatcher.
type MilestoneKind string

const (
	MilestoneFirstSale      MilestoneKind = "first-sale"
	MilestoneTarget50       MilestoneKind = "target-50"
	MilestoneTarget75       MilestoneKind = "target-75"
	MilestoneTargetAchieved MilestoneKind = "target-achieved"
	MilestoneSalesStreak    MilestoneKind = "sales-streak"
)

// ProgressStatus is the status label carried by a TargetProgress snapshot.
// StatusExceeded is dispatcher-side only: the monitor maps "ahead with a
// negative remainder" onto it.
type ProgressStatus string

const (
	StatusBehind   ProgressStatus = "behind"
	StatusOnTrack  ProgressStatus = "on-track"
	StatusAhead    ProgressStatus = "ahead"
	StatusExceeded ProgressStatus = "exceeded"
)

// TargetProgress is the externally computed snapshot of the user's progress
// toward their sales target. The engine consumes it, never computes it.
type TargetProgress struct {
	ProgressPercentage float64
	Status             ProgressStatus
	Remaining          float64
	DaysRemaining      int
	Current            float64
	Target             float64
}

// Payload data keys understood by the hosting application.
const (
	DataKeyType   = "type"
	DataKeyScreen = "screen"
)

// Payload is what the engine hands to the platform scheduler. Data carries
// at least the trigger/notification type and the screen to open on tap.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// Type returns the type tag embedded in the payload data, or "".
func (p Payload) Type() string {
	return p.Data[DataKeyType]
}
