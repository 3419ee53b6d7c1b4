// internal/domain/platform/scheduler.go
package platform

import (
	"context"
	"time"

	"bizbook_notifier/internal/domain/notification"
)

// Channel describes a delivery channel that must exist before notifications
// can be surfaced on Android-like platforms.
type Channel struct {
	ID          string
	Name        string
	Description string
}

// Handle references a scheduled trigger owned by the platform. The engine
// never inspects handles beyond the type tag in their payload.
type Handle struct {
	ID      string
	Payload notification.Payload
}

// Scheduler abstracts the platform notification scheduler. This keeps the
// engine decoupled from the concrete delivery mechanism and makes the
// multi-step cancel/install and check/dispatch sequences testable with fakes.
//
// ScheduleAt fires once after delay; a non-zero every then repeats the trigger
// on that fixed interval. Repetition is fixed-interval, not wall-clock
// re-anchored.
type Scheduler interface {
	RequestPermission(ctx context.Context) (bool, error)
	EnsureChannel(ctx context.Context, ch Channel) error
	ScheduleAt(ctx context.Context, delay, every time.Duration, p notification.Payload) (Handle, error)
	ScheduleNow(ctx context.Context, p notification.Payload) (Handle, error)
	ListScheduled(ctx context.Context) ([]Handle, error)
	Cancel(ctx context.Context, h Handle) error
	CancelAll(ctx context.Context) error
}
