// internal/infra/platform/schedule.go
package platform

import "time"

// oneShotSchedule fires once at a fixed instant. Returning the zero time
// afterwards tells cron the entry has no further activations.
type oneShotSchedule struct {
	at time.Time
}

func (o oneShotSchedule) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}

// fixedIntervalSchedule fires at first, then every fixed interval after it.
// The interval does not re-anchor to wall-clock time, matching the engine's
// documented repetition semantics.
type fixedIntervalSchedule struct {
	first time.Time
	every time.Duration
}

func (f fixedIntervalSchedule) Next(t time.Time) time.Time {
	if t.Before(f.first) {
		return f.first
	}
	steps := t.Sub(f.first)/f.every + 1
	return f.first.Add(steps * f.every)
}
