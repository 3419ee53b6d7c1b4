package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"bizbook_notifier/internal/domain/notification"
	"bizbook_notifier/internal/domain/platform"
	idb "bizbook_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("component", "test")
}

// fakeStore is an in-memory kv.Store with switchable failure modes.
type fakeStore struct {
	data   map[string]string
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", idb.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

type scheduledCall struct {
	delay   time.Duration
	every   time.Duration
	payload notification.Payload
}

// fakePlatform records scheduler interactions. ScheduleNow payloads land in
// sent, repeated triggers in handles/installs.
type fakePlatform struct {
	granted     bool
	permErr     error
	scheduleErr error
	nextID      int
	handles     []platform.Handle
	installs    []scheduledCall
	sent        []notification.Payload
	channels    []platform.Channel
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{granted: true}
}

func (f *fakePlatform) RequestPermission(ctx context.Context) (bool, error) {
	return f.granted, f.permErr
}

func (f *fakePlatform) EnsureChannel(ctx context.Context, ch platform.Channel) error {
	f.channels = append(f.channels, ch)
	return nil
}

func (f *fakePlatform) ScheduleAt(ctx context.Context, delay, every time.Duration, p notification.Payload) (platform.Handle, error) {
	if f.scheduleErr != nil {
		return platform.Handle{}, f.scheduleErr
	}
	f.nextID++
	h := platform.Handle{ID: fmt.Sprintf("h-%d", f.nextID), Payload: p}
	f.handles = append(f.handles, h)
	f.installs = append(f.installs, scheduledCall{delay: delay, every: every, payload: p})
	return h, nil
}

func (f *fakePlatform) ScheduleNow(ctx context.Context, p notification.Payload) (platform.Handle, error) {
	if f.scheduleErr != nil {
		return platform.Handle{}, f.scheduleErr
	}
	f.nextID++
	f.sent = append(f.sent, p)
	return platform.Handle{ID: fmt.Sprintf("now-%d", f.nextID), Payload: p}, nil
}

func (f *fakePlatform) ListScheduled(ctx context.Context) ([]platform.Handle, error) {
	out := make([]platform.Handle, len(f.handles))
	copy(out, f.handles)
	return out, nil
}

func (f *fakePlatform) Cancel(ctx context.Context, h platform.Handle) error {
	for i, existing := range f.handles {
		if existing.ID == h.ID {
			f.handles = append(f.handles[:i], f.handles[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePlatform) CancelAll(ctx context.Context) error {
	f.handles = nil
	return nil
}

func (f *fakePlatform) handlesOfType(typ notification.TriggerType) []platform.Handle {
	var out []platform.Handle
	for _, h := range f.handles {
		if h.Payload.Type() == string(typ) {
			out = append(out, h)
		}
	}
	return out
}
