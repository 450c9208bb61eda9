package reminders

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/todolist/internal/model"
)

type scheduledCall struct {
	key     string
	payload map[string]string
	delay   time.Duration
}

type fakeRunner struct {
	scheduled []scheduledCall
	pending   map[string]bool
	cancelled []string
	err       error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{pending: map[string]bool{}}
}

func (f *fakeRunner) ScheduleAfter(key string, payload map[string]string, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, scheduledCall{key: key, payload: payload, delay: delay})
	f.pending[key] = true
	return nil
}

func (f *fakeRunner) Cancel(key string) bool {
	f.cancelled = append(f.cancelled, key)
	if !f.pending[key] {
		return false
	}
	delete(f.pending, key)
	return true
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestScheduleOneHourAhead(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	runner := newFakeRunner()
	s := NewScheduler(runner, WithClock(fixedClock(now)))

	due := now.Add(time.Hour)
	key, err := s.Schedule("Buy milk", &due)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if key == "" {
		t.Fatal("expected a job key")
	}
	if len(runner.scheduled) != 1 {
		t.Fatalf("expected one scheduled job, got %d", len(runner.scheduled))
	}
	call := runner.scheduled[0]
	if call.key != key {
		t.Fatalf("runner key %q != returned key %q", call.key, key)
	}
	if call.delay.Milliseconds() != 3_600_000 {
		t.Fatalf("expected 3600000ms delay, got %d", call.delay.Milliseconds())
	}
	if call.payload[model.PayloadTaskID] != key || call.payload[model.PayloadTaskTitle] != "Buy milk" {
		t.Fatalf("unexpected payload: %#v", call.payload)
	}
}

func TestScheduleGeneratesFreshKeys(t *testing.T) {
	now := time.Now()
	s := NewScheduler(newFakeRunner(), WithClock(fixedClock(now)))
	due := now.Add(time.Minute)
	a, _ := s.Schedule("a", &due)
	b, _ := s.Schedule("b", &due)
	if a == "" || a == b {
		t.Fatalf("expected distinct keys, got %q and %q", a, b)
	}
}

func TestScheduleSkipsPastAndAbsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	runner := newFakeRunner()
	s := NewScheduler(runner, WithClock(fixedClock(now)))

	past := now.Add(-time.Minute)
	cases := map[string]*time.Time{"nil": nil, "past": &past, "now": &now}
	for name, due := range cases {
		key, err := s.Schedule("x", due)
		if err != nil || key != "" {
			t.Fatalf("%s: expected no key and no error, got %q %v", name, key, err)
		}
	}
	if len(runner.scheduled) != 0 {
		t.Fatalf("expected nothing scheduled, got %d", len(runner.scheduled))
	}
}

func TestScheduleRunnerError(t *testing.T) {
	now := time.Now()
	runner := newFakeRunner()
	runner.err = errors.New("stopped")
	s := NewScheduler(runner, WithClock(fixedClock(now)))
	due := now.Add(time.Hour)
	key, err := s.Schedule("x", &due)
	if err == nil || key != "" {
		t.Fatalf("expected error and no key, got %q %v", key, err)
	}
}

func TestCancelUnknownAndEmptyKeys(t *testing.T) {
	runner := newFakeRunner()
	s := NewScheduler(runner)
	s.Cancel("")
	s.Cancel("never-scheduled")
	if len(runner.cancelled) != 1 || runner.cancelled[0] != "never-scheduled" {
		t.Fatalf("unexpected cancel calls: %#v", runner.cancelled)
	}
}

func TestRestoreReschedulesOpenReminders(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	runner := newFakeRunner()
	s := NewScheduler(runner, WithClock(fixedClock(now)))

	future := now.Add(30 * time.Minute)
	overdue := now.Add(-time.Hour)
	restored := s.Restore([]model.Task{
		{ID: 1, Title: "future", DueDate: &future, NotificationID: "k-future"},
		{ID: 2, Title: "overdue", DueDate: &overdue, NotificationID: "k-overdue"},
		{ID: 3, Title: "done", IsCompleted: true, DueDate: &future, NotificationID: "k-done"},
		{ID: 4, Title: "no reminder", DueDate: &future},
	})
	if restored != 2 {
		t.Fatalf("expected 2 restored, got %d", restored)
	}
	got := map[string]time.Duration{}
	for _, c := range runner.scheduled {
		got[c.key] = c.delay
	}
	if got["k-future"] != 30*time.Minute {
		t.Fatalf("unexpected future delay: %s", got["k-future"])
	}
	if d, ok := got["k-overdue"]; !ok || d != 0 {
		t.Fatalf("expected overdue to fire immediately, got %s ok=%v", d, ok)
	}
}
