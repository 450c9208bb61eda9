package scheduler

import (
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Job{Key: "later", RunAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Job{Key: "sooner", RunAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitJob(t, engine.C(), time.Second)
	second := waitJob(t, engine.C(), time.Second)
	if first.Key != "sooner" || second.Key != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.Key, second.Key)
	}
	if engine.Len() != 0 {
		t.Fatalf("expected empty queue after firing, got %d", engine.Len())
	}
}

func TestEngineCarriesPayload(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	payload := map[string]string{"taskId": "k1", "taskTitle": "Buy milk"}
	if err := engine.Schedule(Job{Key: "k1", Payload: payload, RunAt: time.Now().Add(10 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	job := waitJob(t, engine.C(), time.Second)
	if job.Payload["taskTitle"] != "Buy milk" {
		t.Fatalf("unexpected payload: %#v", job.Payload)
	}
}

func TestEngineScheduleSameKeyReplaces(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Job{Key: "dup", Payload: map[string]string{"v": "1"}, RunAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule first: %v", err)
	}
	if err := engine.Schedule(Job{Key: "dup", Payload: map[string]string{"v": "2"}, RunAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule replacement: %v", err)
	}
	if engine.Len() != 1 {
		t.Fatalf("expected a single pending job, got %d", engine.Len())
	}

	job := waitJob(t, engine.C(), time.Second)
	if job.Payload["v"] != "2" {
		t.Fatalf("expected replacement payload, got %#v", job.Payload)
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("unexpected second firing: %#v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineCancelPreventsFiring(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Job{Key: "cancel-me", RunAt: now.Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Job{Key: "keep", RunAt: now.Add(60 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !engine.Cancel("cancel-me") {
		t.Fatal("expected cancel of pending job to report true")
	}
	if _, ok := engine.Pending("cancel-me"); ok {
		t.Fatal("expected cancelled job to be gone")
	}

	job := waitJob(t, engine.C(), time.Second)
	if job.Key != "keep" {
		t.Fatalf("expected only the kept job, got %s", job.Key)
	}
}

func TestEngineCancelUnknownOrFiredIsNoop(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	if engine.Cancel("never-scheduled") {
		t.Fatal("expected false for unknown key")
	}

	if err := engine.Schedule(Job{Key: "fired", RunAt: time.Now().Add(5 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	waitJob(t, engine.C(), time.Second)
	if engine.Cancel("fired") {
		t.Fatal("expected false for already-fired key")
	}
}

func TestEngineHoldsJobsForSlowConsumer(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Job{
			Key:   "evt-" + string(rune('a'+i)),
			RunAt: at,
		}); err != nil {
			t.Fatalf("schedule job: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		seen[waitJob(t, engine.C(), time.Second).Key] = true
	}
	if len(seen) != 25 {
		t.Fatalf("expected 25 distinct jobs, got %d", len(seen))
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected no drops while running, got %d", engine.Dropped())
	}
}

func TestStopCountsUndeliveredJobs(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()

	now := time.Now()
	for _, key := range []string{"a", "b", "c"} {
		if err := engine.Schedule(Job{Key: key, RunAt: now}); err != nil {
			t.Fatalf("schedule %s: %v", key, err)
		}
	}
	time.Sleep(50 * time.Millisecond)
	engine.Stop()

	// One job sits in the buffer; the other two are either blocked in
	// delivery or still queued.
	if got := engine.Dropped() + uint64(engine.Len()); got != 2 {
		t.Fatalf("undelivered = %d, want 2 (dropped=%d pending=%d)", got, engine.Dropped(), engine.Len())
	}
}

func TestScheduleValidatesJob(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Job{Key: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(Job{RunAt: time.Now()}); err != ErrEmptyKey {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Job{Key: "late", RunAt: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func waitJob(t *testing.T, ch <-chan Job, timeout time.Duration) Job {
	t.Helper()
	select {
	case job := <-ch:
		return job
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for job")
		return Job{}
	}
}

func TestScheduleAfterUsesDelay(t *testing.T) {
	engine := NewEngine(1)
	before := time.Now()
	if err := engine.ScheduleAfter("delayed", nil, time.Hour); err != nil {
		t.Fatalf("schedule after: %v", err)
	}
	job, ok := engine.Pending("delayed")
	if !ok {
		t.Fatal("expected pending job")
	}
	if d := job.RunAt.Sub(before); d < time.Hour || d > time.Hour+time.Second {
		t.Fatalf("unexpected run-at offset: %s", d)
	}

	if err := engine.ScheduleAfter("overdue", nil, -time.Minute); err != nil {
		t.Fatalf("schedule overdue: %v", err)
	}
	engine.Start()
	defer engine.Stop()
	got := waitJob(t, engine.C(), time.Second)
	if got.Key != "overdue" {
		t.Fatalf("expected overdue job to fire first, got %s", got.Key)
	}
}
