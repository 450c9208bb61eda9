package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestEngineStressConcurrentScheduleAndCancel(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				key := fmt.Sprintf("w%d-%d", w, i)
				job := Job{
					Key:     key,
					Payload: map[string]string{"taskId": key, "taskTitle": "stress"},
					RunAt:   now.Add(delay),
				}
				if err := engine.Schedule(job); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
				// every fourth job is cancelled right away
				if i%4 == 0 {
					engine.Cancel(key)
				}
			}
		}()
	}
	wg.Wait()

	want := workers * (perWorker - perWorker/4)
	deadline := time.After(5 * time.Second)
	received := 0
	for received < want {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting jobs: received=%d want=%d dropped=%d", received, want, engine.Dropped())
		case job := <-engine.C():
			var w, i int
			if _, err := fmt.Sscanf(job.Key, "w%d-%d", &w, &i); err == nil && i%4 == 0 {
				t.Fatalf("cancelled job fired: %s", job.Key)
			}
			received++
		}
	}

	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}
