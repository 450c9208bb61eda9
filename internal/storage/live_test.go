package storage

import (
	"context"
	"testing"

	"github.com/sandeepkv93/todolist/internal/model"
)

func TestLiveStoreObserveDeliversSnapshots(t *testing.T) {
	live := NewLiveStore(setupRepo(t), nil)
	ctx := context.Background()

	var snapshots [][]model.Task
	cancel := live.Observe(func(tasks []model.Task) {
		snapshots = append(snapshots, tasks)
	})
	defer cancel()

	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("expected one initial empty snapshot, got %#v", snapshots)
	}

	id, err := live.InsertTask(ctx, model.Task{Title: "Buy milk", Priority: model.PriorityMedium})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(snapshots) != 2 || len(snapshots[1]) != 1 || snapshots[1][0].ID != id {
		t.Fatalf("expected snapshot after insert, got %#v", snapshots)
	}

	task := snapshots[1][0]
	task.IsCompleted = true
	if err := live.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(snapshots) != 3 || !snapshots[2][0].IsCompleted {
		t.Fatalf("expected snapshot after update, got %#v", snapshots)
	}

	if err := live.DeleteTask(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(snapshots) != 4 || len(snapshots[3]) != 0 {
		t.Fatalf("expected empty snapshot after delete, got %#v", snapshots)
	}
}

func TestLiveStoreFailedMutationDoesNotPublish(t *testing.T) {
	live := NewLiveStore(setupRepo(t), nil)
	calls := 0
	cancel := live.Observe(func([]model.Task) { calls++ })
	defer cancel()

	if err := live.DeleteTask(context.Background(), 42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected only the initial snapshot, got %d calls", calls)
	}
}

func TestLiveStoreCancelStopsDelivery(t *testing.T) {
	live := NewLiveStore(setupRepo(t), nil)
	calls := 0
	cancel := live.Observe(func([]model.Task) { calls++ })
	cancel()
	cancel()

	if _, err := live.InsertTask(context.Background(), model.Task{Title: "x", Priority: model.PriorityLow}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no deliveries after cancel, got %d calls", calls)
	}
}
