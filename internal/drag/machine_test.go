package drag

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/todolist/internal/model"
)

func seq(ids ...int64) []model.Task {
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Task{ID: id})
	}
	return out
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDragMoveAndCommit(t *testing.T) {
	m := NewMachine()
	displayed := seq(1, 2, 3)
	if err := m.Start(displayed, 2); err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.State().Phase != Dragging {
		t.Fatalf("expected dragging, got %s", m.State().Phase)
	}
	if err := m.Move(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := ids(m.State().Sequence); !equalIDs(got, []int64{3, 1, 2}) {
		t.Fatalf("unexpected speculative sequence: %v", got)
	}
	if got := ids(displayed); !equalIDs(got, []int64{1, 2, 3}) {
		t.Fatalf("displayed input mutated: %v", got)
	}

	var committed []int64
	var phaseDuringCommit Phase
	err := m.End(func(s []model.Task) error {
		committed = ids(s)
		phaseDuringCommit = m.State().Phase
		return nil
	})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if !equalIDs(committed, []int64{3, 1, 2}) {
		t.Fatalf("unexpected committed sequence: %v", committed)
	}
	if phaseDuringCommit != Committing {
		t.Fatalf("expected committing during commit, got %s", phaseDuringCommit)
	}
	if m.State().Phase != Idle {
		t.Fatalf("expected idle after end, got %s", m.State().Phase)
	}
}

func TestDragCancelDiscards(t *testing.T) {
	m := NewMachine()
	_ = m.Start(seq(1, 2, 3), 0)
	_ = m.MoveBy(2)
	m.Cancel()
	if m.State().Phase != Idle || m.State().Sequence != nil {
		t.Fatalf("expected clean idle state, got %+v", m.State())
	}
	called := false
	if err := m.End(func([]model.Task) error { called = true; return nil }); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("expected ErrNotDragging after cancel, got %v", err)
	}
	if called {
		t.Fatal("commit must not run after cancel")
	}
}

func TestDragMoveClamps(t *testing.T) {
	m := NewMachine()
	_ = m.Start(seq(1, 2, 3), 1)
	_ = m.Move(10)
	if got := ids(m.State().Sequence); !equalIDs(got, []int64{1, 3, 2}) {
		t.Fatalf("unexpected clamped sequence: %v", got)
	}
	_ = m.MoveBy(-10)
	if got := ids(m.State().Sequence); !equalIDs(got, []int64{2, 1, 3}) {
		t.Fatalf("unexpected clamped sequence: %v", got)
	}
	if m.State().Index != 0 || m.State().From != 1 {
		t.Fatalf("unexpected indices: %+v", m.State())
	}
}

func TestDragGuards(t *testing.T) {
	m := NewMachine()
	if err := m.Start(seq(1), 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := m.Start(nil, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for empty list, got %v", err)
	}
	if err := m.Move(0); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("expected ErrNotDragging, got %v", err)
	}
	_ = m.Start(seq(1, 2), 0)
	if err := m.Start(seq(1, 2), 1); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := m.End(nil); !errors.Is(err, ErrNilCommitter) {
		t.Fatalf("expected ErrNilCommitter, got %v", err)
	}
	if !m.Active() {
		t.Fatal("a rejected End must leave the drag in progress")
	}
}

func TestDragCommitErrorReturnsToIdle(t *testing.T) {
	m := NewMachine()
	_ = m.Start(seq(1, 2), 0)
	_ = m.Move(1)
	boom := errors.New("boom")
	if err := m.End(func([]model.Task) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if m.Active() {
		t.Fatal("expected idle after failed commit")
	}
}
