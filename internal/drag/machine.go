// Package drag holds the drag-to-reorder gesture state. The speculative
// sequence is shown while dragging and only reaches the store on End.
package drag

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/todolist/internal/model"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
	Committing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	ErrNotDragging  = errors.New("drag: no drag in progress")
	ErrBusy         = errors.New("drag: gesture already in progress")
	ErrOutOfRange   = errors.New("drag: index out of range")
	ErrNilCommitter = errors.New("drag: nil commit func")
)

// State is the tagged gesture state. From, Index and Sequence are meaningful
// only while Phase is Dragging or Committing.
type State struct {
	Phase    Phase
	From     int
	Index    int
	Sequence []model.Task
}

type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{}
}

func (m *Machine) State() State {
	out := m.state
	if m.state.Sequence != nil {
		out.Sequence = append([]model.Task(nil), m.state.Sequence...)
	}
	return out
}

func (m *Machine) Active() bool {
	return m.state.Phase != Idle
}

// Start picks up the item at index from the displayed sequence.
func (m *Machine) Start(displayed []model.Task, index int) error {
	if m.state.Phase != Idle {
		return ErrBusy
	}
	if index < 0 || index >= len(displayed) {
		return ErrOutOfRange
	}
	m.state = State{
		Phase:    Dragging,
		From:     index,
		Index:    index,
		Sequence: append([]model.Task(nil), displayed...),
	}
	return nil
}

// Move relocates the dragged item to position to, clamped to the sequence.
func (m *Machine) Move(to int) error {
	if m.state.Phase != Dragging {
		return ErrNotDragging
	}
	n := len(m.state.Sequence)
	if to < 0 {
		to = 0
	}
	if to >= n {
		to = n - 1
	}
	m.state.Sequence = moveItem(m.state.Sequence, m.state.Index, to)
	m.state.Index = to
	return nil
}

// MoveBy shifts the dragged item by delta positions.
func (m *Machine) MoveBy(delta int) error {
	return m.Move(m.state.Index + delta)
}

// End hands the speculative sequence to commit and returns to Idle whatever
// commit reports.
func (m *Machine) End(commit func([]model.Task) error) error {
	if m.state.Phase != Dragging {
		return ErrNotDragging
	}
	if commit == nil {
		return ErrNilCommitter
	}
	seq := m.state.Sequence
	m.state.Phase = Committing
	defer func() { m.state = State{} }()
	return commit(seq)
}

// Cancel discards the speculative sequence without committing.
func (m *Machine) Cancel() {
	if m.state.Phase == Dragging {
		m.state = State{}
	}
}

func moveItem(seq []model.Task, from, to int) []model.Task {
	if from == to || from < 0 || from >= len(seq) {
		return seq
	}
	item := seq[from]
	out := make([]model.Task, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	out = append(out[:to], append([]model.Task{item}, out[to:]...)...)
	return out
}
