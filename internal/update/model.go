package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/todolist/internal/drag"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/reminders"
	"github.com/sandeepkv93/todolist/internal/tasks"
)

// TaskService is the part of tasks.Service the UI drives.
type TaskService interface {
	AddTask(ctx context.Context, in tasks.NewTask) (model.Task, error)
	ToggleCompletion(ctx context.Context, id int64) error
	EditTask(ctx context.Context, id int64, edit tasks.TaskEdit) error
	CyclePriority(ctx context.Context, id int64) error
	SetPriority(ctx context.Context, id int64, p model.Priority) error
	DeleteTask(ctx context.Context, id int64) error
	Reorder(ctx context.Context, sequence []model.Task) error
	SetView(f model.Filter, q string)
	Visible() tasks.Snapshot
	Subscribe(fn func(tasks.Snapshot)) (cancel func())
	Go(name string, op func(context.Context) error) bool
}

type Mode string

const (
	ModeBrowse  Mode = "browse"
	ModeAdd     Mode = "add"
	ModeEdit    Mode = "edit"
	ModeSearch  Mode = "search"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type ReminderEntry struct {
	Fired reminders.Fired
	At    time.Time
}

type Model struct {
	Mode        Mode
	Filter      model.Filter
	Query       string
	Tasks       []model.Task
	Total       int
	Cursor      int
	EditingID   int64
	Status      StatusBar
	ReminderLog []ReminderEntry
	HelpVisible bool
	Quitting    bool
	Keys        KeyMap

	svc       TaskService
	changes   chan struct{}
	fired     <-chan reminders.Fired
	drag      *drag.Machine
	input     textinput.Model
	helpModel help.Model
	detail    viewport.Model
	now       func() time.Time
}

type Options struct {
	// Fired delivers reminder jobs as they fire. Nil disables reminder toasts.
	Fired <-chan reminders.Fired
	Now   func() time.Time
}

// SnapshotMsg carries a fresh list recomputation.
type SnapshotMsg struct {
	Snapshot tasks.Snapshot
}

type ReminderFiredMsg struct {
	Fired reminders.Fired
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(svc TaskService, opts Options) Model {
	m := Model{
		Mode:  ModeBrowse,
		Keys:  DefaultKeyMap(),
		svc:   svc,
		fired: opts.Fired,
		drag:  drag.NewMachine(),
		now:   opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.initBubbleComponents()

	// One pending signal is enough: the handler always reads the latest snapshot.
	m.changes = make(chan struct{}, 1)
	changes := m.changes
	svc.Subscribe(func(tasks.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	m.applySnapshot(svc.Visible())
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.CharLimit = 256
	m.input.Width = 48

	m.helpModel = help.New()
	m.detail = viewport.New(40, 10)
}

func (m *Model) applySnapshot(s tasks.Snapshot) {
	m.Filter = s.Filter
	m.Query = s.Query
	m.Tasks = s.Visible
	m.Total = s.Total
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.syncDetail()
}

// displayed is what the list shows: the speculative sequence while a drag is
// in progress, the view-state output otherwise.
func (m Model) displayed() []model.Task {
	if m.drag.Active() {
		return m.drag.State().Sequence
	}
	return m.Tasks
}

func (m Model) selected() (model.Task, bool) {
	list := m.displayed()
	if m.Cursor < 0 || m.Cursor >= len(list) {
		return model.Task{}, false
	}
	return list[m.Cursor], true
}

func (m Model) Dragging() bool {
	return m.drag.Active()
}
