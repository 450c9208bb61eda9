package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/reminders"
	"github.com/sandeepkv93/todolist/internal/views"
)

const reminderLogLimit = 20

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChangeCmd(m.changes, m.svc), waitForReminderCmd(m.fired))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.drag.Active() {
			return m.handleDragKey(typed), nil
		}
		if m.Mode != ModeBrowse {
			return m.handleInputKey(typed)
		}
		return m.handleBrowseKey(typed)
	case SnapshotMsg:
		m.applySnapshot(typed.Snapshot)
		return m, waitForChangeCmd(m.changes, m.svc)
	case ReminderFiredMsg:
		m.ReminderLog = append(m.ReminderLog, ReminderEntry{Fired: typed.Fired, At: m.now()})
		if len(m.ReminderLog) > reminderLogLimit {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogLimit:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", typed.Fired.Title)}
		return m, waitForReminderCmd(m.fired)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.Keys
	switch {
	case key.Matches(msg, k.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		if m.Cursor > 0 {
			m.Cursor--
			m.syncDetail()
		}
	case key.Matches(msg, k.Down):
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
			m.syncDetail()
		}
	case key.Matches(msg, k.Add):
		m = m.openInput(ModeAdd, "add> ", "")
	case key.Matches(msg, k.Edit):
		if t, ok := m.selected(); ok {
			m = m.openInput(ModeEdit, "edit> ", editValue(t))
			m.EditingID = t.ID
		}
	case key.Matches(msg, k.Search):
		m = m.openInput(ModeSearch, "search> ", m.Query)
	case key.Matches(msg, k.Palette):
		m = m.openInput(ModePalette, ":", "")
	case key.Matches(msg, k.Clear):
		m.setView(m.Filter, "")
	case key.Matches(msg, k.All):
		m.setView(model.FilterAll, m.Query)
	case key.Matches(msg, k.Active):
		m.setView(model.FilterActive, m.Query)
	case key.Matches(msg, k.Done):
		m.setView(model.FilterCompleted, m.Query)
	case key.Matches(msg, k.Toggle):
		if t, ok := m.selected(); ok {
			m.submit("toggle", func(ctx context.Context, svc TaskService) error { return svc.ToggleCompletion(ctx, t.ID) })
		}
	case key.Matches(msg, k.Delete):
		if t, ok := m.selected(); ok {
			m.submit("delete", func(ctx context.Context, svc TaskService) error { return svc.DeleteTask(ctx, t.ID) })
			m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Title)}
		}
	case key.Matches(msg, k.Priority):
		if t, ok := m.selected(); ok {
			m.submit("priority", func(ctx context.Context, svc TaskService) error { return svc.CyclePriority(ctx, t.ID) })
		}
	case key.Matches(msg, k.Move):
		if err := m.drag.Start(m.Tasks, m.Cursor); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
	case key.Matches(msg, k.Help):
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.Keys.Up):
		_ = m.drag.MoveBy(-1)
	case key.Matches(msg, m.Keys.Down):
		_ = m.drag.MoveBy(1)
	case msg.String() == "enter":
		svc := m.svc
		_ = m.drag.End(func(seq []model.Task) error {
			svc.Go("reorder", func(ctx context.Context) error { return svc.Reorder(ctx, seq) })
			return nil
		})
		m.Status = StatusBar{Text: "moved"}
		return m
	case msg.String() == "esc":
		m.drag.Cancel()
		return m
	}
	m.Cursor = m.drag.State().Index
	m.syncDetail()
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.Mode == ModeSearch {
			m.setView(m.Filter, "")
		}
		return m.closeInput(), nil
	case "enter":
		return m.submitInput(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.Mode == ModeSearch {
		m.setView(m.Filter, m.input.Value())
	}
	return m, cmd
}

func (m Model) submitInput() Model {
	value := m.input.Value()
	switch m.Mode {
	case ModeAdd:
		if strings.TrimSpace(value) == "" {
			return m
		}
		var ok bool
		if m, ok = m.runCommand("add " + value); !ok {
			return m
		}
	case ModeEdit:
		if strings.TrimSpace(value) == "" {
			return m
		}
		var ok bool
		if m, ok = m.submitEdit(value); !ok {
			return m
		}
	case ModeSearch:
		m.setView(m.Filter, value)
	case ModePalette:
		m, _ = m.runCommand(value)
	}
	return m.closeInput()
}

func (m Model) openInput(mode Mode, prompt, value string) Model {
	m.Mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m Model) closeInput() Model {
	m.Mode = ModeBrowse
	m.EditingID = 0
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m *Model) setView(f model.Filter, q string) {
	m.svc.SetView(f, q)
	m.applySnapshot(m.svc.Visible())
}

func (m Model) submit(name string, op func(context.Context, TaskService) error) {
	svc := m.svc
	svc.Go(name, func(ctx context.Context) error { return op(ctx, svc) })
}

func (m Model) View() string {
	rows := make([]views.TaskRowData, 0, len(m.displayed()))
	for _, t := range m.displayed() {
		rows = append(rows, views.TaskRowData{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Completed: t.IsCompleted,
			DueAt:     t.DueDate,
			Reminder:  t.HasReminder(),
		})
	}
	left := views.RenderTaskPanel(views.TaskPanelData{
		Filter:   string(m.Filter),
		Query:    m.Query,
		Rows:     rows,
		Cursor:   m.Cursor,
		Dragging: m.drag.Active(),
		Total:    m.Total,
	})
	right := m.renderDetailPane() + m.renderHelpIfVisible()

	entries := make([]views.ReminderLogEntry, 0, len(m.ReminderLog))
	for _, e := range m.ReminderLog {
		entries = append(entries, views.ReminderLogEntry{Title: e.Fired.Title, Notified: e.Fired.Notified, At: e.At})
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("todolist | %s | mode: %s", m.Filter, m.Mode),
		LeftPane:     left,
		RightPane:    right,
		InputLine:    views.RenderInputLine(m.Mode != ModeBrowse, m.input.View()),
		StatusLine:   m.Status.Text,
		StatusError:  m.Status.IsError,
		Notification: views.RenderReminderLog(entries),
		Footer:       m.helpModel.ShortHelpView(m.footerBindings()),
	})
}

func (m Model) footerBindings() []key.Binding {
	if m.drag.Active() || m.Mode != ModeBrowse {
		return m.helpBindings()
	}
	k := m.Keys
	return []key.Binding{k.Add, k.Toggle, k.Move, k.Search, k.Palette, k.Help, k.Quit}
}

func waitForChangeCmd(ch <-chan struct{}, svc TaskService) tea.Cmd {
	if ch == nil || svc == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: svc.Visible()}
	}
}

func waitForReminderCmd(ch <-chan reminders.Fired) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderFiredMsg{Fired: ev}
	}
}

func editValue(t model.Task) string {
	parts := []string{t.Title, "!" + strings.ToLower(string(t.Priority))}
	if t.DueDate != nil {
		parts = append(parts, "@"+t.DueDate.Local().Format("2006-01-02T15:04"))
	}
	return strings.Join(parts, " ")
}
