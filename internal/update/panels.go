package update

import (
	"github.com/sandeepkv93/todolist/internal/views"
)

func (m *Model) syncDetail() {
	t, ok := m.selected()
	if !ok {
		m.detail.SetContent("")
		return
	}
	md := views.TaskDetailMarkdown(views.TaskDetailData{
		Title:     t.Title,
		Priority:  string(t.Priority),
		Completed: t.IsCompleted,
		DueAt:     t.DueDate,
		Reminder:  t.HasReminder(),
		Order:     t.Order,
	})
	m.detail.SetContent(views.RenderMarkdown(md))
}

func (m Model) renderDetailPane() string {
	if _, ok := m.selected(); !ok {
		return views.RenderDetailPane("")
	}
	return views.RenderDetailPane(m.detail.View())
}
