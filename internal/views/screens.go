package views

import (
	"fmt"
	"strings"
	"time"
)

type TaskRowData struct {
	ID        int64
	Title     string
	Priority  string
	Completed bool
	DueAt     *time.Time
	Reminder  bool
}

type TaskPanelData struct {
	Filter   string
	Query    string
	Rows     []TaskRowData
	Cursor   int
	Dragging bool
	Total    int
}

type TaskDetailData struct {
	Title     string
	Priority  string
	Completed bool
	DueAt     *time.Time
	Reminder  bool
	Order     int
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
}

type ReminderLogEntry struct {
	Title    string
	Notified bool
	At       time.Time
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	header := fmt.Sprintf("tasks [%s]", strings.ToLower(data.Filter))
	if data.Query != "" {
		header += fmt.Sprintf(" search:%q", data.Query)
	}
	header += fmt.Sprintf(" %d/%d", len(data.Rows), data.Total)
	b.WriteString(header + "\n")
	if data.Dragging {
		b.WriteString(draggingStyle.Render("moving: [j/k] move [enter] drop [esc] cancel") + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("\n(no tasks)")
		return b.String()
	}
	b.WriteString("\n")
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(renderTaskRow(cursor, row, i == data.Cursor, data.Dragging) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskRow(cursor string, row TaskRowData, selected, dragging bool) string {
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}
	title := row.Title
	if row.Completed {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s %s %s", cursor, check, PriorityBadge(row.Priority), title)
	if row.DueAt != nil {
		line += " due:" + row.DueAt.Local().Format("Jan 2 15:04")
	}
	if row.Reminder {
		line += " (!)"
	}
	switch {
	case selected && dragging:
		return draggingStyle.Render(line)
	case selected:
		return selectedStyle.Render(line)
	default:
		return line
	}
}

func PriorityBadge(priority string) string {
	switch priority {
	case "High":
		return highStyle.Render("[H]")
	case "Medium":
		return mediumStyle.Render("[M]")
	default:
		return lowStyle.Render("[L]")
	}
}

// TaskDetailMarkdown describes a task as markdown for the detail pane.
func TaskDetailMarkdown(d TaskDetailData) string {
	status := "open"
	if d.Completed {
		status = "done"
	}
	due := "none"
	if d.DueAt != nil {
		due = d.DueAt.Local().Format("Mon Jan 2 2006 15:04")
	}
	reminder := "not scheduled"
	if d.Reminder {
		reminder = "scheduled"
	}
	return fmt.Sprintf("# %s\n\n- **Priority:** %s\n- **Status:** %s\n- **Due:** %s\n- **Reminder:** %s\n- **Position:** %d\n",
		d.Title, d.Priority, status, due, reminder, d.Order)
}

func RenderDetailPane(body string) string {
	if strings.TrimSpace(body) == "" {
		return "details:\n(no selection)"
	}
	return "details:\n" + body
}

func RenderInputLine(active bool, view string) string {
	if !active {
		return ""
	}
	return view
}

func RenderReminderLog(entries []ReminderLogEntry) string {
	if len(entries) == 0 {
		return ""
	}
	last := entries[len(entries)-1]
	shown := "shown"
	if !last.Notified {
		shown = "not shown"
	}
	return fmt.Sprintf("reminder: %s @ %s (%s, %d total)", last.Title, last.At.Local().Format("15:04:05"), shown, len(entries))
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.Mode),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
