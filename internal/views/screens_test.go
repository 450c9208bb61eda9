package views

import (
	"strings"
	"testing"
	"time"
)

func TestRenderTaskPanelEmpty(t *testing.T) {
	out := RenderTaskPanel(TaskPanelData{Filter: "Active", Total: 3})
	if !strings.Contains(out, "tasks [active] 0/3") || !strings.Contains(out, "(no tasks)") {
		t.Fatalf("unexpected empty panel:\n%s", out)
	}
}

func TestRenderTaskPanelRows(t *testing.T) {
	due := time.Date(2026, 3, 4, 9, 30, 0, 0, time.Local)
	out := RenderTaskPanel(TaskPanelData{
		Filter: "All",
		Query:  "milk",
		Rows: []TaskRowData{
			{ID: 1, Title: "Buy milk", Priority: "High", DueAt: &due, Reminder: true},
			{ID: 2, Title: "Oat milk", Priority: "Low", Completed: true},
		},
		Cursor:   0,
		Dragging: true,
		Total:    5,
	})
	for _, want := range []string{`search:"milk"`, "2/5", "moving:", "> [ ]", "Buy milk", "due:Mar 4 09:30", "(!)", "[x]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in panel:\n%s", want, out)
		}
	}
}

func TestPriorityBadge(t *testing.T) {
	cases := map[string]string{"High": "[H]", "Medium": "[M]", "Low": "[L]", "": "[L]"}
	for in, want := range cases {
		if got := PriorityBadge(in); !strings.Contains(got, want) {
			t.Fatalf("PriorityBadge(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderDetailPaneNoSelection(t *testing.T) {
	if got := RenderDetailPane("  "); got != "details:\n(no selection)" {
		t.Fatalf("unexpected detail pane: %q", got)
	}
}

func TestTaskDetailMarkdown(t *testing.T) {
	md := TaskDetailMarkdown(TaskDetailData{Title: "Call mom", Priority: "Medium", Reminder: true, Order: 2})
	for _, want := range []string{"# Call mom", "**Priority:** Medium", "**Status:** open", "**Due:** none", "**Reminder:** scheduled", "**Position:** 2"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestRenderReminderLogShowsLatest(t *testing.T) {
	if got := RenderReminderLog(nil); got != "" {
		t.Fatalf("expected empty log, got %q", got)
	}
	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local)
	got := RenderReminderLog([]ReminderLogEntry{
		{Title: "first", Notified: true, At: at},
		{Title: "second", Notified: false, At: at},
	})
	if got != "reminder: second @ 08:00:00 (not shown, 2 total)" {
		t.Fatalf("unexpected log line: %q", got)
	}
}
