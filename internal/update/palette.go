package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/todolist/internal/commands"
	"github.com/sandeepkv93/todolist/internal/tasks"
)

// runCommand parses and executes one palette command. It reports false when
// parsing or execution failed; the status line then carries the error.
func (m Model) runCommand(raw string) (Model, bool) {
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, false
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			due, err := m.resolveDue(a.Due)
			if err != nil {
				return commands.Result{}, err
			}
			in := tasks.NewTask{Title: a.Title, Priority: a.Priority, DueDate: due}
			m.submit("add", func(ctx context.Context, svc TaskService) error {
				_, err := svc.AddTask(ctx, in)
				return err
			})
			return commands.Result{Message: fmt.Sprintf("added: %s", a.Title)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			m.setView(f.Filter, m.Query)
			return commands.Result{Message: fmt.Sprintf("filter: %s", f.Filter)}, nil
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			m.setView(m.Filter, s.Query)
			return commands.Result{Message: fmt.Sprintf("search: %q", s.Query)}, nil
		},
		Clear: func() (commands.Result, error) {
			m.setView(m.Filter, "")
			return commands.Result{Message: "search cleared"}, nil
		},
		Due: func(d commands.DueArgs) (commands.Result, error) {
			t, ok := m.selected()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			var due *time.Time
			if !d.Clear {
				resolved, err := m.resolveDue(d.When)
				if err != nil {
					return commands.Result{}, err
				}
				due = resolved
			}
			edit := tasks.TaskEdit{Title: t.Title, Priority: t.Priority, DueDate: due}
			m.submit("due", func(ctx context.Context, svc TaskService) error { return svc.EditTask(ctx, t.ID, edit) })
			if due == nil {
				return commands.Result{Message: fmt.Sprintf("due cleared: %s", t.Title)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("due %s: %s", due.Local().Format("Jan 2 15:04"), t.Title)}, nil
		},
		Priority: func(p commands.PriorityArgs) (commands.Result, error) {
			t, ok := m.selected()
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			m.submit("priority", func(ctx context.Context, svc TaskService) error { return svc.SetPriority(ctx, t.ID, p.Priority) })
			return commands.Result{Message: fmt.Sprintf("priority %s: %s", p.Priority, t.Title)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, false
	}
	m.Status = StatusBar{Text: res.Message}
	return m, true
}

// submitEdit applies an edit line of the same shape as add: title words plus
// optional !priority and @due tokens. Omitting @due clears the due date. On a
// parse failure the status line carries the error and false is returned.
func (m Model) submitEdit(value string) (Model, bool) {
	cmd, err := commands.Parse("add " + value)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, false
	}
	due, err := m.resolveDue(cmd.Add.Due)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, false
	}
	id := m.EditingID
	edit := tasks.TaskEdit{Title: cmd.Add.Title, Priority: cmd.Add.Priority, DueDate: due}
	m.submit("edit", func(ctx context.Context, svc TaskService) error { return svc.EditTask(ctx, id, edit) })
	m.Status = StatusBar{Text: fmt.Sprintf("edited: %s", cmd.Add.Title)}
	return m, true
}

func (m Model) resolveDue(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	due, err := commands.ParseDue(raw, m.now())
	if err != nil {
		return nil, err
	}
	return &due, nil
}
