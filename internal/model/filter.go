package model

import (
	"fmt"
	"strings"
)

type Filter string

const (
	FilterAll       Filter = "All"
	FilterActive    Filter = "Active"
	FilterCompleted Filter = "Completed"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	default:
		return true
	}
}

func ParseFilter(raw string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "active", "open", "todo":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
}

// MatchesQuery reports whether the title contains query, ignoring case.
// An empty query matches every title.
func MatchesQuery(t Task, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(query))
}

// VisibleTasks applies the search query and then the status filter to all,
// keeping the input order. It never returns nil.
func VisibleTasks(all []Task, filter Filter, query string) []Task {
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if !MatchesQuery(t, query) {
			continue
		}
		if !filter.Matches(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
