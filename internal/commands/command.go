package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/todolist/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeFilter   Type = "filter"
	TypeSearch   Type = "search"
	TypeClear    Type = "clear"
	TypeDue      Type = "due"
	TypePriority Type = "priority"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs carries an optional !priority token and an optional @due token.
// Due stays unresolved until Execute time.
type AddArgs struct {
	Title    string
	Priority model.Priority
	Due      string
}

type FilterArgs struct {
	Filter model.Filter
}

type SearchArgs struct {
	Query string
}

type DueArgs struct {
	When  string
	Clear bool
}

type PriorityArgs struct {
	Priority model.Priority
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Filter   *FilterArgs
	Search   *SearchArgs
	Due      *DueArgs
	Priority *PriorityArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeDue:
		return parseDue(input, args)
	case TypePriority:
		return parsePriority(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "!") && len(arg) > 1:
			p, err := model.ParsePriority(arg[1:])
			if err != nil {
				return Command{}, invalid("unknown priority %q", arg[1:])
			}
			out.Priority = p
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			out.Due = arg[1:]
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("filter requires one of all, active, completed")
	}
	f, err := model.ParseFilter(args[0])
	if err != nil {
		return Command{}, invalid("unknown filter %q", args[0])
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseDue(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("due requires a time or \"none\"")
	}
	when := strings.Join(args, " ")
	if strings.EqualFold(when, "none") || strings.EqualFold(when, "clear") {
		return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{Clear: true}}, nil
	}
	return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{When: when}}, nil
}

func parsePriority(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("priority requires one of low, medium, high")
	}
	p, err := model.ParsePriority(args[0])
	if err != nil {
		return Command{}, invalid("unknown priority %q", args[0])
	}
	return Command{Type: TypePriority, Raw: raw, Priority: &PriorityArgs{Priority: p}}, nil
}

var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDue resolves a due-date token against now. It accepts "+<duration>"
// offsets (e.g. +90m, +2h), "tomorrow", HH:MM for today, and the absolute
// layouts in local time.
func ParseDue(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, invalid("empty due date")
	}
	if strings.HasPrefix(s, "+") {
		d, err := time.ParseDuration(s[1:])
		if err != nil || d <= 0 {
			return time.Time{}, invalid("bad due offset %q", s)
		}
		return now.Add(d), nil
	}
	if strings.EqualFold(s, "tomorrow") {
		y, m, d := now.AddDate(0, 0, 1).Date()
		return time.Date(y, m, d, 9, 0, 0, 0, now.Location()), nil
	}
	if clock, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid("unrecognised due date %q", s)
}
