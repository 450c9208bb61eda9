package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidFilter   = errors.New("model: invalid task filter")
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Next cycles Low -> Medium -> High -> Low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority accepts any casing of the three priority names.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}

// Task is the single persisted entity. An empty NotificationID means no
// reminder job is currently registered for the task.
type Task struct {
	ID             int64
	Title          string
	IsCompleted    bool
	Priority       Priority
	Order          int
	DueDate        *time.Time
	NotificationID string
}

func (t Task) HasReminder() bool {
	return t.NotificationID != ""
}

// Validate checks the record-level invariants. Title emptiness is checked by
// callers before a task reaches the store.
func (t Task) Validate() error {
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.NotificationID != "" && t.DueDate == nil {
		return errors.New("model: notification id requires a due date")
	}
	return nil
}

// NextOrder returns the order value for a newly created task: one past the
// current maximum, or 0 for an empty collection.
func NextOrder(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	max := tasks[0].Order
	for _, t := range tasks[1:] {
		if t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}

// DueMillis converts a due date to milliseconds since the epoch.
func DueMillis(due *time.Time) (int64, bool) {
	if due == nil {
		return 0, false
	}
	return due.UnixMilli(), true
}

func DueFromMillis(ms int64) *time.Time {
	tm := time.UnixMilli(ms).UTC()
	return &tm
}
