package model

import (
	"errors"
	"strings"
)

// Payload keys carried by a reminder job.
const (
	PayloadTaskID    = "taskId"
	PayloadTaskTitle = "taskTitle"
)

const DefaultReminderTitle = "Task"

var ErrMissingJobKey = errors.New("model: reminder payload missing taskId")

// ReminderPayload is the decoded form of a reminder job payload. TaskID holds
// the job key, not the task's row id.
type ReminderPayload struct {
	TaskID    string
	TaskTitle string
}

func NewReminderPayload(key, title string) ReminderPayload {
	return ReminderPayload{TaskID: key, TaskTitle: title}
}

func (p ReminderPayload) Encode() map[string]string {
	return map[string]string{
		PayloadTaskID:    p.TaskID,
		PayloadTaskTitle: p.TaskTitle,
	}
}

// DecodeReminderPayload fails only when the job key is absent. A missing
// title falls back to DefaultReminderTitle.
func DecodeReminderPayload(raw map[string]string) (ReminderPayload, error) {
	key, ok := raw[PayloadTaskID]
	if !ok || strings.TrimSpace(key) == "" {
		return ReminderPayload{}, ErrMissingJobKey
	}
	title, ok := raw[PayloadTaskTitle]
	if !ok {
		title = DefaultReminderTitle
	}
	return ReminderPayload{TaskID: key, TaskTitle: title}, nil
}
