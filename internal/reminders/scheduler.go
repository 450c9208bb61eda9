// Package reminders turns task due dates into one-shot reminder jobs and
// handles those jobs when they fire.
package reminders

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sandeepkv93/todolist/internal/model"
)

// Runner is the deferred job runner. Enqueueing an existing key replaces the
// pending job; cancelling an unknown key reports false and does nothing else.
type Runner interface {
	ScheduleAfter(key string, payload map[string]string, delay time.Duration) error
	Cancel(key string) bool
}

type Scheduler struct {
	runner Runner
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

func NewScheduler(runner Runner, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner: runner,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers a reminder for title at due and returns its job key.
// An absent or non-future due date schedules nothing and returns "".
func (s *Scheduler) Schedule(title string, due *time.Time) (string, error) {
	if due == nil {
		return "", nil
	}
	now := s.now()
	if !due.After(now) {
		s.logger.Debug("reminder skipped, due date not in the future", "title", title, "due", due.Format(time.RFC3339))
		return "", nil
	}
	key := uuid.NewString()
	delay := due.Sub(now)
	if err := s.runner.ScheduleAfter(key, model.NewReminderPayload(key, title).Encode(), delay); err != nil {
		return "", fmt.Errorf("schedule reminder: %w", err)
	}
	s.logger.Debug("reminder scheduled", "key", key, "delay", delay)
	return key, nil
}

// Reschedule re-registers an existing key, firing immediately when due has
// already passed.
func (s *Scheduler) Reschedule(key, title string, due time.Time) error {
	if key == "" {
		return nil
	}
	delay := due.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	if err := s.runner.ScheduleAfter(key, model.NewReminderPayload(key, title).Encode(), delay); err != nil {
		return fmt.Errorf("reschedule reminder %s: %w", key, err)
	}
	return nil
}

// Cancel drops a pending reminder. Unknown, empty and already-fired keys are
// ignored.
func (s *Scheduler) Cancel(key string) {
	if key == "" {
		return
	}
	if s.runner.Cancel(key) {
		s.logger.Debug("reminder cancelled", "key", key)
	}
}

// Restore re-registers the reminders recorded on tasks. Completed tasks and
// records without a due date are skipped.
func (s *Scheduler) Restore(tasks []model.Task) int {
	restored := 0
	for _, t := range tasks {
		if !t.HasReminder() || t.IsCompleted || t.DueDate == nil {
			continue
		}
		if err := s.Reschedule(t.NotificationID, t.Title, *t.DueDate); err != nil {
			s.logger.Warn("restore reminder failed", "task_id", t.ID, "err", err)
			continue
		}
		restored++
	}
	return restored
}
