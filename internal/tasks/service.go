// Package tasks owns task mutations, their reminder side effects and the
// derived list state the UI renders.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/storage"
)

var ErrBlankTitle = errors.New("tasks: blank title")

// Store is the persisted task collection with a live query.
type Store interface {
	storage.Repository
	Observe(fn func([]model.Task)) (cancel func())
}

// Reminders schedules and cancels reminder jobs. Schedule returns "" when no
// job was registered.
type Reminders interface {
	Schedule(title string, due *time.Time) (string, error)
	Cancel(key string)
}

type NewTask struct {
	Title    string
	Priority model.Priority
	DueDate  *time.Time
}

type TaskEdit struct {
	Title    string
	Priority model.Priority
	DueDate  *time.Time
}

type Config struct {
	DefaultFilter model.Filter
	QueueSize     int
	Logger        *log.Logger
}

type Service struct {
	store     Store
	reminders Reminders
	logger    *log.Logger
	view      *ViewState
	queue     *Queue
	unobserve func()
}

func NewService(store Store, reminders Reminders, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}
	s := &Service{
		store:     store,
		reminders: reminders,
		logger:    logger,
		view:      NewViewState(cfg.DefaultFilter),
		queue:     NewQueue(cfg.QueueSize, logger),
	}
	s.unobserve = store.Observe(s.view.SetTasks)
	return s
}

// AddTask creates a task at the end of the manual order, scheduling a
// reminder when the due date lies in the future.
func (s *Service) AddTask(ctx context.Context, in NewTask) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ErrBlankTitle
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityLow
	}
	if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidPriority, priority)
	}

	order := 0
	maxOrder, ok, err := s.store.MaxOrder(ctx)
	if err != nil {
		return model.Task{}, fmt.Errorf("read max order: %w", err)
	}
	if ok {
		order = maxOrder + 1
	}

	t := model.Task{
		Title:    title,
		Priority: priority,
		Order:    order,
		DueDate:  in.DueDate,
	}
	t.NotificationID = s.schedule(title, in.DueDate)

	id, err := s.store.InsertTask(ctx, t)
	if err != nil {
		s.reminders.Cancel(t.NotificationID)
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	s.logger.Debug("task added", "task_id", id, "order", order, "reminder", t.HasReminder())
	return t, nil
}

// ToggleCompletion flips the completion flag. Completing a task cancels its
// reminder once the write has landed. Unknown ids are ignored.
func (s *Service) ToggleCompletion(ctx context.Context, id int64) error {
	t, err := s.load(ctx, id)
	if err != nil || t == nil {
		return err
	}
	t.IsCompleted = !t.IsCompleted
	var stale string
	if t.IsCompleted {
		stale = t.NotificationID
		t.NotificationID = ""
	}
	if err := s.save(ctx, *t); err != nil {
		return err
	}
	s.reminders.Cancel(stale)
	return nil
}

// EditTask replaces title, priority and due date. A fresh reminder is
// scheduled for the new due date; the previous one is cancelled only after the
// write succeeds, otherwise the fresh one is.
func (s *Service) EditTask(ctx context.Context, id int64, edit TaskEdit) error {
	title := strings.TrimSpace(edit.Title)
	if title == "" {
		return ErrBlankTitle
	}
	if edit.Priority != "" && !edit.Priority.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidPriority, edit.Priority)
	}
	t, err := s.load(ctx, id)
	if err != nil || t == nil {
		return err
	}

	t.Title = title
	if edit.Priority != "" {
		t.Priority = edit.Priority
	}
	stale := t.NotificationID
	t.NotificationID = ""
	t.DueDate = edit.DueDate
	if !t.IsCompleted {
		t.NotificationID = s.schedule(title, edit.DueDate)
	}
	if err := s.save(ctx, *t); err != nil {
		s.reminders.Cancel(t.NotificationID)
		return err
	}
	s.reminders.Cancel(stale)
	return nil
}

// CyclePriority advances the task's priority Low -> Medium -> High -> Low.
func (s *Service) CyclePriority(ctx context.Context, id int64) error {
	t, err := s.load(ctx, id)
	if err != nil || t == nil {
		return err
	}
	t.Priority = t.Priority.Next()
	return s.save(ctx, *t)
}

// SetPriority changes only the priority; any pending reminder is kept.
func (s *Service) SetPriority(ctx context.Context, id int64, p model.Priority) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidPriority, p)
	}
	t, err := s.load(ctx, id)
	if err != nil || t == nil {
		return err
	}
	t.Priority = p
	return s.save(ctx, *t)
}

// DeleteTask removes the task and cancels its reminder.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	t, err := s.load(ctx, id)
	if err != nil || t == nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.reminders.Cancel(t.NotificationID)
	s.logger.Debug("task deleted", "task_id", id)
	return nil
}

// Reorder assigns order = index to every task in sequence, one write at a
// time. Tasks outside sequence keep their order. A failed write does not stop
// the remaining ones; all failures are returned joined.
func (s *Service) Reorder(ctx context.Context, sequence []model.Task) error {
	var errs []error
	for i, item := range sequence {
		t, err := s.load(ctx, item.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if t == nil || t.Order == i {
			continue
		}
		t.Order = i
		if err := s.save(ctx, *t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReminderFired clears the job key from the task that carried it.
func (s *Service) ReminderFired(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	t, err := s.store.FindByNotificationID(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find task for reminder %s: %w", key, err)
	}
	t.NotificationID = ""
	return s.save(ctx, t)
}

func (s *Service) SetFilter(f model.Filter) { s.view.SetFilter(f) }

func (s *Service) SetSearchQuery(q string) { s.view.SetQuery(q) }

// SetView changes filter and query in one recomputation.
func (s *Service) SetView(f model.Filter, q string) { s.view.Set(f, q) }

func (s *Service) Visible() Snapshot { return s.view.Snapshot() }

func (s *Service) Subscribe(fn func(Snapshot)) (cancel func()) { return s.view.Subscribe(fn) }

// Go submits op to the service's work queue. Errors are logged under name.
func (s *Service) Go(name string, op func(context.Context) error) bool {
	return s.queue.Submit(name, op)
}

// Flush waits for every queued operation to finish.
func (s *Service) Flush() { s.queue.Flush() }

// Close stops observing the store and cancels queued work.
func (s *Service) Close() {
	if s.unobserve != nil {
		s.unobserve()
	}
	s.queue.Close()
}

func (s *Service) schedule(title string, due *time.Time) string {
	key, err := s.reminders.Schedule(title, due)
	if err != nil {
		s.logger.Warn("reminder not scheduled", "title", title, "err", err)
		return ""
	}
	return key
}

// load returns nil without error for ids no longer in the store.
func (s *Service) load(ctx context.Context, id int64) (*model.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("stale task reference ignored", "task_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

func (s *Service) save(ctx context.Context, t model.Task) error {
	if err := s.store.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return nil
}
