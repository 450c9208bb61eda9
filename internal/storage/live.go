package storage

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/todolist/internal/model"
)

// LiveStore wraps a Repository and re-publishes the full ordered task list to
// every observer after each committed mutation. Observers run synchronously
// on the mutating goroutine and must not call back into the store.
type LiveStore struct {
	repo   Repository
	logger *log.Logger

	mu        sync.Mutex
	observers map[int]func([]model.Task)
	nextID    int

	// pubMu orders snapshot delivery across concurrent writers.
	pubMu sync.Mutex
}

var _ Repository = (*LiveStore)(nil)

func NewLiveStore(repo Repository, logger *log.Logger) *LiveStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LiveStore{
		repo:      repo,
		logger:    logger,
		observers: make(map[int]func([]model.Task)),
	}
}

// Observe delivers the current snapshot to fn immediately, then again after
// every mutation until the returned cancel func is called.
func (s *LiveStore) Observe(fn func([]model.Task)) (cancel func()) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	if tasks, err := s.repo.ListTasks(context.Background(), TaskListFilter{}); err != nil {
		s.logger.Error("initial snapshot failed", "err", err)
	} else {
		fn(tasks)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *LiveStore) InsertTask(ctx context.Context, in model.Task) (int64, error) {
	id, err := s.repo.InsertTask(ctx, in)
	if err != nil {
		return 0, err
	}
	s.publish(ctx)
	return id, nil
}

func (s *LiveStore) UpdateTask(ctx context.Context, in model.Task) error {
	if err := s.repo.UpdateTask(ctx, in); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *LiveStore) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *LiveStore) GetTask(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.GetTask(ctx, id)
}

func (s *LiveStore) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	return s.repo.ListTasks(ctx, filter)
}

func (s *LiveStore) FindByNotificationID(ctx context.Context, key string) (model.Task, error) {
	return s.repo.FindByNotificationID(ctx, key)
}

func (s *LiveStore) MaxOrder(ctx context.Context) (int, bool, error) {
	return s.repo.MaxOrder(ctx)
}

func (s *LiveStore) publish(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if len(s.observers) == 0 {
		s.mu.Unlock()
		return
	}
	fns := make([]func([]model.Task), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	tasks, err := s.repo.ListTasks(context.WithoutCancel(ctx), TaskListFilter{})
	if err != nil {
		s.logger.Error("publish snapshot failed", "err", err)
		return
	}
	for _, fn := range fns {
		snapshot := make([]model.Task, len(tasks))
		copy(snapshot, tasks)
		fn(snapshot)
	}
}
