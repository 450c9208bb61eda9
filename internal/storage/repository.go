package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/todolist/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the single-table task store. ListTasks always returns tasks
// sorted by order ascending, ties broken by id.
type Repository interface {
	InsertTask(ctx context.Context, in model.Task) (int64, error)
	GetTask(ctx context.Context, id int64) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
	FindByNotificationID(ctx context.Context, key string) (model.Task, error)
	MaxOrder(ctx context.Context) (int, bool, error)
}
