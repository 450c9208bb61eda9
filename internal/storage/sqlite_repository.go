package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/todolist/internal/model"
)

const taskColumns = `id, title, is_completed, priority, sort_order, due_date, notification_id`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path and brings its
// schema up to date.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: db path is empty")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) InsertTask(ctx context.Context, in model.Task) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (title, is_completed, priority, sort_order, due_date, notification_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.Title, boolInt(in.IsCompleted), string(in.Priority), in.Order, nullMillis(in), nullString(in.NotificationID),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanOne(row)
}

func (r *SQLiteRepository) FindByNotificationID(ctx context.Context, key string) (model.Task, error) {
	if key == "" {
		return model.Task{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE notification_id = ? LIMIT 1`, key)
	return scanOne(row)
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	if err := in.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, is_completed = ?, priority = ?, sort_order = ?, due_date = ?, notification_id = ?
		WHERE id = ?`,
		in.Title, boolInt(in.IsCompleted), string(in.Priority), in.Order, nullMillis(in), nullString(in.NotificationID), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := make([]any, 0, 1)
	if filter.Completed != nil {
		query += ` WHERE is_completed = ?`
		args = append(args, boolInt(*filter.Completed))
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MaxOrder(ctx context.Context) (int, bool, error) {
	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM tasks`).Scan(&max); err != nil {
		return 0, false, err
	}
	return int(max.Int64), max.Valid, nil
}

func nullMillis(t model.Task) any {
	ms, ok := model.DueMillis(t.DueDate)
	if !ok {
		return nil
	}
	return ms
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(s scanner) (model.Task, error) {
	task, err := scanTask(s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

// scanTask tolerates rows written before later columns existed: unknown
// priorities read back as Low and NULLs as absent.
func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var completed int
	var priority string
	var due sql.NullInt64
	var notification sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &completed, &priority, &out.Order, &due, &notification); err != nil {
		return model.Task{}, err
	}
	out.IsCompleted = completed == 1
	p, err := model.ParsePriority(priority)
	if err != nil {
		p = model.PriorityLow
	}
	out.Priority = p
	if due.Valid {
		out.DueDate = model.DueFromMillis(due.Int64)
	}
	if notification.Valid {
		out.NotificationID = notification.String
	}
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
