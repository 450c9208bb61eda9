package reminders

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/notify"
	"github.com/sandeepkv93/todolist/internal/scheduler"
)

// Result is the terminal outcome of one fired job. Neither outcome is retried.
type Result int

const (
	ResultSuccess Result = iota
	ResultFailure
)

func (r Result) String() string {
	if r == ResultSuccess {
		return "success"
	}
	return "failure"
}

const NotificationTitle = "Task reminder"

// Fired describes a reminder job that decoded cleanly.
type Fired struct {
	Key      string
	Title    string
	Notified bool
}

type Worker struct {
	notifier   notify.Notifier
	permission notify.Permission
	logger     *log.Logger
	onFired    []func(context.Context, Fired)
}

func NewWorker(notifier notify.Notifier, permission notify.Permission, logger *log.Logger) *Worker {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	if permission == nil {
		permission = notify.NewStaticPermission(false)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Worker{notifier: notifier, permission: permission, logger: logger}
}

// OnFired registers a hook invoked for every successfully decoded job, after
// the notification attempt.
func (w *Worker) OnFired(fn func(context.Context, Fired)) {
	if fn != nil {
		w.onFired = append(w.onFired, fn)
	}
}

// Handle processes one job payload. A payload without a job key fails;
// anything else succeeds whether or not a notification was shown.
func (w *Worker) Handle(ctx context.Context, payload map[string]string) Result {
	p, err := model.DecodeReminderPayload(payload)
	if err != nil {
		w.logger.Error("reminder job rejected", "err", err)
		return ResultFailure
	}

	fired := Fired{Key: p.TaskID, Title: p.TaskTitle}
	if w.permission.Granted() {
		n := notify.Notification{Key: p.TaskID, Title: NotificationTitle, Body: p.TaskTitle}
		if err := w.notifier.Send(n); err != nil {
			w.logger.Warn("reminder notification failed", "key", p.TaskID, "err", err)
		} else {
			fired.Notified = true
		}
	} else {
		w.logger.Debug("notification permission denied, reminder not shown", "key", p.TaskID)
	}

	for _, fn := range w.onFired {
		fn(ctx, fired)
	}
	return ResultSuccess
}

// Run handles jobs from ch until it closes or ctx is done.
func (w *Worker) Run(ctx context.Context, ch <-chan scheduler.Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			res := w.Handle(ctx, job.Payload)
			w.logger.Debug("reminder job finished", "key", job.Key, "result", res)
		}
	}
}
