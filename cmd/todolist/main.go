package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/todolist/internal/config"
	"github.com/sandeepkv93/todolist/internal/logging"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/notify"
	"github.com/sandeepkv93/todolist/internal/reminders"
	"github.com/sandeepkv93/todolist/internal/scheduler"
	"github.com/sandeepkv93/todolist/internal/storage"
	"github.com/sandeepkv93/todolist/internal/tasks"
	"github.com/sandeepkv93/todolist/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todolist failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgPath, err := config.Load()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger.Info("starting", "config", cfgPath, "db", cfg.DBPath)

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()
	store := storage.NewLiveStore(repo, logger)

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer func() {
		engine.Stop()
		logger.Info("scheduler stopped", "pending", engine.Len(), "dropped", engine.Dropped())
	}()

	sched := reminders.NewScheduler(engine, reminders.WithLogger(logger.WithPrefix("reminders")))

	filter, err := model.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		logger.Warn("invalid default filter", "value", cfg.DefaultFilter, "err", err)
		filter = model.FilterAll
	}
	svc := tasks.NewService(store, sched, tasks.Config{DefaultFilter: filter, Logger: logger})
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	permission := notify.DesktopPermission{Enabled: cfg.DesktopNotifications}
	logger.Info("desktop notifications", "enabled", cfg.DesktopNotifications, "granted", permission.Granted())

	fired := make(chan reminders.Fired, 16)
	worker := reminders.NewWorker(notify.ExecNotifier{}, permission, logger.WithPrefix("reminders"))
	worker.OnFired(func(_ context.Context, f reminders.Fired) {
		svc.Go("reminder-fired", func(ctx context.Context) error { return svc.ReminderFired(ctx, f.Key) })
		select {
		case fired <- f:
		default:
			logger.Debug("reminder toast dropped", "key", f.Key)
		}
	})
	// The worker must be reading before restore: overdue reminders fire at once.
	go worker.Run(ctx, engine.C())

	open := false
	pending, err := store.ListTasks(ctx, storage.TaskListFilter{Completed: &open})
	if err != nil {
		return err
	}
	if n := sched.Restore(pending); n > 0 {
		logger.Info("restored reminders", "count", n)
	}

	program := tea.NewProgram(update.NewModel(svc, update.Options{Fired: fired}), tea.WithAltScreen())
	_, err = program.Run()
	logShutdown(logger, err)
	return err
}

func logShutdown(logger *log.Logger, err error) {
	if err != nil {
		logger.Error("program exited", "err", err)
		return
	}
	logger.Info("shutdown")
}
