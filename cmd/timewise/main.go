// Command timewise is a small CLI front end for the timewise store. It
// opens the configured persistence slot, applies one command and flushes
// the state back before exiting. The `watch` command stays in the
// foreground and prints the live elapsed time of the active session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timewise-app/timewise/internal/config"
	"github.com/timewise-app/timewise/internal/domain"
	"github.com/timewise-app/timewise/internal/service"
	"github.com/timewise-app/timewise/internal/storage"
	fsstorage "github.com/timewise-app/timewise/internal/storage/fs"
	sqlitestorage "github.com/timewise-app/timewise/internal/storage/sqlite"
	"github.com/timewise-app/timewise/internal/store"
	"github.com/timewise-app/timewise/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timewise: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Warnings and errors only: command output goes to stdout, the log
	// must not drown it.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	persist, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer persist.Close()

	st := store.Open(ctx, persist, store.WithLogger(logger))
	svc := service.New(st, service.WithLogger(logger))

	args := os.Args[1:]
	cmd := "status"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	if err := dispatch(ctx, cfg, svc, cmd, args); err != nil {
		return err
	}

	// Mutations already wrote through; this surfaces a save that failed
	// mid-command instead of losing it silently.
	if err := st.Flush(ctx); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return sqlitestorage.NewStore(ctx, cfg.StoragePath)
	default:
		return fsstorage.NewStore(cfg.StoragePath)
	}
}

func dispatch(ctx context.Context, cfg *config.Config, svc *service.Service, cmd string, args []string) error {
	switch cmd {
	case "add":
		return addTask(ctx, svc, args)
	case "tasks":
		return listTasks(svc)
	case "start":
		if len(args) != 1 {
			return errors.New("usage: timewise start <task-id>")
		}
		entry, err := svc.StartTracking(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("tracking %s since %s\n", entry.TaskID, entry.StartTime.Format(time.Kitchen))
		return nil
	case "pause":
		entry, ok := svc.PauseTracking(ctx)
		if !ok {
			fmt.Println("nothing to pause")
			return nil
		}
		fmt.Printf("paused %s\n", entry.TaskID)
		return nil
	case "resume":
		entry, ok := svc.ResumeTracking(ctx)
		if !ok {
			fmt.Println("nothing to resume")
			return nil
		}
		fmt.Printf("resumed %s\n", entry.TaskID)
		return nil
	case "stop":
		return stopTracking(ctx, svc, args)
	case "status":
		return printStatus(svc)
	case "watch":
		return watch(ctx, cfg, svc)
	case "summary":
		return printSummary(svc, args)
	default:
		return fmt.Errorf("unknown command %q (add, tasks, start, pause, resume, stop, status, watch, summary)", cmd)
	}
}

func addTask(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	category := fs.String("category", string(domain.CategoryA), "task category (A, B or C)")
	today := fs.Bool("today", false, "schedule the task on today")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: timewise add [-category A|B|C] [-today] <title>")
	}

	task := domain.Task{Title: fs.Arg(0), Category: domain.Category(*category)}
	if *today {
		day := time.Now().Truncate(24 * time.Hour)
		task.Date = &day
	}

	created, err := svc.AddTask(ctx, task)
	if err != nil {
		return err
	}
	fmt.Printf("added %s (%s)\n", created.ID, created.Title)
	return nil
}

func listTasks(svc *service.Service) error {
	now := time.Now()
	for _, task := range svc.TasksForDay(now) {
		fmt.Println(formatTask(task))
	}
	for _, task := range svc.UnscheduledTasks() {
		fmt.Println(formatTask(task))
	}
	return nil
}

func formatTask(task domain.Task) string {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s  %s (%s)", mark, task.ID, task.Title, task.Category)
}

func stopTracking(ctx context.Context, svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("stop", flag.ContinueOnError)
	discard := fs.Bool("discard", false, "close the session without marking it completed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entry, ok := svc.StopTracking(ctx, !*discard)
	if !ok {
		fmt.Println("nothing to stop")
		return nil
	}
	fmt.Printf("stopped %s, worked %s\n", entry.TaskID, tracker.FormatElapsed(entry.Worked(time.Now())))
	return nil
}

func printStatus(svc *service.Service) error {
	entry, ok := svc.Store().ActiveEntry()
	if !ok {
		fmt.Println("idle")
		return nil
	}
	state := "running"
	if entry.Paused() {
		state = "paused"
	}
	elapsed, _ := svc.Store().Elapsed()
	fmt.Printf("%s %s for %s\n", state, entry.TaskID, tracker.FormatElapsed(elapsed))
	return nil
}

func watch(ctx context.Context, cfg *config.Config, svc *service.Service) error {
	ticker := tracker.New(svc.Store(), func(tick tracker.Tick) {
		state := "running"
		if tick.Paused {
			state = "paused"
		}
		fmt.Printf("\r%s %s %s", tick.Entry.TaskID, state, tracker.FormatElapsed(tick.Elapsed))
	}, tracker.WithInterval(cfg.TickInterval))

	err := ticker.Run(ctx)
	fmt.Println()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printSummary(svc *service.Service, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	groupBy := fs.String("by", string(service.GroupByProject), "grouping axis (day, project or category)")
	week := fs.Bool("week", false, "summarize the current week instead of today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now()
	from, to := service.DayRange(now)
	if *week {
		from, to = service.WeekRange(now)
	}

	entries := svc.EntriesBetween(from, to)
	for _, row := range svc.Summarize(entries, service.GroupBy(*groupBy)) {
		fmt.Printf("%-30s %s\n", row.Label, tracker.FormatElapsed(row.Worked))
	}
	return nil
}
