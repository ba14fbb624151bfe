package jobs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"flowfocus/internal/engine"
	"flowfocus/internal/storage"
)

func newTestRollover(t *testing.T) (*Rollover, *engine.Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	db, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := engine.NewService(db)
	r := NewRollover(svc, "@hourly", time.UTC)
	cleanup := func() {
		_ = db.Close()
	}
	return r, svc, cleanup
}

func TestRunOnceAdvancesOverdueRecurring(t *testing.T) {
	r, svc, cleanup := newTestRollover(t)
	defer cleanup()
	ctx := context.Background()

	past := time.Now().UTC().AddDate(0, 0, -10)
	created, err := svc.CreateTask(ctx, engine.CreateTaskInput{
		Title:   "Take out the bins",
		Repeat:  engine.ParseRecurringText("daily"),
		DueDate: &past,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	moved, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved=%d, want 1", moved)
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.DueDate == nil || task.DueDate.Before(time.Now().UTC()) {
		t.Fatalf("due date not rolled forward: %v", task.DueDate)
	}
	if task.Completions != 0 {
		t.Fatalf("rollover must not record completions, got %d", task.Completions)
	}
}

func TestRunOnceExpiresFinishedSchedules(t *testing.T) {
	r, svc, cleanup := newTestRollover(t)
	defer cleanup()
	ctx := context.Background()

	due := time.Now().UTC().AddDate(0, 0, -10)
	end := time.Now().UTC().AddDate(0, 0, -5)
	pattern := engine.ParseRecurringText("daily")
	pattern.End = engine.EndOn
	pattern.EndDate = &end

	created, err := svc.CreateTask(ctx, engine.CreateTaskInput{
		Title:   "Advent calendar",
		Repeat:  pattern,
		DueDate: &due,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	moved, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved=%d, want 1", moved)
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != "expired" {
		t.Fatalf("status=%q, want expired", task.Status)
	}
}

func TestRunOnceLeavesOneOffTasksAlone(t *testing.T) {
	r, svc, cleanup := newTestRollover(t)
	defer cleanup()
	ctx := context.Background()

	past := time.Now().UTC().AddDate(0, 0, -3)
	created, err := svc.CreateTask(ctx, engine.CreateTaskInput{
		Title:   "Renew passport",
		DueDate: &past,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	moved, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if moved != 0 {
		t.Fatalf("moved=%d, want 0", moved)
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.DueDate == nil || !sameDate(*task.DueDate, past) {
		t.Fatalf("one-off due date changed: %v", task.DueDate)
	}
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
