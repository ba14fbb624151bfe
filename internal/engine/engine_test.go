package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"flowfocus/internal/storage"
)

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func TestCompleteRecurringTaskAdvancesDueDate(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.CreateTask(ctx, CreateTaskInput{
		Title:   "Water the plants",
		Repeat:  ParseRecurringText("every monday"),
		DueDate: &due,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.Ended {
		t.Fatalf("did not expect schedule to end")
	}
	if res.NextDue == nil {
		t.Fatalf("expected next due date")
	}
	if got, want := res.NextDue.Format("2006-01-02"), "2024-01-08"; got != want {
		t.Fatalf("next due=%s, want %s", got, want)
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != "pending" {
		t.Fatalf("status=%q, want pending", task.Status)
	}
	if task.Completions != 1 {
		t.Fatalf("completions=%d, want 1", task.Completions)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2024-01-08" {
		t.Fatalf("stored due=%v, want 2024-01-08", task.DueDate)
	}
}

func TestCompletePlainTaskMarksDone(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskInput{Title: "File taxes"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.NextDue != nil {
		t.Fatalf("plain task should not get a next due date")
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != "done" {
		t.Fatalf("status=%q, want done", task.Status)
	}

	if _, err := svc.CompleteTask(ctx, created.TaskID); err == nil {
		t.Fatalf("expected error completing an already-done task")
	}
}

func TestCustomPatternEndsAfterCompletions(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskInput{
		Title:  "Physio exercises",
		Repeat: ParseRecurringText("after 2 completions"),
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	first, err := svc.CompleteTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("complete #1: %v", err)
	}
	if first.Ended {
		t.Fatalf("schedule ended too early")
	}
	if first.NextDue != nil {
		t.Fatalf("custom patterns must not advance a due date")
	}

	second, err := svc.CompleteTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("complete #2: %v", err)
	}
	if !second.Ended {
		t.Fatalf("expected schedule to end on completion #2")
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != "done" {
		t.Fatalf("status=%q, want done", task.Status)
	}
}

func TestRecurringTaskEndsOnDate(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	pattern := ParseRecurringText("every monday")
	pattern.End = EndOn
	pattern.EndDate = &end

	created, err := svc.CreateTask(ctx, CreateTaskInput{
		Title:   "Clear the gutters",
		Repeat:  pattern,
		DueDate: &due,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	task, err := svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	rebuilt := PatternFromTask(task)
	if rebuilt == nil || rebuilt.End != EndOn {
		t.Fatalf("stored pattern=%+v, want end kind %q", rebuilt, EndOn)
	}
	if rebuilt.EndDate == nil || rebuilt.EndDate.Format("2006-01-02") != "2024-01-10" {
		t.Fatalf("stored end date=%v, want 2024-01-10", rebuilt.EndDate)
	}

	// Jan 8 is still on or before the end date, so the schedule continues.
	first, err := svc.CompleteTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("complete #1: %v", err)
	}
	if first.Ended {
		t.Fatalf("schedule ended before its end date")
	}
	if first.NextDue == nil || first.NextDue.Format("2006-01-02") != "2024-01-08" {
		t.Fatalf("next due=%v, want 2024-01-08", first.NextDue)
	}

	// Jan 15 falls past the end date, so this completion is the last.
	second, err := svc.CompleteTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("complete #2: %v", err)
	}
	if !second.Ended {
		t.Fatalf("expected schedule to end past its end date")
	}
	if second.NextDue != nil {
		t.Fatalf("ended schedule must not get a next due date, got %v", second.NextDue)
	}

	task, err = svc.TaskRepo().Get(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != "done" {
		t.Fatalf("status=%q, want done", task.Status)
	}
}

func TestCompleteTaskWritesAuditRow(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Change smoke alarm battery"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, created.TaskID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	recent, err := svc.ActivityRepo().ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("activity rows=%d, want 1", len(recent))
	}
	if recent[0].Kind != string(ActivityTaskCompleted) {
		t.Fatalf("activity kind=%q, want %q", recent[0].Kind, ActivityTaskCompleted)
	}
	if recent[0].XPAwarded != ActivityTaskCompleted.XPReward() {
		t.Fatalf("xp awarded=%d, want %d", recent[0].XPAwarded, ActivityTaskCompleted.XPReward())
	}
}

func TestRecordActivityPersistsUnlocksOnce(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	first, err := svc.RecordActivity(ctx, ActivityNoteCreated, 1)
	if err != nil {
		t.Fatalf("record #1: %v", err)
	}
	found := false
	for _, u := range first.Unlocked {
		if u.Key == "first_note" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected first_note unlock, got %v", first.Unlocked)
	}

	second, err := svc.RecordActivity(ctx, ActivityNoteCreated, 1)
	if err != nil {
		t.Fatalf("record #2: %v", err)
	}
	if len(second.Unlocked) != 0 {
		t.Fatalf("expected no new unlocks, got %v", second.Unlocked)
	}

	rows, err := svc.AchievementRepo().ListByUser(ctx, storage.MainUserKey)
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("achievement rows=%d, want 1", len(rows))
	}
	if rows[0].AchievementKey != "first_note" {
		t.Fatalf("achievement key=%q, want first_note", rows[0].AchievementKey)
	}

	stats, err := svc.StatsRepo().GetOrCreateMain(ctx)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.NotesCreated != 2 {
		t.Fatalf("NotesCreated=%d, want 2", stats.NotesCreated)
	}
	if stats.XP != 10 {
		t.Fatalf("XP=%d, want 10", stats.XP)
	}
}

func TestRecordActivityUnknownKind(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.RecordActivity(ctx, ActivityKind("unknown_activity"), 1)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.XPAwarded != 0 || len(res.Unlocked) != 0 {
		t.Fatalf("unknown kind must be a no-op, got %+v", res)
	}

	stats, err := svc.StatsRepo().GetOrCreateMain(ctx)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.XP != 0 || stats.TotalPoints != 0 {
		t.Fatalf("stats changed for unknown kind: %+v", stats)
	}
}
