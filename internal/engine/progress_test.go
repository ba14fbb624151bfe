package engine

import (
	"testing"
	"time"

	"flowfocus/internal/storage"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{1000, 11},
		{-5, 1},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d)=%d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestProgressToNextLevel(t *testing.T) {
	if got := ProgressToNextLevel(250); got != 50 {
		t.Fatalf("ProgressToNextLevel(250)=%d, want 50", got)
	}
	if got := ProgressToNextLevel(0); got != 0 {
		t.Fatalf("ProgressToNextLevel(0)=%d, want 0", got)
	}
}

func TestTrackActivityUnknownKindIsNoOp(t *testing.T) {
	stats := storage.UserStats{Key: storage.MainUserKey, XP: 50, TotalPoints: 50, TodosCompleted: 3}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	updated, unlocks := TrackActivity(stats, map[string]bool{}, ActivityKind("selfie_taken"), 1, now)

	if len(unlocks) != 0 {
		t.Fatalf("expected no unlocks, got %d", len(unlocks))
	}
	if updated.XP != stats.XP || updated.TotalPoints != stats.TotalPoints || updated.TodosCompleted != stats.TodosCompleted {
		t.Fatalf("stats changed for unknown kind: %+v", updated)
	}
	if updated.LastActive != nil {
		t.Fatalf("expected LastActive untouched for unknown kind")
	}
}

func TestTrackActivityUnlocksExactlyOnce(t *testing.T) {
	stats := storage.UserStats{Key: storage.MainUserKey}
	earned := map[string]bool{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	firstTaskUnlocks := 0
	task10Unlocks := 0
	for i := 0; i < 15; i++ {
		updated, unlocks := TrackActivity(stats, earned, ActivityTaskCompleted, 1, now)
		stats = updated
		for _, u := range unlocks {
			earned[u.Key] = true
			switch u.Key {
			case "first_task":
				firstTaskUnlocks++
			case "task_10":
				task10Unlocks++
			}
		}
	}

	if firstTaskUnlocks != 1 {
		t.Fatalf("first_task unlocked %d times, want 1", firstTaskUnlocks)
	}
	if task10Unlocks != 1 {
		t.Fatalf("task_10 unlocked %d times, want 1", task10Unlocks)
	}
	if stats.TodosCompleted != 15 {
		t.Fatalf("TodosCompleted=%d, want 15", stats.TodosCompleted)
	}
	if stats.XP != 150 {
		t.Fatalf("XP=%d, want 150", stats.XP)
	}
	if stats.Level != 2 {
		t.Fatalf("Level=%d, want 2", stats.Level)
	}
	// 150 activity XP plus the two unlock rewards.
	wantPoints := 150 + 10 + 25
	if stats.TotalPoints != wantPoints {
		t.Fatalf("TotalPoints=%d, want %d", stats.TotalPoints, wantPoints)
	}
}

func TestTrackActivityAmountScalesCounters(t *testing.T) {
	stats := storage.UserStats{Key: storage.MainUserKey}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	updated, unlocks := TrackActivity(stats, map[string]bool{}, ActivityFlashcardsStudied, 100, now)

	if updated.FlashcardsStudied != 100 {
		t.Fatalf("FlashcardsStudied=%d, want 100", updated.FlashcardsStudied)
	}
	// Reward is per event, not per card.
	if updated.XP != 2 {
		t.Fatalf("XP=%d, want 2", updated.XP)
	}
	foundCardShark := false
	for _, u := range unlocks {
		if u.Key == "flashcard_100" {
			foundCardShark = true
		}
	}
	if !foundCardShark {
		t.Fatalf("expected flashcard_100 unlock, got %v", unlocks)
	}
}

func TestTrackActivityPomodoroCountsMinutes(t *testing.T) {
	stats := storage.UserStats{Key: storage.MainUserKey}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	updated, _ := TrackActivity(stats, map[string]bool{}, ActivityPomodoroCompleted, 25, now)

	if updated.PomodoroSessions != 1 {
		t.Fatalf("PomodoroSessions=%d, want 1", updated.PomodoroSessions)
	}
	if updated.FocusMinutes != 25 {
		t.Fatalf("FocusMinutes=%d, want 25", updated.FocusMinutes)
	}
	if !updated.ToolsUsed["pomodoro"] {
		t.Fatalf("expected pomodoro in ToolsUsed, got %v", updated.ToolsUsed)
	}
}

func TestStreakProgression(t *testing.T) {
	stats := storage.UserStats{Key: storage.MainUserKey}
	earned := map[string]bool{}
	day := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }

	track := func(at time.Time) {
		updated, unlocks := TrackActivity(stats, earned, ActivityNoteCreated, 1, at)
		stats = updated
		for _, u := range unlocks {
			earned[u.Key] = true
		}
	}

	track(day(1))
	if stats.StreakDays != 1 {
		t.Fatalf("day 1 streak=%d, want 1", stats.StreakDays)
	}

	track(day(1)) // second activity on the same day
	if stats.StreakDays != 1 {
		t.Fatalf("same-day streak=%d, want 1", stats.StreakDays)
	}

	track(day(2))
	if stats.StreakDays != 2 {
		t.Fatalf("day 2 streak=%d, want 2", stats.StreakDays)
	}

	track(day(5)) // gap resets
	if stats.StreakDays != 1 {
		t.Fatalf("after gap streak=%d, want 1", stats.StreakDays)
	}
	if stats.LongestStreak != 2 {
		t.Fatalf("LongestStreak=%d, want 2", stats.LongestStreak)
	}
}
