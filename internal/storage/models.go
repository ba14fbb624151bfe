package storage

import "time"

// UserStats is the running activity counter snapshot for one user.
// Level is derived from XP by the engine; it is stored so other readers
// (TUI, list views) do not need to recompute it.
type UserStats struct {
	Key               string
	Level             int
	TotalPoints       int
	XP                int
	StreakDays        int
	LongestStreak     int
	TodosCompleted    int
	NotesCreated      int
	HabitsTracked     int
	FlashcardsStudied int
	PomodoroSessions  int
	FocusMinutes      int
	ToolsUsed         map[string]bool // distinct tool ids (JSON in DB)
	LastActive        *time.Time
}

type Task struct {
	ID          int64
	Title       string
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
	DueDate     *time.Time

	RecurKind        *string
	RecurInterval    int
	RecurDays        []int // weekday indices 0=Sunday..6=Saturday (JSON in DB)
	RecurWeekOfMonth *int
	RecurEnd         *string
	RecurEndCount    *int
	RecurEndDate     *time.Time
	Completions      int
}

type UserAchievement struct {
	ID             int64
	UserKey        string
	AchievementKey string
	UnlockedAt     time.Time
	IsCompleted    bool
}

type ActivityRecord struct {
	ID        int64
	Kind      string
	Amount    int
	XPAwarded int
	CreatedAt time.Time
}
