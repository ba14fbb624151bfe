package engine

import "flowfocus/internal/storage"

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	default:
		return false
	}
}

// Achievement is a catalog entry: a named milestone with a pure unlock
// predicate over the stats snapshot and a one-time point reward.
type Achievement struct {
	Key         string
	Name        string
	Description string
	Category    string
	Icon        string
	Points      int
	Rarity      Rarity
	Check       func(s *storage.UserStats) bool
}

// Catalog returns the static achievement catalog. Order is stable; unlock
// evaluation and display both iterate it in this order.
func Catalog() []Achievement {
	return []Achievement{
		// Task milestones
		countAchievement("first_task", "Getting Things Done", "Complete your first task", "tasks", "✓", 10, RarityCommon,
			func(s *storage.UserStats) int { return s.TodosCompleted }, 1),
		countAchievement("task_10", "Checklist Regular", "Complete 10 tasks", "tasks", "📋", 25, RarityCommon,
			func(s *storage.UserStats) int { return s.TodosCompleted }, 10),
		countAchievement("task_50", "Productivity Machine", "Complete 50 tasks", "tasks", "🏅", 75, RarityRare,
			func(s *storage.UserStats) int { return s.TodosCompleted }, 50),
		countAchievement("task_100", "Century Club", "Complete 100 tasks", "tasks", "🏆", 150, RarityEpic,
			func(s *storage.UserStats) int { return s.TodosCompleted }, 100),

		// Notes
		countAchievement("first_note", "Note to Self", "Create your first note", "notes", "📝", 10, RarityCommon,
			func(s *storage.UserStats) int { return s.NotesCreated }, 1),
		countAchievement("note_25", "Prolific Writer", "Create 25 notes", "notes", "📚", 50, RarityRare,
			func(s *storage.UserStats) int { return s.NotesCreated }, 25),

		// Focus
		countAchievement("first_pomodoro", "Tomato Timer", "Finish a focus session", "focus", "🍅", 10, RarityCommon,
			func(s *storage.UserStats) int { return s.PomodoroSessions }, 1),
		countAchievement("pomodoro_25", "In the Zone", "Finish 25 focus sessions", "focus", "⏱️", 60, RarityRare,
			func(s *storage.UserStats) int { return s.PomodoroSessions }, 25),
		countAchievement("deep_work", "Deep Worker", "Accumulate 1000 focus minutes", "focus", "🧠", 150, RarityEpic,
			func(s *storage.UserStats) int { return s.FocusMinutes }, 1000),

		// Habits and flashcards
		countAchievement("habit_30", "Creature of Habit", "Track 30 habit check-ins", "habits", "🔁", 50, RarityRare,
			func(s *storage.UserStats) int { return s.HabitsTracked }, 30),
		countAchievement("flashcard_100", "Card Shark", "Study 100 flashcards", "flashcards", "🃏", 50, RarityRare,
			func(s *storage.UserStats) int { return s.FlashcardsStudied }, 100),

		// Streaks
		countAchievement("streak_3", "Warming Up", "Reach a 3-day streak", "streaks", "🔥", 15, RarityCommon,
			func(s *storage.UserStats) int { return s.StreakDays }, 3),
		countAchievement("streak_7", "One Full Week", "Reach a 7-day streak", "streaks", "🔥", 50, RarityRare,
			func(s *storage.UserStats) int { return s.StreakDays }, 7),
		countAchievement("streak_30", "Unstoppable", "Reach a 30-day streak", "streaks", "🌋", 250, RarityLegendary,
			func(s *storage.UserStats) int { return s.StreakDays }, 30),

		// Level milestones (level stays derived from XP)
		countAchievement("level_5", "Climbing", "Reach level 5", "levels", "⭐", 50, RarityRare,
			func(s *storage.UserStats) int { return LevelForXP(s.XP) }, 5),
		countAchievement("level_10", "Seasoned", "Reach level 10", "levels", "🌟", 100, RarityEpic,
			func(s *storage.UserStats) int { return LevelForXP(s.XP) }, 10),

		// Breadth
		countAchievement("explorer", "Tool Explorer", "Use 4 different tools", "general", "🧭", 40, RarityRare,
			func(s *storage.UserStats) int { return len(s.ToolsUsed) }, 4),
	}
}

func countAchievement(key, name, desc, category, icon string, points int, rarity Rarity, get func(s *storage.UserStats) int, threshold int) Achievement {
	return Achievement{
		Key:         key,
		Name:        name,
		Description: desc,
		Category:    category,
		Icon:        icon,
		Points:      points,
		Rarity:      rarity,
		Check:       func(s *storage.UserStats) bool { return get(s) >= threshold },
	}
}
