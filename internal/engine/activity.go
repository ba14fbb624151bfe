package engine

import (
	"time"

	"flowfocus/internal/storage"
)

type ActivityKind string

const (
	ActivityTaskCompleted     ActivityKind = "task_completed"
	ActivityNoteCreated       ActivityKind = "note_created"
	ActivityHabitTracked      ActivityKind = "habit_tracked"
	ActivityFlashcardsStudied ActivityKind = "flashcards_studied"
	ActivityPomodoroCompleted ActivityKind = "pomodoro_completed"
)

type activityRule struct {
	Tool  string
	XP    int
	Apply func(s *storage.UserStats, amount int)
}

// Fixed per-activity XP rewards. The amount scales the counters (e.g. cards
// studied, focus minutes), not the reward.
var activityRules = map[ActivityKind]activityRule{
	ActivityTaskCompleted: {
		Tool: "todos", XP: 10,
		Apply: func(s *storage.UserStats, amount int) { s.TodosCompleted += amount },
	},
	ActivityNoteCreated: {
		Tool: "notes", XP: 5,
		Apply: func(s *storage.UserStats, amount int) { s.NotesCreated += amount },
	},
	ActivityHabitTracked: {
		Tool: "habits", XP: 5,
		Apply: func(s *storage.UserStats, amount int) { s.HabitsTracked += amount },
	},
	ActivityFlashcardsStudied: {
		Tool: "flashcards", XP: 2,
		Apply: func(s *storage.UserStats, amount int) { s.FlashcardsStudied += amount },
	},
	ActivityPomodoroCompleted: {
		Tool: "pomodoro", XP: 25,
		Apply: func(s *storage.UserStats, amount int) {
			// amount carries the session length in minutes
			s.PomodoroSessions++
			s.FocusMinutes += amount
		},
	},
}

func (k ActivityKind) IsValid() bool {
	_, ok := activityRules[k]
	return ok
}

// XPReward returns the fixed reward for a kind, 0 for unknown kinds.
func (k ActivityKind) XPReward() int {
	return activityRules[k].XP
}

// Unlock is an achievement that newly qualified during an activity event.
type Unlock struct {
	Achievement
	UnlockedAt time.Time
}

// TrackActivity applies one activity event to a stats snapshot and returns the
// updated snapshot plus any achievements that newly qualify (in catalog order,
// skipping keys already in earned). The input snapshot is not mutated; the
// caller persists the result. An unknown kind is a silent no-op: tracking is
// best-effort telemetry and must never block the triggering action.
func TrackActivity(stats storage.UserStats, earned map[string]bool, kind ActivityKind, amount int, now time.Time) (storage.UserStats, []Unlock) {
	rule, ok := activityRules[kind]
	if !ok {
		return stats, nil
	}
	if amount < 1 {
		amount = 1
	}

	tools := make(map[string]bool, len(stats.ToolsUsed)+1)
	for k := range stats.ToolsUsed {
		tools[k] = true
	}
	tools[rule.Tool] = true
	stats.ToolsUsed = tools

	rule.Apply(&stats, amount)
	stats.XP += rule.XP
	stats.TotalPoints += rule.XP
	stats.Level = LevelForXP(stats.XP)
	advanceStreak(&stats, now)

	var unlocks []Unlock
	for _, a := range Catalog() {
		if earned[a.Key] {
			continue
		}
		if !a.Check(&stats) {
			continue
		}
		stats.TotalPoints += a.Points
		unlocks = append(unlocks, Unlock{Achievement: a, UnlockedAt: now})
	}
	return stats, unlocks
}

// advanceStreak keeps the consecutive-active-day counters. Same calendar day
// is a no-op, the day after extends the streak, anything else restarts it.
func advanceStreak(s *storage.UserStats, now time.Time) {
	defer func() {
		if s.StreakDays > s.LongestStreak {
			s.LongestStreak = s.StreakDays
		}
		t := now
		s.LastActive = &t
	}()

	if s.LastActive == nil {
		s.StreakDays = 1
		return
	}
	if sameDay(*s.LastActive, now) {
		return
	}
	if sameDay(*s.LastActive, now.AddDate(0, 0, -1)) {
		s.StreakDays++
		return
	}
	s.StreakDays = 1
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
