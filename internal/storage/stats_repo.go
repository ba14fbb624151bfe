package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const MainUserKey = "main_user"

type StatsRepo struct {
	db DBTX
}

func NewStatsRepo(db DBTX) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) Get(ctx context.Context, key string) (*UserStats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, level, total_points, xp, streak_days, longest_streak,
			todos_completed, notes_created, habits_tracked, flashcards_studied,
			pomodoro_sessions, focus_minutes, tools_used, last_active
		FROM user_stats WHERE key = ?`, key)

	var s UserStats
	var toolsRaw sql.NullString
	var lastActive sql.NullTime
	err := row.Scan(&s.Key, &s.Level, &s.TotalPoints, &s.XP, &s.StreakDays, &s.LongestStreak,
		&s.TodosCompleted, &s.NotesCreated, &s.HabitsTracked, &s.FlashcardsStudied,
		&s.PomodoroSessions, &s.FocusMinutes, &toolsRaw, &lastActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("stats get: %w", err)
	}

	if toolsRaw.Valid && toolsRaw.String != "" {
		if err := json.Unmarshal([]byte(toolsRaw.String), &s.ToolsUsed); err != nil {
			return nil, fmt.Errorf("unmarshal tools_used: %w", err)
		}
	}
	if lastActive.Valid {
		v := lastActive.Time
		s.LastActive = &v
	}
	return &s, nil
}

func (r *StatsRepo) GetOrCreateMain(ctx context.Context) (*UserStats, error) {
	s, err := r.Get(ctx, MainUserKey)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO user_stats (key) VALUES (?)`, MainUserKey); err != nil {
		return nil, fmt.Errorf("stats insert: %w", err)
	}
	return r.Get(ctx, MainUserKey)
}

func (r *StatsRepo) Update(ctx context.Context, s *UserStats) error {
	var toolsJSON *string
	if len(s.ToolsUsed) > 0 {
		data, err := json.Marshal(s.ToolsUsed)
		if err != nil {
			return fmt.Errorf("marshal tools_used: %w", err)
		}
		v := string(data)
		toolsJSON = &v
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE user_stats
		SET level = ?, total_points = ?, xp = ?, streak_days = ?, longest_streak = ?,
			todos_completed = ?, notes_created = ?, habits_tracked = ?, flashcards_studied = ?,
			pomodoro_sessions = ?, focus_minutes = ?, tools_used = ?, last_active = ?
		WHERE key = ?
	`, s.Level, s.TotalPoints, s.XP, s.StreakDays, s.LongestStreak,
		s.TodosCompleted, s.NotesCreated, s.HabitsTracked, s.FlashcardsStudied,
		s.PomodoroSessions, s.FocusMinutes, toolsJSON, s.LastActive, s.Key)
	if err != nil {
		return fmt.Errorf("stats update: %w", err)
	}
	return nil
}
