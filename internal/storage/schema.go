package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_stats (
			key TEXT PRIMARY KEY,
			level INTEGER DEFAULT 1,
			total_points INTEGER DEFAULT 0,
			xp INTEGER DEFAULT 0,
			streak_days INTEGER DEFAULT 0,
			longest_streak INTEGER DEFAULT 0,
			todos_completed INTEGER DEFAULT 0,
			notes_created INTEGER DEFAULT 0,
			habits_tracked INTEGER DEFAULT 0,
			flashcards_studied INTEGER DEFAULT 0,
			pomodoro_sessions INTEGER DEFAULT 0,
			focus_minutes INTEGER DEFAULT 0,
			tools_used TEXT,
			last_active DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,

			status TEXT DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME,
			due_date DATETIME,

			recur_kind TEXT,
			recur_interval INTEGER DEFAULT 1,
			recur_days TEXT,
			recur_week_of_month INTEGER,
			recur_end TEXT,
			recur_end_count INTEGER,
			recur_end_date DATETIME,
			completions INTEGER DEFAULT 0
		);`,
		// Unique pair is what makes unlocking idempotent under concurrent callers.
		`CREATE TABLE IF NOT EXISTS user_achievements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_key TEXT NOT NULL,
			achievement_key TEXT NOT NULL,
			unlocked_at DATETIME NOT NULL,
			is_completed INTEGER DEFAULT 1,
			UNIQUE(user_key, achievement_key)
		);`,
		// Audit log of tracked activity events (kind, magnitude, XP awarded).
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			amount INTEGER NOT NULL,
			xp_awarded INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
