package storage

import (
	"context"
	"fmt"
)

type AchievementRepo struct {
	db DBTX
}

func NewAchievementRepo(db DBTX) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// Insert records an unlock. Re-inserting the same (user, achievement) pair is a
// no-op so unlocking stays idempotent; returns true when a new row was written.
func (r *AchievementRepo) Insert(ctx context.Context, ua UserAchievement) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO user_achievements (user_key, achievement_key, unlocked_at, is_completed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_key, achievement_key) DO NOTHING
	`, ua.UserKey, ua.AchievementKey, ua.UnlockedAt, boolToInt(ua.IsCompleted))
	if err != nil {
		return false, fmt.Errorf("achievement insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("achievement rows affected: %w", err)
	}
	return n > 0, nil
}

// ListEarnedKeys returns the set of achievement keys the user has unlocked.
func (r *AchievementRepo) ListEarnedKeys(ctx context.Context, userKey string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT achievement_key FROM user_achievements WHERE user_key = ?
	`, userKey)
	if err != nil {
		return nil, fmt.Errorf("achievement keys: %w", err)
	}
	defer rows.Close()

	earned := map[string]bool{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("achievement key scan: %w", err)
		}
		earned[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement key rows: %w", err)
	}
	return earned, nil
}

func (r *AchievementRepo) ListByUser(ctx context.Context, userKey string) ([]UserAchievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_key, achievement_key, unlocked_at, is_completed
		FROM user_achievements
		WHERE user_key = ?
		ORDER BY unlocked_at ASC, id ASC
	`, userKey)
	if err != nil {
		return nil, fmt.Errorf("achievement list: %w", err)
	}
	defer rows.Close()

	var out []UserAchievement
	for rows.Next() {
		var ua UserAchievement
		var completed int
		if err := rows.Scan(&ua.ID, &ua.UserKey, &ua.AchievementKey, &ua.UnlockedAt, &completed); err != nil {
			return nil, fmt.Errorf("achievement scan: %w", err)
		}
		ua.IsCompleted = completed != 0
		out = append(out, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement rows: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
