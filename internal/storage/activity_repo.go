package storage

import (
	"context"
	"fmt"
	"time"
)

type ActivityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Insert(ctx context.Context, kind string, amount int, xpAwarded int, createdAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (kind, amount, xp_awarded, created_at)
		VALUES (?, ?, ?, ?)
	`, kind, amount, xpAwarded, createdAt)
	if err != nil {
		return 0, fmt.Errorf("activity insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("activity last insert id: %w", err)
	}
	return id, nil
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]ActivityRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, amount, xp_awarded, created_at
		FROM activities
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var out []ActivityRecord
	for rows.Next() {
		var a ActivityRecord
		if err := rows.Scan(&a.ID, &a.Kind, &a.Amount, &a.XPAwarded, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return out, nil
}
