package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

type TaskInsert struct {
	Title   string
	Status  string
	DueDate *time.Time

	RecurKind        *string
	RecurInterval    int
	RecurDays        []int
	RecurWeekOfMonth *int
	RecurEnd         *string
	RecurEndCount    *int
	RecurEndDate     *time.Time
}

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	var daysJSON *string
	if len(in.RecurDays) > 0 {
		data, err := json.Marshal(in.RecurDays)
		if err != nil {
			return 0, fmt.Errorf("marshal recur_days: %w", err)
		}
		v := string(data)
		daysJSON = &v
	}
	interval := in.RecurInterval
	if interval < 1 {
		interval = 1
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			title, status, due_date,
			recur_kind, recur_interval, recur_days, recur_week_of_month,
			recur_end, recur_end_count, recur_end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Status, in.DueDate,
		in.RecurKind, interval, daysJSON, in.RecurWeekOfMonth,
		in.RecurEnd, in.RecurEndCount, in.RecurEndDate)
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

const taskColumns = `id, title, status, created_at, completed_at, due_date,
	recur_kind, recur_interval, recur_days, recur_week_of_month,
	recur_end, recur_end_count, recur_end_date, completions`

func (r *TaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task get: %w", err)
	}
	return t, nil
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		ORDER BY due_date IS NULL, due_date ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	return collectTasks(rows)
}

// ListOpenDueBefore returns non-done tasks whose due date has passed cutoff.
func (r *TaskRepo) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < ?
		ORDER BY due_date ASC, id ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("task list due: %w", err)
	}
	return collectTasks(rows)
}

func (r *TaskRepo) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'done', completed_at = ?, completions = completions + 1
		WHERE id = ?
	`, completedAt, id)
	if err != nil {
		return fmt.Errorf("task mark done: %w", err)
	}
	return nil
}

// Reschedule advances a recurring task to its next occurrence after a completion.
func (r *TaskRepo) Reschedule(ctx context.Context, id int64, nextDue *time.Time, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET due_date = ?, completed_at = ?, completions = completions + 1, status = 'pending'
		WHERE id = ?
	`, nextDue, completedAt, id)
	if err != nil {
		return fmt.Errorf("task reschedule: %w", err)
	}
	return nil
}

// UpdateDueDate moves a task's due date without recording a completion
// (used by the rollover scheduler for missed occurrences).
func (r *TaskRepo) UpdateDueDate(ctx context.Context, id int64, due time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET due_date = ? WHERE id = ?`, due, id)
	if err != nil {
		return fmt.Errorf("task update due: %w", err)
	}
	return nil
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("task update status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var (
		id            int64
		title         string
		status        string
		createdAt     time.Time
		completedAt   sql.NullTime
		dueDate       sql.NullTime
		recurKind     sql.NullString
		recurInterval int
		recurDaysRaw  sql.NullString
		weekOfMonth   sql.NullInt64
		recurEnd      sql.NullString
		endCount      sql.NullInt64
		endDate       sql.NullTime
		completions   int
	)
	if err := row.Scan(&id, &title, &status, &createdAt, &completedAt, &dueDate,
		&recurKind, &recurInterval, &recurDaysRaw, &weekOfMonth,
		&recurEnd, &endCount, &endDate, &completions); err != nil {
		return nil, err
	}

	t := &Task{
		ID:            id,
		Title:         title,
		Status:        status,
		CreatedAt:     createdAt,
		RecurInterval: recurInterval,
		Completions:   completions,
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	if dueDate.Valid {
		v := dueDate.Time
		t.DueDate = &v
	}
	if recurKind.Valid {
		v := recurKind.String
		t.RecurKind = &v
	}
	if recurDaysRaw.Valid && recurDaysRaw.String != "" {
		if err := json.Unmarshal([]byte(recurDaysRaw.String), &t.RecurDays); err != nil {
			return nil, fmt.Errorf("unmarshal recur_days: %w", err)
		}
	}
	if weekOfMonth.Valid {
		v := int(weekOfMonth.Int64)
		t.RecurWeekOfMonth = &v
	}
	if recurEnd.Valid {
		v := recurEnd.String
		t.RecurEnd = &v
	}
	if endCount.Valid {
		v := int(endCount.Int64)
		t.RecurEndCount = &v
	}
	if endDate.Valid {
		v := endDate.Time
		t.RecurEndDate = &v
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("task scan: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task rows: %w", err)
	}
	return out, nil
}
