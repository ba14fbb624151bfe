package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"flowfocus/internal/storage"
)

type Service struct {
	db           *sql.DB
	stats        *storage.StatsRepo
	tasks        *storage.TaskRepo
	achievements *storage.AchievementRepo
	activities   *storage.ActivityRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:           db,
		stats:        storage.NewStatsRepo(db),
		tasks:        storage.NewTaskRepo(db),
		achievements: storage.NewAchievementRepo(db),
		activities:   storage.NewActivityRepo(db),
	}
}

func (s *Service) StatsRepo() *storage.StatsRepo             { return s.stats }
func (s *Service) TaskRepo() *storage.TaskRepo               { return s.tasks }
func (s *Service) AchievementRepo() *storage.AchievementRepo { return s.achievements }
func (s *Service) ActivityRepo() *storage.ActivityRepo       { return s.activities }

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}

type ActivityResult struct {
	Kind        ActivityKind
	XPAwarded   int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	Unlocked    []Unlock
	Stats       storage.UserStats
}

// RecordActivity applies one activity event and persists the outcome in a
// single transaction: updated counters, unlock rows, and an audit record.
// Unknown kinds leave everything untouched and return an empty result.
func (s *Service) RecordActivity(ctx context.Context, kind ActivityKind, amount int) (*ActivityResult, error) {
	var res *ActivityResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		r, err := s.applyActivity(ctx, tx, kind, amount)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// applyActivity runs the progression update against the given handle so the
// caller can bundle it with other writes in one transaction.
func (s *Service) applyActivity(ctx context.Context, db storage.DBTX, kind ActivityKind, amount int) (*ActivityResult, error) {
	statsRepo := storage.NewStatsRepo(db)
	current, err := statsRepo.GetOrCreateMain(ctx)
	if err != nil {
		return nil, err
	}

	if !kind.IsValid() {
		return &ActivityResult{
			Kind:        kind,
			LevelBefore: LevelForXP(current.XP),
			LevelAfter:  LevelForXP(current.XP),
			Stats:       *current,
		}, nil
	}

	achRepo := storage.NewAchievementRepo(db)
	earned, err := achRepo.ListEarnedKeys(ctx, current.Key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	levelBefore := LevelForXP(current.XP)
	updated, unlocks := TrackActivity(*current, earned, kind, amount, now)

	if err := statsRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	for _, u := range unlocks {
		if _, err := achRepo.Insert(ctx, storage.UserAchievement{
			UserKey:        updated.Key,
			AchievementKey: u.Key,
			UnlockedAt:     u.UnlockedAt,
			IsCompleted:    true,
		}); err != nil {
			return nil, err
		}
	}
	if _, err := storage.NewActivityRepo(db).Insert(ctx, string(kind), amount, kind.XPReward(), now); err != nil {
		return nil, err
	}

	return &ActivityResult{
		Kind:        kind,
		XPAwarded:   kind.XPReward(),
		LevelBefore: levelBefore,
		LevelAfter:  updated.Level,
		LevelUp:     updated.Level > levelBefore,
		Unlocked:    unlocks,
		Stats:       updated,
	}, nil
}

type CreateTaskInput struct {
	Title   string
	Repeat  *RecurringPattern
	DueDate *time.Time
}

type CreateResult struct {
	TaskID  int64
	DueDate *time.Time
}

// CreateTask inserts a task. With a recurrence and no explicit due date, the
// first occurrence is computed from now.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*CreateResult, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	due := in.DueDate
	if due == nil && in.Repeat != nil && in.Repeat.Kind != RecurCustom {
		d := NextDueDate(in.Repeat, time.Now().UTC())
		due = &d
	}

	insert := storage.TaskInsert{
		Title:   title,
		Status:  "pending",
		DueDate: due,
	}
	applyPattern(&insert, in.Repeat)

	id, err := s.tasks.Insert(ctx, insert)
	if err != nil {
		return nil, err
	}
	return &CreateResult{TaskID: id, DueDate: due}, nil
}

type CompleteResult struct {
	TaskID      int64
	XPAwarded   int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	Unlocked    []Unlock
	NextDue     *time.Time
	Ended       bool // recurrence reached its end condition
}

// CompleteTask finishes one occurrence. A recurring task is rescheduled to its
// next due date unless the pattern's end condition is now met; a plain task is
// marked done. The task mutation and the task_completed activity commit in the
// same transaction, so a completion is never counted without its XP and audit
// row.
func (s *Service) CompleteTask(ctx context.Context, id int64) (*CompleteResult, error) {
	var out *CompleteResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)

		task, err := tasks.Get(ctx, id)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("task %d not found", id)
		}
		if task.Status == "done" {
			return fmt.Errorf("task %d is already done", id)
		}

		now := time.Now().UTC()
		pattern := PatternFromTask(task)
		completions := task.Completions + 1

		var nextDue *time.Time
		ended := false

		switch {
		case pattern == nil:
			if err := tasks.MarkDone(ctx, id, now); err != nil {
				return err
			}
		case pattern.End == EndAfter && completions >= pattern.EndCount:
			if err := tasks.MarkDone(ctx, id, now); err != nil {
				return err
			}
			ended = true
		case pattern.Kind == RecurCustom:
			// Custom patterns do not advance automatically; the due date stays put.
			if err := tasks.Reschedule(ctx, id, task.DueDate, now); err != nil {
				return err
			}
		default:
			from := now
			if task.DueDate != nil {
				from = *task.DueDate
			}
			next := NextDueDate(pattern, from)
			if pattern.End == EndOn && pattern.EndDate != nil && next.After(*pattern.EndDate) {
				if err := tasks.MarkDone(ctx, id, now); err != nil {
					return err
				}
				ended = true
			} else {
				if err := tasks.Reschedule(ctx, id, &next, now); err != nil {
					return err
				}
				nextDue = &next
			}
		}

		res, err := s.applyActivity(ctx, tx, ActivityTaskCompleted, 1)
		if err != nil {
			return err
		}

		out = &CompleteResult{
			TaskID:      id,
			XPAwarded:   res.XPAwarded,
			LevelBefore: res.LevelBefore,
			LevelAfter:  res.LevelAfter,
			LevelUp:     res.LevelUp,
			Unlocked:    res.Unlocked,
			NextDue:     nextDue,
			Ended:       ended,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PatternFromTask rebuilds the recurrence pattern from flattened task columns.
// Returns nil for non-recurring tasks or an unrecognized stored kind.
func PatternFromTask(t *storage.Task) *RecurringPattern {
	if t == nil || t.RecurKind == nil {
		return nil
	}
	kind := RecurKind(strings.TrimSpace(strings.ToLower(*t.RecurKind)))
	if !kind.IsValid() {
		return nil
	}

	p := &RecurringPattern{Kind: kind, Interval: t.RecurInterval}
	if p.Interval < 1 {
		p.Interval = 1
	}
	for _, d := range t.RecurDays {
		if d >= 0 && d <= 6 {
			p.DaysOfWeek = append(p.DaysOfWeek, time.Weekday(d))
		}
	}
	if t.RecurWeekOfMonth != nil {
		p.WeekOfMonth = *t.RecurWeekOfMonth
	}
	if t.RecurEnd != nil {
		p.End = EndKind(*t.RecurEnd)
		if t.RecurEndCount != nil {
			p.EndCount = *t.RecurEndCount
		}
		p.EndDate = t.RecurEndDate
	}
	return p
}

func applyPattern(in *storage.TaskInsert, p *RecurringPattern) {
	if p == nil {
		return
	}
	kind := string(p.Kind)
	in.RecurKind = &kind
	in.RecurInterval = p.Interval
	for _, d := range p.DaysOfWeek {
		in.RecurDays = append(in.RecurDays, int(d))
	}
	if p.WeekOfMonth != 0 {
		w := p.WeekOfMonth
		in.RecurWeekOfMonth = &w
	}
	if p.End != "" {
		end := string(p.End)
		in.RecurEnd = &end
		if p.EndCount > 0 {
			c := p.EndCount
			in.RecurEndCount = &c
		}
		in.RecurEndDate = p.EndDate
	}
}
