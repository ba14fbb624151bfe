// Package jobs runs background maintenance for recurring schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"flowfocus/internal/engine"
)

// maxCatchUp bounds how many occurrences a single task is advanced in one
// pass, so a pattern with a tiny interval cannot loop unbounded.
const maxCatchUp = 1000

// Rollover periodically advances recurring tasks whose due date passed without
// a completion, so lists and the dashboard always show the current occurrence.
type Rollover struct {
	cron *cron.Cron
	svc  *engine.Service
	spec string
}

func NewRollover(svc *engine.Service, spec string, loc *time.Location) *Rollover {
	if loc == nil {
		loc = time.Local
	}
	return &Rollover{
		cron: cron.New(cron.WithLocation(loc)),
		svc:  svc,
		spec: spec,
	}
}

// Start registers the schedule and begins running in the background.
func (r *Rollover) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		n, err := r.RunOnce(ctx)
		if err != nil {
			log.WithError(err).Error("rollover pass failed")
			return
		}
		if n > 0 {
			log.WithField("tasks", n).Info("rolled over missed occurrences")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule rollover (%q): %w", r.spec, err)
	}
	r.cron.Start()
	log.WithField("cron", r.spec).Info("rollover scheduler started")
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Rollover) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce advances every overdue recurring task to its first occurrence at or
// after now and returns how many tasks moved. Tasks whose end date has passed
// are marked expired instead.
func (r *Rollover) RunOnce(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	overdue, err := r.svc.TaskRepo().ListOpenDueBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	moved := 0
	for i := range overdue {
		t := &overdue[i]
		p := engine.PatternFromTask(t)
		if p == nil || p.Kind == engine.RecurCustom || t.DueDate == nil {
			// Overdue one-off tasks just stay overdue.
			continue
		}

		due := *t.DueDate
		steps := 0
		for due.Before(now) && steps < maxCatchUp {
			due = engine.NextDueDate(p, due)
			steps++
		}

		if p.End == engine.EndOn && p.EndDate != nil && due.After(*p.EndDate) {
			if err := r.svc.TaskRepo().UpdateStatus(ctx, t.ID, "expired"); err != nil {
				return moved, err
			}
			log.WithField("task", t.ID).Debug("recurring task expired")
			moved++
			continue
		}

		if err := r.svc.TaskRepo().UpdateDueDate(ctx, t.ID, due); err != nil {
			return moved, err
		}
		log.WithFields(log.Fields{"task": t.ID, "due": due.Format(time.RFC3339), "skipped": steps - 1}).
			Debug("recurring task rolled forward")
		moved++
	}
	return moved, nil
}
