package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner wraps robfig/cron with a base context so every scheduled job sees
// cancellation when the process shuts down. Each firing runs on its own
// goroutine; jobs that must not overlap themselves guard their own critical
// sections.
type Runner struct {
	cron    *cron.Cron
	log     *zap.Logger
	baseCtx context.Context
}

func New(log *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		log:     log,
		baseCtx: baseCtx,
	}
}

// Add registers a job under a spec (6-field form with seconds, or the @every
// shorthand).
func (r *Runner) Add(spec string, job func(ctx context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		if r.baseCtx.Err() != nil {
			return
		}
		job(r.baseCtx)
	})
}

func (r *Runner) Start() {
	r.cron.Start()
	if r.log != nil {
		r.log.Info("cron runner started", zap.Int("jobs", len(r.cron.Entries())))
	}
}

// Stop halts scheduling and waits for running jobs to return.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
