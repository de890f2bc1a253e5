// Package jobs runs periodic background work for the API server.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Saver persists the current system state.
type Saver interface {
	Save(ctx context.Context) error
}

// Autosave saves the system snapshot on a cron schedule (with seconds field).
type Autosave struct {
	cron     *cron.Cron
	saver    Saver
	schedule string
	timeout  time.Duration
	log      zerolog.Logger
}

func NewAutosave(saver Saver, schedule string, log zerolog.Logger) *Autosave {
	return &Autosave{
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		saver:    saver,
		schedule: schedule,
		timeout:  30 * time.Second,
		log:      log.With().Str("job", "autosave").Logger(),
	}
}

func (a *Autosave) Start() error {
	if _, err := a.cron.AddFunc(a.schedule, a.save); err != nil {
		return err
	}
	a.cron.Start()
	a.log.Info().Str("schedule", a.schedule).Msg("autosave scheduled")
	return nil
}

// Stop halts the schedule and waits for a running save to finish or ctx to expire.
func (a *Autosave) Stop(ctx context.Context) {
	done := a.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		a.log.Warn().Msg("autosave still running at shutdown")
	}
}

func (a *Autosave) save() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	start := time.Now()
	if err := a.saver.Save(ctx); err != nil {
		a.log.Error().Err(err).Msg("autosave failed")
		return
	}
	a.log.Debug().Dur("took", time.Since(start)).Msg("autosave done")
}
