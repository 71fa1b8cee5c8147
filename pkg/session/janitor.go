package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the janitor every ten minutes.
const DefaultPurgeSchedule = "@every 10m"

// Janitor purges expired sessions on a cron schedule, in addition to the
// purge performed on every save.
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
	logger  *slog.Logger
}

// NewJanitor schedules m.Purge. An empty schedule means DefaultPurgeSchedule.
func NewJanitor(m *Manager, schedule string, logger *slog.Logger) (*Janitor, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	j := &Janitor{
		cron:    cron.New(),
		manager: m,
		logger:  logger,
	}
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return j, nil
}

func (j *Janitor) run() {
	n := j.manager.Purge(context.Background())
	j.logger.Debug("session janitor run", slog.Int64("purged", n))
}

// Start begins the schedule. Signature matches the app start hook.
func (j *Janitor) Start(context.Context) error {
	j.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running purge or ctx to finish.
func (j *Janitor) Stop(ctx context.Context) error {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
