package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"suitadmin/internal/config"
)

// Job IDs.
const (
	JobPruneSessions       = "prune-sessions"
	JobPruneAttendanceLogs = "prune-attendance-logs"
)

// SessionPruner deletes sessions that have expired by now.
type SessionPruner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LogPruner deletes attendance log rows older than cutoff.
type LogPruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneSessions returns a task deleting expired sessions.
func PruneSessions(sessions SessionPruner, now func() time.Time) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := sessions.DeleteExpired(ctx, now())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int64("count", n).Msg("Pruned expired sessions")
		}
		return nil
	}
}

// PruneAttendanceLogs returns a task deleting log rows older than retention.
func PruneAttendanceLogs(logs LogPruner, retention time.Duration, now func() time.Time) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := logs.DeleteBefore(ctx, now().Add(-retention))
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int64("count", n).Dur("retention", retention).Msg("Pruned attendance logs")
		}
		return nil
	}
}

// Housekeeping builds the periodic jobs for cfg. Log pruning is left out
// when retention is zero.
func Housekeeping(cfg config.SchedulerConfig, sessions SessionPruner, logs LogPruner) []*Job {
	list := []*Job{{
		ID:       JobPruneSessions,
		Interval: cfg.SessionCleanupInterval,
		Task:     PruneSessions(sessions, time.Now),
	}}
	if cfg.LogRetention > 0 {
		list = append(list, &Job{
			ID:       JobPruneAttendanceLogs,
			Interval: cfg.LogCleanupInterval,
			Task:     PruneAttendanceLogs(logs, cfg.LogRetention, time.Now),
		})
	}
	return list
}
