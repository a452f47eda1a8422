package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SessionCleanupJob = "session_cleanup"
	DialogCleanupJob  = "dialog_cleanup"

	cleanupTimeout = time.Minute
)

// CleanupJobs describes the housekeeping the dashboard runs on a schedule.
type CleanupJobs struct {
	SessionCron string
	DialogCron  string
	// PruneSessions deletes expired login sessions and reports how many went.
	PruneSessions func(ctx context.Context) (int64, error)
	// PruneDialogs drops abandoned reservation dialogs.
	PruneDialogs func() int
}

// RegisterCleanupJobs adds the session and dialog cleanup jobs to the
// singleton scheduler.
func RegisterCleanupJobs(jobs CleanupJobs) error {
	if jobs.PruneSessions == nil || jobs.PruneDialogs == nil {
		return fmt.Errorf("cleanup jobs require session and dialog pruners")
	}
	if _, err := AddJob(SessionCleanupJob, jobs.SessionCron, sessionCleanupTask(jobs.PruneSessions)); err != nil {
		return fmt.Errorf("register %s: %w", SessionCleanupJob, err)
	}
	if _, err := AddJob(DialogCleanupJob, jobs.DialogCron, dialogCleanupTask(jobs.PruneDialogs)); err != nil {
		return fmt.Errorf("register %s: %w", DialogCleanupJob, err)
	}
	return nil
}

func sessionCleanupTask(prune func(ctx context.Context) (int64, error)) func() {
	logger := log.With().Str("component", "session_cleanup_job").Logger()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		ctx = logger.WithContext(ctx)

		removed, err := prune(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to prune expired sessions")
			return
		}
		logRemoved(&logger, removed, "Expired sessions pruned")
	}
}

func dialogCleanupTask(prune func() int) func() {
	logger := log.With().Str("component", "dialog_cleanup_job").Logger()
	return func() {
		logRemoved(&logger, int64(prune()), "Abandoned reservation dialogs pruned")
	}
}

func logRemoved(logger *zerolog.Logger, removed int64, msg string) {
	event := logger.Debug()
	if removed > 0 {
		event = logger.Info()
	}
	event.Int64("removed", removed).Msg(msg)
}
