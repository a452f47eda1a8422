// Package scheduler runs the dashboard's periodic housekeeping on gocron.
package scheduler

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotInitialized = errors.New("scheduler not initialized")
	ErrEmptyJobName   = errors.New("job name is required")
	ErrEmptyCronExpr  = errors.New("cron expression is required")
	ErrNilTask        = errors.New("job task is required")
)

var (
	initOnce sync.Once
	instance *Service
	initErr  error
)

type Service struct {
	cron     gocron.Scheduler
	stopOnce sync.Once
	stopErr  error
}

func logPanic(jobID uuid.UUID, jobName string, recovered any) {
	log.Error().
		Str("job_id", jobID.String()).
		Str("job_name", jobName).
		Interface("panic", recovered).
		Msg("Scheduler job panicked")
}

// Init creates the process-wide scheduler. Only the first call does any work.
func Init() error {
	initOnce.Do(func() {
		cron, err := gocron.NewScheduler(gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(gocron.AfterJobRunsWithPanic(logPanic)),
		))
		if err != nil {
			initErr = err
			return
		}
		instance = &Service{cron: cron}
		log.Info().Msg("Scheduler initialized")
	})
	return initErr
}

func current() (*Service, error) {
	if initErr != nil {
		return nil, initErr
	}
	if instance == nil {
		return nil, ErrNotInitialized
	}
	return instance, nil
}

func Start() error {
	svc, err := current()
	if err != nil {
		return err
	}
	log.Info().Msg("Scheduler starting")
	svc.cron.Start()
	return nil
}

// Stop shuts the scheduler down once; later calls return the first result.
func Stop() error {
	svc, err := current()
	if err != nil {
		return err
	}
	svc.stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		svc.stopErr = svc.cron.Shutdown()
	})
	return svc.stopErr
}

// AddJob schedules task under name on a five-field cron expression. A run
// still going when the next tick arrives makes that tick skip.
func AddJob(name, cronExpr string, task func()) (gocron.Job, error) {
	svc, err := current()
	if err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(name) == "":
		return nil, ErrEmptyJobName
	case strings.TrimSpace(cronExpr) == "":
		return nil, ErrEmptyCronExpr
	case task == nil:
		return nil, ErrNilTask
	}

	logger := log.With().Str("job_name", name).Str("cron", cronExpr).Logger()
	timed := func() {
		started := time.Now()
		task()
		logger.Debug().Dur("duration", time.Since(started)).Msg("Scheduler job finished")
	}

	job, err := svc.cron.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(timed),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to register scheduler job")
		return nil, err
	}
	logger.Info().Msg("Scheduler job registered")
	return job, nil
}
