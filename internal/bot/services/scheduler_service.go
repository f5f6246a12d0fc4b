package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-co-op/gocron/v2"
)

const runJobName = "herhaalbot_run"

// Runner performs a bot run.
type Runner interface {
	Run(ctx context.Context, opts RunOptions) (*RunReport, error)
}

// SchedulerService triggers the daily run. The run itself decides whether it is the
// last day of the month.
type SchedulerService struct {
	Scheduler  gocron.Scheduler
	Runner     Runner
	CronExpr   string
	appContext context.Context
}

func NewSchedulerService(ctx context.Context, runner Runner, cronExpr string, loc *time.Location) (*SchedulerService, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &SchedulerService{Scheduler: s, Runner: runner, CronExpr: cronExpr, appContext: ctx}, nil
}

// Start schedules the run job and starts the scheduler.
func (s *SchedulerService) Start() error {
	hlog.Infof("SchedulerService starting...")
	job, err := s.Scheduler.NewJob(
		gocron.CronJob(s.CronExpr, false),
		gocron.NewTask(s.executeScheduledRun),
		gocron.WithName(runJobName),
		gocron.WithTags("run"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling run with cron %q: %w", s.CronExpr, err)
	}
	s.Scheduler.Start()

	if next, err := job.NextRun(); err != nil {
		hlog.Warnf("Scheduled run with cron '%s', next run unknown: %v", s.CronExpr, err)
	} else {
		hlog.Infof("Scheduled run with cron '%s', next run: %s", s.CronExpr, next.Format(time.RFC3339))
	}
	return nil
}

func (s *SchedulerService) Stop() {
	hlog.Infof("SchedulerService stopping...")
	if err := s.Scheduler.Shutdown(); err != nil {
		hlog.Errorf("Error shutting down gocron scheduler: %v", err)
	} else {
		hlog.Infof("Gocron scheduler shut down successfully.")
	}
}

// Jobs returns the scheduled jobs.
func (s *SchedulerService) Jobs() []gocron.Job {
	return s.Scheduler.Jobs()
}

func (s *SchedulerService) executeScheduledRun() {
	hlog.Infof("Cron job triggered run")
	report, err := s.Runner.Run(s.appContext, RunOptions{})
	if err != nil {
		hlog.Errorf("Scheduled run failed: %v", err)
		return
	}
	if report.Gated {
		return
	}
	hlog.Infof("Scheduled run %s finished with %d outcomes and %d failures", report.ID, len(report.Outcomes), len(report.Failures))
}
