package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"herhaalbot/internal/bot/config"
	"herhaalbot/internal/bot/events"
	"herhaalbot/internal/bot/pages"
	"herhaalbot/internal/bot/tasks"
	"herhaalbot/internal/bot/treatment"
	"herhaalbot/internal/wiki"
	"herhaalbot/pkg/wikitable"
)

// Stages at which a task can fail.
const (
	StageParse = "parse"
	StageFetch = "fetch"
	StageTreat = "treat"
)

// Failure is a task that produced no outcome because of an error.
type Failure struct {
	Title string
	Line  int // task table line, parse failures only
	Stage string
	Err   error
}

// RunReport describes a finished run.
type RunReport struct {
	ID             string
	Now            time.Time
	ProcessingDate time.Time
	Gated          bool
	Forced         bool
	Outcomes       []treatment.Outcome
	Failures       []Failure
	SummaryText    string
}

// Events returns one event per outcome followed by one per failure.
func (r *RunReport) Events() []events.OutcomeEvent {
	date := r.ProcessingDate.Format("2006-01-02")
	evts := make([]events.OutcomeEvent, 0, len(r.Outcomes)+len(r.Failures))
	for _, o := range r.Outcomes {
		evts = append(evts, events.OutcomeEvent{
			RunID:          r.ID,
			Position:       len(evts),
			Title:          o.Title,
			Interval:       o.Interval,
			Page:           o.Page,
			Template:       o.Template,
			Action:         string(o.Action),
			ProcessingDate: date,
		})
	}
	for _, f := range r.Failures {
		title := f.Title
		if title == "" {
			title = fmt.Sprintf("line %d", f.Line)
		}
		evts = append(evts, events.OutcomeEvent{
			RunID:          r.ID,
			Position:       len(evts),
			Title:          title,
			Error:          f.Err.Error(),
			ProcessingDate: date,
		})
	}
	return evts
}

// RunOptions change a single run.
type RunOptions struct {
	// Force skips the last-day-of-month check.
	Force bool
}

// HistoryRecorder stores finished runs.
type HistoryRecorder interface {
	Record(ctx context.Context, report *RunReport) error
}

// EventPublisher emits outcome events.
type EventPublisher interface {
	Publish(ctx context.Context, evts []events.OutcomeEvent) error
}

// RunService performs bot runs. Runs are serialized.
type RunService struct {
	Site     wiki.Site
	Config   *config.Config
	Registry *treatment.Registry
	Clock    func() time.Time

	// Optional.
	History HistoryRecorder
	Events  EventPublisher

	mu sync.Mutex
}

func NewRunService(site wiki.Site, cfg *config.Config) *RunService {
	return &RunService{
		Site:     site,
		Config:   cfg,
		Registry: treatment.NewRegistry(cfg.Messages()),
		Clock:    time.Now,
	}
}

// Run executes one run. Only a failure to read the task configuration page or to publish
// the summary is returned as an error; failing tasks are part of the report.
func (s *RunService) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Clock().In(s.Config.Location())
	report := &RunReport{
		ID:             uuid.NewString(),
		Now:            now,
		ProcessingDate: pages.ProcessingDate(now),
		Forced:         opts.Force,
	}
	hlog.CtxInfof(ctx, "Run %s started at %s, processing date %s", report.ID, now.Format(time.RFC3339), report.ProcessingDate.Format("2006-01-02"))

	if !pages.IsLastDayOfMonth(now) {
		if !opts.Force {
			hlog.CtxInfof(ctx, "Not the last day of the month, nothing to do")
			report.Gated = true
			return report, nil
		}
		hlog.CtxWarnf(ctx, "Not the last day of the month, running anyway (forced)")
	}

	list, failures, err := s.TaskList(ctx, report.ProcessingDate)
	if err != nil {
		return nil, err
	}
	report.Failures = failures

	for _, task := range list {
		out, stage, err := s.process(ctx, task, report.ProcessingDate)
		if err != nil {
			hlog.CtxErrorf(ctx, "Task %q failed at %s: %T: %v", task.Title, stage, err, err)
			report.Failures = append(report.Failures, Failure{Title: task.Title, Stage: stage, Err: err})
			continue
		}
		if out != nil {
			report.Outcomes = append(report.Outcomes, *out)
		}
	}

	report.SummaryText = s.Render(report.Outcomes)
	if err := s.Site.Save(ctx, s.Config.Pages.Summary, report.SummaryText, s.Config.Summary.Caption); err != nil {
		return nil, fmt.Errorf("publishing summary to %q: %w", s.Config.Pages.Summary, err)
	}
	hlog.CtxInfof(ctx, "Run %s done: %d outcomes, %d failures", report.ID, len(report.Outcomes), len(report.Failures))

	s.afterPublish(ctx, report)
	return report, nil
}

// TaskList builds the ordered task list for date. Rows of the task table that fail to
// resolve are returned as failures.
func (s *RunService) TaskList(ctx context.Context, date time.Time) ([]pages.Task, []Failure, error) {
	results, err := tasks.Load(ctx, s.Site, s.Config.Pages.Tasks)
	if err != nil {
		return nil, nil, err
	}

	var configured []pages.Task
	var failures []Failure
	for _, res := range results {
		if res.Err != nil {
			hlog.CtxWarnf(ctx, "Ignoring task table row at line %d: %v", res.Line, res.Err)
			failures = append(failures, Failure{Line: res.Line, Stage: StageParse, Err: res.Err})
			continue
		}
		configured = append(configured, *res.Task)
	}

	fixed := s.fixedTasks(date)
	if s.Config.TaskOrder == config.OrderFixedFirst {
		return append(fixed, configured...), failures, nil
	}
	return append(configured, fixed...), failures, nil
}

func (s *RunService) fixedTasks(date time.Time) []pages.Task {
	cfg := s.Config
	list := make([]pages.Task, 0, len(cfg.FixedTasks))
	for _, name := range cfg.FixedTasks {
		switch name {
		case config.FixedDeceased:
			list = append(list, pages.DeceasedThisMonth(cfg.Pages.DeceasedPrefix, cfg.Templates.Deceased, date))
		case config.FixedMergeDiscussion:
			list = append(list, pages.MergeDiscussionNewMonth(cfg.Pages.MergeDiscussionPrefix, cfg.Templates.MergeDiscussion, date))
		case config.FixedMonthIndex:
			list = append(list, pages.ThisMonthIndex(cfg.Templates.MonthIndex, date))
		case config.FixedMergeFooter:
			list = append(list, pages.MergeFooter(cfg.Pages.MergeFooter, cfg.Templates.FooterDescription))
		}
	}
	return list
}

func (s *RunService) process(ctx context.Context, task pages.Task, date time.Time) (out *treatment.Outcome, stage string, err error) {
	stage = StageFetch
	defer func() {
		if r := recover(); r != nil {
			hlog.CtxErrorf(ctx, "Panic while handling %q: %v\n%s", task.Title, r, debug.Stack())
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	page, err := s.Site.Page(ctx, task.Title)
	if err != nil {
		return nil, stage, err
	}
	stage = StageTreat
	out, err = s.Registry.Treat(ctx, task, page, date, s.Site)
	return out, stage, err
}

// Render returns the summary table for outcomes.
func (s *RunService) Render(outcomes []treatment.Outcome) string {
	header := []wikitable.Column{
		{Key: treatment.ColumnInterval, Label: s.Config.Summary.IntervalHeader},
		{Key: treatment.ColumnPage, Label: s.Config.Summary.PageHeader},
		{Key: treatment.ColumnTemplate, Label: s.Config.Summary.TemplateHeader},
	}
	rows := make([]map[string]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, o.Row())
	}
	return wikitable.New(header, rows, s.Config.Summary.Caption).Wikitext()
}

func (s *RunService) afterPublish(ctx context.Context, report *RunReport) {
	if s.History != nil {
		if err := s.History.Record(ctx, report); err != nil {
			hlog.CtxErrorf(ctx, "Failed to record run %s: %v", report.ID, err)
		}
	}
	if s.Events != nil {
		if err := s.Events.Publish(ctx, report.Events()); err != nil {
			hlog.CtxErrorf(ctx, "Failed to publish events for run %s: %v", report.ID, err)
		}
	}
}
