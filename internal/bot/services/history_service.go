package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"

	botdb "herhaalbot/internal/bot/db"
)

var ErrRunNotFound = errors.New("run not found")

// HistoryService stores run reports with gorm.
type HistoryService struct {
	DB          *gorm.DB
	SummaryPage string
}

func NewHistoryService(gormDB *gorm.DB, summaryPage string) *HistoryService {
	return &HistoryService{DB: gormDB, SummaryPage: summaryPage}
}

// Record stores a published report and its outcomes in one transaction.
func (s *HistoryService) Record(ctx context.Context, report *RunReport) error {
	run := botdb.Run{
		RunID:          report.ID,
		StartedAt:      report.Now,
		ProcessingDate: report.ProcessingDate,
		Status:         botdb.StatusCompleted,
		Forced:         report.Forced,
		SummaryPage:    s.SummaryPage,
		OutcomeCount:   len(report.Outcomes),
		FailureCount:   len(report.Failures),
	}

	for i, o := range report.Outcomes {
		run.Outcomes = append(run.Outcomes, botdb.Outcome{
			Position: i,
			Title:    o.Title,
			Interval: o.Interval,
			Page:     o.Page,
			Template: o.Template,
			Action:   string(o.Action),
		})
	}
	for _, f := range report.Failures {
		run.Outcomes = append(run.Outcomes, botdb.Outcome{
			Position: len(run.Outcomes),
			Title:    f.Title,
			Stage:    f.Stage,
			Error:    f.Err.Error(),
		})
	}

	if err := s.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", report.ID, err)
	}
	hlog.CtxInfof(ctx, "Recorded run %s (%s) with %d rows", report.ID, run.Status, len(run.Outcomes))
	return nil
}

// ListRuns returns the most recent runs first, without outcomes.
func (s *HistoryService) ListRuns(ctx context.Context, limit int) ([]botdb.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []botdb.Run
	if err := s.DB.WithContext(ctx).Order("started_at desc").Order("id desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a run with its outcomes in order.
func (s *HistoryService) GetRun(ctx context.Context, runID string) (*botdb.Run, error) {
	var run botdb.Run
	err := s.DB.WithContext(ctx).
		Preload("Outcomes", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("run_id = ?", runID).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
	}
	return &run, nil
}
