package db

import (
	"time"

	"gorm.io/gorm"
)

// StatusCompleted marks a run whose summary was published.
const StatusCompleted = "COMPLETED"

// Run is one bot run as recorded after the summary was published.
type Run struct {
	gorm.Model
	RunID          string    `json:"run_id" gorm:"uniqueIndex;size:36"`
	StartedAt      time.Time `json:"started_at" gorm:"index"`
	ProcessingDate time.Time `json:"processing_date"`
	Status         string    `json:"status" gorm:"index"`
	Forced         bool      `json:"forced"`
	SummaryPage    string    `json:"summary_page"`
	OutcomeCount   int       `json:"outcome_count"`
	FailureCount   int       `json:"failure_count"`
	Outcomes       []Outcome `json:"outcomes,omitempty"`
}

// Outcome is one row of a run: a treated page or a failed task.
type Outcome struct {
	gorm.Model
	RunID    uint   `json:"run_id" gorm:"index"` // Foreign key to Run
	Position int    `json:"position"`
	Title    string `json:"title" gorm:"index"`
	Interval string `json:"interval"`
	Page     string `json:"page"`
	Template string `json:"template"`
	Action   string `json:"action"`
	Stage    string `json:"stage,omitempty"`
	Error    string `json:"error,omitempty"`
}
