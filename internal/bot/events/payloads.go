package events

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// OutcomeEvent is emitted for every outcome and every failed task of a run.
type OutcomeEvent struct {
	RunID          string `json:"run_id"`
	Position       int    `json:"position"`
	Title          string `json:"title"`
	Interval       string `json:"interval,omitempty"`
	Page           string `json:"page,omitempty"`
	Template       string `json:"template,omitempty"`
	Action         string `json:"action,omitempty"`
	Error          string `json:"error,omitempty"`
	ProcessingDate string `json:"processing_date"` // YYYY-MM-DD
}

// Struct converts the event into a google.protobuf.Struct.
func (e OutcomeEvent) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"run_id":          e.RunID,
		"position":        e.Position,
		"title":           e.Title,
		"interval":        e.Interval,
		"page":            e.Page,
		"template":        e.Template,
		"action":          e.Action,
		"error":           e.Error,
		"processing_date": e.ProcessingDate,
	})
}
