package treatment

import (
	"fmt"
	"strings"
)

// Action is what a treatment did to the target page.
type Action string

const (
	ActionCreated        Action = "created"
	ActionAmended        Action = "amended"
	ActionSkippedExists  Action = "skipped-exists"
	ActionSkippedJanuary Action = "skipped-january"
	ActionSkippedUnknown Action = "skipped-unknown"
)

// Summary table columns.
const (
	ColumnInterval = "interval"
	ColumnPage     = "page"
	ColumnTemplate = "template"
)

// Outcome is the result of treating one task. Interval, Page and Template are the
// (possibly decorated) summary table cells.
type Outcome struct {
	Title    string
	Action   Action
	Interval string
	Page     string
	Template string
}

// Row returns the outcome as a summary table row.
func (o Outcome) Row() map[string]string {
	return map[string]string{
		ColumnInterval: o.Interval,
		ColumnPage:     o.Page,
		ColumnTemplate: o.Template,
	}
}

// Changed reports whether the page was written.
func (o Outcome) Changed() bool {
	return o.Action == ActionCreated || o.Action == ActionAmended
}

func link(title string) string { return fmt.Sprintf("[[%s]]", title) }

func strike(s string) string { return fmt.Sprintf("<s>%s</s>", s) }

func note(s, remark string) string { return fmt.Sprintf("%s ''(%s)''", s, remark) }

func templateLink(template string) string { return fmt.Sprintf("{{tl|%s}}", template) }

// TemplatePlaceholder is replaced by the template name in summary formats.
const TemplatePlaceholder = "{template}"

// Messages holds the edit summaries the treatments save with.
type Messages struct {
	// CreateSummary is used for pages declared on the configuration page.
	CreateSummary string
	// MonthlySummary is used for the fixed monthly pages.
	MonthlySummary string
	// FooterSummary is used when the footer marker is advanced.
	FooterSummary string
}

// DefaultMessages are the nlwiki edit summaries.
func DefaultMessages() Messages {
	return Messages{
		CreateSummary:  "Automatische aanmaak aan de hand van {{[[Sjabloon:{template}|{template}]]}}",
		MonthlySummary: "Automatische aanmaak voor de nieuwe maand aan de hand van {{[[Sjabloon:{template}|{template}]]}}",
		FooterSummary:  "Automatisch een nieuwe maand",
	}
}

func withTemplate(format, template string) string {
	return strings.ReplaceAll(format, TemplatePlaceholder, template)
}
