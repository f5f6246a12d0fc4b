// Package treatment decides, per task, whether the target page is created, amended or
// left alone, performs the edit and reports the outcome.
package treatment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"herhaalbot/internal/bot/pages"
	"herhaalbot/internal/wiki"
)

// Editor writes pages. Writes are bot-flagged and fail on conflicts with other editors
// (wiki.ErrPageExists, wiki.ErrEditConflict).
type Editor interface {
	Create(ctx context.Context, title, text, summary string) error
	Update(ctx context.Context, base wiki.Page, text, summary string) error
}

// Treater handles one task kind. A nil outcome with a nil error means there was
// nothing to report.
type Treater interface {
	Treat(ctx context.Context, task pages.Task, page wiki.Page, date time.Time, editor Editor) (*Outcome, error)
}

// IntervalGated creates configuration page tasks, honouring their interval.
type IntervalGated struct {
	Messages Messages
}

func (g *IntervalGated) Treat(ctx context.Context, task pages.Task, page wiki.Page, date time.Time, editor Editor) (*Outcome, error) {
	out := &Outcome{
		Title:    task.Title,
		Interval: task.Interval,
		Page:     link(task.Title),
		Template: templateLink(task.Template),
	}

	switch {
	case task.IsYearly() && date.Month() != time.January:
		hlog.CtxInfof(ctx, "Skipped %q: yearly task and it is not January", task.Title)
		out.Action = ActionSkippedJanuary
		out.Interval = strike(task.Interval)
		out.Page = note(strike(link(task.Title)), "alleen januari")
	case page.Exists:
		hlog.CtxInfof(ctx, "Skipped %q: page already exists", task.Title)
		out.Action = ActionSkippedExists
		out.Page = note(strike(link(task.Title)), "bestond al")
	case task.IsMonthly():
		if err := editor.Create(ctx, task.Title, task.Body, withTemplate(g.Messages.CreateSummary, task.Template)); err != nil {
			return nil, err
		}
		hlog.CtxInfof(ctx, "Created %q from template %q", task.Title, task.Template)
		out.Action = ActionCreated
	default:
		hlog.CtxWarnf(ctx, "Skipped %q: unrecognized interval %q", task.Title, task.Interval)
		out.Action = ActionSkippedUnknown
		out.Interval = note(strike(task.Interval), "onbekend")
		out.Page = strike(link(task.Title))
	}
	return out, nil
}

// Generic creates a page when it is missing. Used for the fixed monthly pages.
type Generic struct {
	Messages Messages
}

func (g *Generic) Treat(ctx context.Context, task pages.Task, page wiki.Page, date time.Time, editor Editor) (*Outcome, error) {
	out := &Outcome{
		Title:    task.Title,
		Interval: task.Interval,
		Page:     link(task.Title),
		Template: templateLink(task.Template),
	}
	if page.Exists {
		hlog.CtxInfof(ctx, "Skipped %q: page already exists", task.Title)
		out.Action = ActionSkippedExists
		out.Page = note(strike(link(task.Title)), "bestond al")
		return out, nil
	}
	if err := editor.Create(ctx, task.Title, task.Body, withTemplate(g.Messages.MonthlySummary, task.Template)); err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "Created %q from template %q", task.Title, task.Template)
	out.Action = ActionCreated
	return out, nil
}

// FooterAdvance inserts the section of the processing month before the footer
// marker and points the marker at the next month.
type FooterAdvance struct {
	Messages Messages
}

// AdvanceFooter rewrites {{/footer|YYYYMM}} for the month of date. It returns text
// unchanged when the marker is absent.
func AdvanceFooter(text string, date time.Time) string {
	current := pages.MonthToken(date)
	next := pages.MonthToken(pages.NextMonth(date))
	marker := fmt.Sprintf("{{/footer|%s}}", current)
	return strings.ReplaceAll(text, marker, fmt.Sprintf("{{/%s}}\n{{/footer|%s}}", current, next))
}

func (f *FooterAdvance) Treat(ctx context.Context, task pages.Task, page wiki.Page, date time.Time, editor Editor) (*Outcome, error) {
	if !page.Exists {
		hlog.CtxWarnf(ctx, "Could not amend %q, page missing", task.Title)
		return nil, nil
	}
	text := AdvanceFooter(page.Text, date)
	if text == page.Text {
		hlog.CtxInfof(ctx, "No changes in %q, not saved", task.Title)
		return nil, nil
	}
	if err := editor.Update(ctx, page, text, f.Messages.FooterSummary); err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "Advanced footer of %q to %s", task.Title, pages.MonthToken(pages.NextMonth(date)))
	return &Outcome{
		Title:    task.Title,
		Action:   ActionAmended,
		Interval: pages.Monthly,
		Page:     link(task.Title),
		Template: task.Template,
	}, nil
}
