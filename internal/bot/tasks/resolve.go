package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"herhaalbot/internal/bot/pages"
	"herhaalbot/internal/wiki"
	"herhaalbot/pkg/validation"
)

const declarationSchema = `{
	"type": "object",
	"properties": {
		"interval": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1},
		"template": {"type": "string", "minLength": 1}
	},
	"required": ["interval", "title", "template"]
}`

var rowSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	sch, err := validation.CompileSchema("declaration.json", declarationSchema)
	if err != nil {
		panic(err)
	}
	return sch
}

// Expander evaluates a title expression on the wiki.
type Expander interface {
	ExpandText(ctx context.Context, text string) (string, error)
}

// Result is the outcome of resolving one declaration: either Task or Err is set.
type Result struct {
	Line int
	Task *pages.Task
	Err  error
}

// Resolve turns declarations into tasks. Each row is resolved independently; a failing
// row yields a Result carrying a *RowError and later rows are still resolved.
func Resolve(ctx context.Context, expander Expander, decls []Declaration) []Result {
	results := make([]Result, 0, len(decls))
	for _, d := range decls {
		task, err := resolveOne(ctx, expander, d)
		if err != nil {
			results = append(results, Result{Line: d.Line, Err: &RowError{Line: d.Line, Err: err}})
			continue
		}
		results = append(results, Result{Line: d.Line, Task: task})
	}
	return results
}

func resolveOne(ctx context.Context, expander Expander, d Declaration) (*pages.Task, error) {
	if !d.Complete() {
		return nil, ErrIncompleteRow
	}
	if err := validation.Validate(rowSchema, d.Document()); err != nil {
		return nil, err
	}
	template, err := ExtractTemplateName(d.Template)
	if err != nil {
		return nil, err
	}
	title, err := expander.ExpandText(ctx, d.TitleExpr)
	if err != nil {
		return nil, fmt.Errorf("expanding title: %w", err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title %q expanded to an empty string", d.TitleExpr)
	}
	task := pages.FromTemplate(title, template, d.Interval)
	return &task, nil
}

// Load fetches the configuration page and resolves its task table. Failing to read the
// page is returned as an error; row failures are part of the results.
func Load(ctx context.Context, site wiki.Site, configTitle string) ([]Result, error) {
	page, err := site.Page(ctx, configTitle)
	if err != nil {
		return nil, fmt.Errorf("reading task configuration: %w", err)
	}
	if !page.Exists {
		return nil, fmt.Errorf("task configuration page %q does not exist", configTitle)
	}
	decls := ParseTable(page.Text)
	hlog.CtxInfof(ctx, "Found %d task declarations on %q", len(decls), configTitle)
	return Resolve(ctx, site, decls), nil
}
