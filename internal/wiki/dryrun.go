package wiki

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// DryRun reads through to the wrapped site and logs writes instead of performing them.
type DryRun struct {
	Site
}

func NewDryRun(site Site) *DryRun {
	return &DryRun{Site: site}
}

func (d *DryRun) Create(ctx context.Context, title, text, summary string) error {
	return d.Save(ctx, title, text, summary)
}

func (d *DryRun) Update(ctx context.Context, base Page, text, summary string) error {
	return d.Save(ctx, base.Title, text, summary)
}

func (d *DryRun) Save(ctx context.Context, title, text, summary string) error {
	hlog.CtxInfof(ctx, "Dry run: would save %q (%d bytes) with summary %q", title, len(text), summary)
	hlog.CtxDebugf(ctx, "Dry run: text of %q:\n%s", title, text)
	return nil
}
