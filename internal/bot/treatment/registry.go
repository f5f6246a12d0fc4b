package treatment

import (
	"context"
	"fmt"
	"time"

	"herhaalbot/internal/bot/pages"
	"herhaalbot/internal/wiki"
)

// Registry maps task kinds to their treatment.
type Registry struct {
	treaters map[pages.Kind]Treater
}

// NewRegistry returns a registry with the built-in treatments registered.
func NewRegistry(msgs Messages) *Registry {
	r := &Registry{treaters: make(map[pages.Kind]Treater)}
	r.Register(pages.KindTemplate, &IntervalGated{Messages: msgs})
	r.Register(pages.KindGeneric, &Generic{Messages: msgs})
	r.Register(pages.KindFooter, &FooterAdvance{Messages: msgs})
	return r
}

func (r *Registry) Register(kind pages.Kind, t Treater) {
	r.treaters[kind] = t
}

func (r *Registry) Get(kind pages.Kind) (Treater, error) {
	t, exists := r.treaters[kind]
	if !exists {
		return nil, fmt.Errorf("no treatment registered for kind: %s", kind)
	}
	return t, nil
}

// Treat dispatches task to the treatment registered for its kind.
func (r *Registry) Treat(ctx context.Context, task pages.Task, page wiki.Page, date time.Time, editor Editor) (*Outcome, error) {
	t, err := r.Get(task.Kind)
	if err != nil {
		return nil, err
	}
	return t.Treat(ctx, task, page, date, editor)
}
