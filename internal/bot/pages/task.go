package pages

import "fmt"

// Kind selects how a task's target page is treated.
type Kind string

const (
	// KindTemplate is a task declared on the configuration page; creation is gated by its interval.
	KindTemplate Kind = "template"
	// KindGeneric is a fixed monthly page: created when missing, skipped otherwise.
	KindGeneric Kind = "generic"
	// KindFooter advances the month marker on an existing page.
	KindFooter Kind = "footer"
)

// Interval labels as written on the configuration page.
const (
	Monthly = "maandelijks"
	Yearly  = "jaarlijks"
)

// Task is one unit of recurring work. Title and Body are fully resolved.
type Task struct {
	Kind     Kind
	Title    string
	Body     string
	Template string
	Interval string
}

// IsMonthly reports whether the interval label is the monthly tag.
func (t Task) IsMonthly() bool { return t.Interval == Monthly }

// IsYearly reports whether the interval label is the yearly tag.
func (t Task) IsYearly() bool { return t.Interval == Yearly }

// Subst returns the substitution directive that creates a page from template.
func Subst(template string) string {
	return fmt.Sprintf("{{subst:%s}}", template)
}

// FromTemplate builds an interval-gated task declared on the configuration page.
func FromTemplate(title, template, interval string) Task {
	return Task{
		Kind:     KindTemplate,
		Title:    title,
		Body:     Subst(template),
		Template: template,
		Interval: interval,
	}
}

func (t Task) String() string {
	return fmt.Sprintf("%s task %q (%s, template %q)", t.Kind, t.Title, t.Interval, t.Template)
}
