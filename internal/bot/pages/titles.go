package pages

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var monthNames = [12]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// MonthName returns the lowercase Dutch name of m.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// DeceasedTitle is e.g. "Lijst van personen overleden in december 2023".
func DeceasedTitle(prefix string, date time.Time) string {
	return fmt.Sprintf("%s %s %d", prefix, MonthName(date.Month()), date.Year())
}

// MergeDiscussionTitle is e.g. "Wikipedia:Samenvoegen/202301".
func MergeDiscussionTitle(prefix string, date time.Time) string {
	return prefix + MonthToken(date)
}

// MonthIndexTitle is e.g. "December 2023".
func MonthIndexTitle(date time.Time) string {
	return fmt.Sprintf("%s %d", cases.Title(language.Dutch).String(MonthName(date.Month())), date.Year())
}

// DeceasedThisMonth is the monthly list of people who died in the processing month.
func DeceasedThisMonth(prefix, template string, date time.Time) Task {
	return monthly(DeceasedTitle(prefix, date), template)
}

// MergeDiscussionNewMonth is the monthly merge proposals page.
func MergeDiscussionNewMonth(prefix, template string, date time.Time) Task {
	return monthly(MergeDiscussionTitle(prefix, date), template)
}

// ThisMonthIndex is the month overview page.
func ThisMonthIndex(template string, date time.Time) Task {
	return monthly(MonthIndexTitle(date), template)
}

// MergeFooter advances the footer marker of the merge proposals page.
// description is shown in the template column of the summary.
func MergeFooter(title, description string) Task {
	return Task{
		Kind:     KindFooter,
		Title:    title,
		Template: description,
		Interval: Monthly,
	}
}

func monthly(title, template string) Task {
	return Task{
		Kind:     KindGeneric,
		Title:    title,
		Body:     Subst(template),
		Template: template,
		Interval: Monthly,
	}
}
