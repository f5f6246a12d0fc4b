package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestMonthName_AllMonths(t *testing.T) {
	expected := []string{
		"januari", "februari", "maart", "april", "mei", "juni",
		"juli", "augustus", "september", "oktober", "november", "december",
	}
	for i, name := range expected {
		assert.Equal(t, name, MonthName(time.Month(i+1)))
	}
}

func TestDeceasedTitle(t *testing.T) {
	assert.Equal(t, "Lijst van personen overleden in december 2023",
		DeceasedTitle("Lijst van personen overleden in", date(2023, time.December, 1)))
	assert.Equal(t, "Lijst van personen overleden in januari 2024",
		DeceasedTitle("Lijst van personen overleden in", date(2024, time.January, 1)))
}

func TestMergeDiscussionTitle_ZeroPadsMonth(t *testing.T) {
	assert.Equal(t, "Wikipedia:Samenvoegen/202301", MergeDiscussionTitle("Wikipedia:Samenvoegen/", date(2023, time.January, 1)))
	assert.Equal(t, "Wikipedia:Samenvoegen/202311", MergeDiscussionTitle("Wikipedia:Samenvoegen/", date(2023, time.November, 1)))
}

func TestMonthIndexTitle_Capitalized(t *testing.T) {
	assert.Equal(t, "December 2023", MonthIndexTitle(date(2023, time.December, 1)))
	assert.Equal(t, "Mei 2024", MonthIndexTitle(date(2024, time.May, 1)))
}

func TestFixedTaskConstructors(t *testing.T) {
	d := date(2023, time.December, 1)

	task := DeceasedThisMonth("Lijst van personen overleden in", "Overleden in maand", d)
	assert.Equal(t, Task{
		Kind:     KindGeneric,
		Title:    "Lijst van personen overleden in december 2023",
		Body:     "{{subst:Overleden in maand}}",
		Template: "Overleden in maand",
		Interval: Monthly,
	}, task)

	task = MergeDiscussionNewMonth("Wikipedia:Samenvoegen/", "Samenvoegen nieuwe maand", d)
	assert.Equal(t, "Wikipedia:Samenvoegen/202312", task.Title)
	assert.Equal(t, "{{subst:Samenvoegen nieuwe maand}}", task.Body)

	task = ThisMonthIndex("Maandoverzicht", d)
	assert.Equal(t, "December 2023", task.Title)
	assert.True(t, task.IsMonthly())

	footer := MergeFooter("Wikipedia:Samenvoegen", "''vaste opdracht''")
	assert.Equal(t, KindFooter, footer.Kind)
	assert.Empty(t, footer.Body)
}

func TestFromTemplate(t *testing.T) {
	task := FromTemplate("Test Page", "X", Yearly)
	assert.Equal(t, KindTemplate, task.Kind)
	assert.Equal(t, "{{subst:X}}", task.Body)
	assert.True(t, task.IsYearly())
	assert.False(t, task.IsMonthly())
}
