package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herhaalbot/internal/bot/pages"
	"herhaalbot/internal/wiki"
)

type failingExpander struct {
	fail map[string]error
}

func (f failingExpander) ExpandText(ctx context.Context, text string) (string, error) {
	if err := f.fail[text]; err != nil {
		return "", err
	}
	return "expanded " + text, nil
}

func TestResolve_BuildsTemplateTasks(t *testing.T) {
	site := wiki.NewMemorySite()
	site.Expansions["Lijst van personen overleden in {{#time:F Y|+1 day}}"] = "Lijst van personen overleden in december 2023"

	results := Resolve(context.Background(), site, ParseTable(configPage))
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err)
	}

	assert.Equal(t, pages.Task{
		Kind:     pages.KindTemplate,
		Title:    "Lijst van personen overleden in december 2023",
		Body:     "{{subst:Lijst van overleden personen nieuwe maand}}",
		Template: "Lijst van overleden personen nieuwe maand",
		Interval: pages.Monthly,
	}, *results[0].Task)
	assert.Equal(t, "Overleden in jaar", results[1].Task.Template)
	assert.Equal(t, pages.Yearly, results[1].Task.Interval)
	assert.Equal(t, "Test Page", results[2].Task.Title)
}

func TestResolve_BadRowsAreIsolated(t *testing.T) {
	text := "{|\n" +
		"|-\n| maandelijks\n| Eerste\n| {{tl|A}}\n" +
		"|-\n| maandelijks\n| Kapot\n| geen sjabloon\n" +
		"|-\n| maandelijks\n| Onvolledig\n" +
		"|-\n| maandelijks\n| Onbereikbaar\n| {{B}}\n" +
		"|-\n| \n| Leeg interval\n| {{C}}\n" +
		"|-\n| jaarlijks\n| Laatste\n| {{D}}\n" +
		"|}"
	expander := failingExpander{fail: map[string]error{"Onbereikbaar": errors.New("timeout")}}

	results := Resolve(context.Background(), expander, ParseTable(text))
	require.Len(t, results, 6)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "expanded Eerste", results[0].Task.Title)

	assert.ErrorIs(t, results[1].Err, ErrMalformedTemplate)
	assert.Nil(t, results[1].Task)
	var rowErr *RowError
	require.ErrorAs(t, results[1].Err, &rowErr)
	assert.Equal(t, 6, rowErr.Line)

	assert.ErrorIs(t, results[2].Err, ErrIncompleteRow)
	assert.ErrorContains(t, results[3].Err, "timeout")
	assert.ErrorContains(t, results[4].Err, "failed validation")

	assert.NoError(t, results[5].Err)
	assert.Equal(t, "D", results[5].Task.Template)
}

func TestResolve_EmptyExpansion(t *testing.T) {
	site := wiki.NewMemorySite()
	site.Expansions["{{leeg}}"] = "  "

	results := Resolve(context.Background(), site, ParseTable("{|\n|-\n| maandelijks\n| {{leeg}}\n| {{X}}\n|}"))
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "empty string")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	site := wiki.NewMemorySite()

	_, err := Load(ctx, site, "Gebruiker:Herhaalbot/Opdrachten")
	assert.ErrorContains(t, err, "does not exist")

	site.Put("Gebruiker:Herhaalbot/Opdrachten", configPage)
	results, err := Load(ctx, site, "Gebruiker:Herhaalbot/Opdrachten")
	require.NoError(t, err)
	assert.Len(t, results, 3)

	site.FailPages["Gebruiker:Herhaalbot/Opdrachten"] = errors.New("503")
	_, err = Load(ctx, site, "Gebruiker:Herhaalbot/Opdrachten")
	assert.ErrorContains(t, err, "reading task configuration")
}
