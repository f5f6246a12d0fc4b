package wiki

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySite_PageAndSave(t *testing.T) {
	ctx := context.Background()
	site := NewMemorySite()
	site.Put("Bestaat", "tekst")

	page, err := site.Page(ctx, "Bestaat")
	require.NoError(t, err)
	assert.True(t, page.Exists)
	assert.Equal(t, "tekst", page.Text)

	page, err = site.Page(ctx, "Nieuw")
	require.NoError(t, err)
	assert.False(t, page.Exists)

	require.NoError(t, site.Save(ctx, "Nieuw", "inhoud", "samenvatting"))
	text, ok := site.Text("Nieuw")
	assert.True(t, ok)
	assert.Equal(t, "inhoud", text)
	assert.Equal(t, []SavedEdit{{Title: "Nieuw", Text: "inhoud", Summary: "samenvatting"}}, site.Edits())
	assert.Equal(t, 2, site.ReadCount())
}

func TestMemorySite_InjectedFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	site := NewMemorySite()
	site.FailPages["Kapot"] = boom
	site.FailSaves["Beveiligd"] = boom

	_, err := site.Page(ctx, "Kapot")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, site.Save(ctx, "Beveiligd", "x", "y"), boom)
	assert.Empty(t, site.Edits())
}

func TestMemorySite_CreateAndUpdateDetectConflicts(t *testing.T) {
	ctx := context.Background()
	site := NewMemorySite()

	require.NoError(t, site.Create(ctx, "Nieuw", "a", "s"))
	assert.ErrorIs(t, site.Create(ctx, "Nieuw", "b", "s"), ErrPageExists)

	base, err := site.Page(ctx, "Nieuw")
	require.NoError(t, err)
	site.Put("Nieuw", "tussendoor")
	assert.ErrorIs(t, site.Update(ctx, base, "c", "s"), ErrEditConflict)

	base, err = site.Page(ctx, "Nieuw")
	require.NoError(t, err)
	require.NoError(t, site.Update(ctx, base, "c", "s"))
	text, _ := site.Text("Nieuw")
	assert.Equal(t, "c", text)

	assert.Error(t, site.Update(ctx, Page{Title: "Weg"}, "x", "s"))
	assert.Len(t, site.Edits(), 2)
}

func TestDryRun_DoesNotSave(t *testing.T) {
	ctx := context.Background()
	site := NewMemorySite()
	site.Put("A", "oud")
	dry := NewDryRun(site)

	page, err := dry.Page(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "oud", page.Text)

	require.NoError(t, dry.Save(ctx, "A", "nieuw", "s"))
	require.NoError(t, dry.Update(ctx, page, "nieuw", "s"))
	require.NoError(t, dry.Create(ctx, "A", "nieuw", "s"))
	text, _ := site.Text("A")
	assert.Equal(t, "oud", text)
	assert.Empty(t, site.Edits())
}
