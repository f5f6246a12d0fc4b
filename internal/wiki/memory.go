package wiki

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SavedEdit is one write recorded by MemorySite.
type SavedEdit struct {
	Title   string
	Text    string
	Summary string
}

// epoch is the timestamp of revision 0; every write adds a second.
var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// MemorySite is an in-process Site. Expansions maps a title expression to its expanded
// text; unknown expressions expand to themselves. FailPages and FailSaves inject errors.
// Create and Update detect conflicts the way the wiki does.
type MemorySite struct {
	mu         sync.Mutex
	pages      map[string]string
	revisions  map[string]int
	Expansions map[string]string
	FailPages  map[string]error
	FailSaves  map[string]error

	Reads []string
	Saves []SavedEdit
}

var _ Site = (*MemorySite)(nil)

func NewMemorySite() *MemorySite {
	return &MemorySite{
		pages:      make(map[string]string),
		revisions:  make(map[string]int),
		Expansions: make(map[string]string),
		FailPages:  make(map[string]error),
		FailSaves:  make(map[string]error),
	}
}

// Put creates or replaces a page without recording a save, as another editor would.
func (m *MemorySite) Put(title, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.write(title, text)
}

func (m *MemorySite) write(title, text string) {
	m.pages[title] = text
	m.revisions[title]++
}

func revisionTime(rev int) time.Time {
	return epoch.Add(time.Duration(rev) * time.Second)
}

// Text returns the current text of title and whether it exists.
func (m *MemorySite) Text(title string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.pages[title]
	return text, ok
}

// Edits returns a copy of the recorded saves.
func (m *MemorySite) Edits() []SavedEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SavedEdit(nil), m.Saves...)
}

// ReadCount returns how many page fetches were made.
func (m *MemorySite) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Reads)
}

func (m *MemorySite) Page(ctx context.Context, title string) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads = append(m.Reads, title)
	if err := m.FailPages[title]; err != nil {
		return Page{}, fmt.Errorf("fetching page %q: %w", title, err)
	}
	text, ok := m.pages[title]
	page := Page{Title: title, Exists: ok, Text: text, Fetched: revisionTime(m.revisions[title])}
	if ok {
		page.Revision = revisionTime(m.revisions[title])
	}
	return page, nil
}

func (m *MemorySite) ExpandText(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expanded, ok := m.Expansions[text]; ok {
		return expanded, nil
	}
	return text, nil
}

func (m *MemorySite) Create(ctx context.Context, title, text, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[title]; ok {
		return fmt.Errorf("saving page %q: %w", title, ErrPageExists)
	}
	return m.save(title, text, summary)
}

func (m *MemorySite) Update(ctx context.Context, base Page, text, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[base.Title]; !ok {
		return fmt.Errorf("saving page %q: page does not exist", base.Title)
	}
	if !revisionTime(m.revisions[base.Title]).Equal(base.Revision) {
		return fmt.Errorf("saving page %q: %w", base.Title, ErrEditConflict)
	}
	return m.save(base.Title, text, summary)
}

func (m *MemorySite) Save(ctx context.Context, title, text, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(title, text, summary)
}

func (m *MemorySite) save(title, text, summary string) error {
	if err := m.FailSaves[title]; err != nil {
		return fmt.Errorf("saving page %q: %w", title, err)
	}
	m.write(title, text)
	m.Saves = append(m.Saves, SavedEdit{Title: title, Text: text, Summary: summary})
	return nil
}
