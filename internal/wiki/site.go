// Package wiki talks to a MediaWiki installation. The bot reads pages, expands wikitext
// and saves bot-flagged edits, captured by Site.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Page is the state of a wiki page at the moment it was fetched.
type Page struct {
	Title    string
	Exists   bool
	Text     string
	// Revision is the timestamp of the fetched revision, Fetched the server time of the read.
	// Update sends both so the wiki can detect edits made in between.
	Revision time.Time
	Fetched  time.Time
}

// Site is the subset of the wiki the bot reads from and writes to. Every write is flagged
// as a bot edit.
type Site interface {
	// Page fetches the current text of title. A missing page is not an error.
	Page(ctx context.Context, title string) (Page, error)
	// ExpandText evaluates templates and parser functions in text server side.
	ExpandText(ctx context.Context, text string) (string, error)
	// Create saves a new page. It fails with ErrPageExists when title exists by now.
	Create(ctx context.Context, title, text, summary string) error
	// Update replaces the text of base. It fails with ErrEditConflict when the page changed
	// after base was fetched.
	Update(ctx context.Context, base Page, text, summary string) error
	// Save replaces the full text of title whatever its current state.
	Save(ctx context.Context, title, text, summary string) error
}

var (
	ErrAPI          = errors.New("mediawiki api error")
	ErrPageExists   = errors.New("page already exists")
	ErrEditConflict = errors.New("edit conflict")
)

// APIError is an error object returned by the Action API.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrAPI.Error(), e.Code, e.Info)
}

func (e *APIError) Unwrap() error { return ErrAPI }

// Is maps the conflict codes of the edit module onto ErrPageExists and ErrEditConflict.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrPageExists:
		return e.Code == "articleexists"
	case ErrEditConflict:
		return e.Code == "editconflict"
	}
	return false
}
