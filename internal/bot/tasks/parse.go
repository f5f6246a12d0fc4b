// Package tasks reads the recurring task declarations from the configuration page.
package tasks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrIncompleteRow     = errors.New("row has fewer than three cells")
	ErrMalformedTemplate = errors.New("malformed template reference")
)

var templateRef = regexp.MustCompile(`\{\{(?:tl\|)?(.*?)\}\}`)

// Declaration is one data row of the configuration table, cells trimmed.
type Declaration struct {
	Line      int // 1-based line of the row separator
	Interval  string
	TitleExpr string
	Template  string
	cells     int
}

// RowError ties a failure to the configuration table row it came from.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row at line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ExtractTemplateName returns Name from "{{Name}}" or "{{tl|Name}}".
func ExtractTemplateName(cell string) (string, error) {
	m := templateRef.FindStringSubmatch(cell)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedTemplate, cell)
	}
	return m[1], nil
}

// ParseTable extracts the data rows of the wikitext tables in text. A row starts
// at a "|-" line; its cells are the following "|" lines, where one line may hold several
// cells separated by "||". Only the first three cells of a row are used.
func ParseTable(text string) []Declaration {
	var (
		decls   []Declaration
		current *Declaration
	)
	flush := func() {
		// rows without data cells are header rows
		if current != nil && current.cells > 0 {
			decls = append(decls, *current)
		}
		current = nil
	}

	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(trimmed, "|-"):
			flush()
			current = &Declaration{Line: i + 1}
		case strings.HasPrefix(trimmed, "|}"):
			flush()
		case strings.HasPrefix(trimmed, "|+"):
			// caption
		case strings.HasPrefix(trimmed, "|") && current != nil:
			for _, cell := range splitCells(trimmed[1:]) {
				current.add(strings.TrimSpace(cell))
			}
		}
	}
	flush()
	return decls
}

// splitCells splits an inline row on "||". Separators inside {{...}} or [[...]] belong
// to the cell, e.g. the empty argument in {{#if:x||y}}.
func splitCells(line string) []string {
	var (
		cells []string
		depth int
		start int
	)
	for i := 0; i < len(line); i++ {
		if i+1 >= len(line) {
			break
		}
		switch pair := line[i : i+2]; {
		case pair == "{{" || pair == "[[":
			depth++
			i++
		case (pair == "}}" || pair == "]]") && depth > 0:
			depth--
			i++
		case pair == "||" && depth == 0:
			cells = append(cells, line[start:i])
			start = i + 2
			i++
		}
	}
	return append(cells, line[start:])
}

func (d *Declaration) add(cell string) {
	switch d.cells {
	case 0:
		d.Interval = cell
	case 1:
		d.TitleExpr = cell
	case 2:
		d.Template = cell
	}
	d.cells++
}

// Complete reports whether the row supplied all three cells.
func (d Declaration) Complete() bool { return d.cells >= 3 }

// Document returns the row as a JSON-like document for schema validation.
func (d Declaration) Document() map[string]interface{} {
	doc := map[string]interface{}{}
	if d.cells > 0 {
		doc["interval"] = d.Interval
	}
	if d.cells > 1 {
		doc["title"] = d.TitleExpr
	}
	if d.cells > 2 {
		doc["template"] = d.Template
	}
	return doc
}
