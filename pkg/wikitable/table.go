package wikitable

import "strings"

// Column is one table column: Key selects the value from a row, Label is the header text.
type Column struct {
	Key   string
	Label string
}

// Table renders rows as a MediaWiki table.
type Table struct {
	Columns []Column
	Rows    []map[string]string
	Caption string
}

// New creates a table with the given header and rows. Column order follows header order.
func New(header []Column, rows []map[string]string, caption string) *Table {
	return &Table{Columns: header, Rows: rows, Caption: caption}
}

func (t *Table) writeCells(b *strings.Builder, prefix string, cell func(Column) string) {
	for _, col := range t.Columns {
		b.WriteString(prefix)
		b.WriteString(" ")
		b.WriteString(cell(col))
		b.WriteString("\n")
	}
}

// Wikitext returns the table markup, always terminated by a newline.
func (t *Table) Wikitext() string {
	var b strings.Builder
	b.WriteString("{| class=\"wikitable\" style=\"width: 100%\"\n")

	if t.Caption != "" {
		b.WriteString("|+ ")
		b.WriteString(t.Caption)
		b.WriteString("\n")
	}

	t.writeCells(&b, "!", func(c Column) string { return c.Label })

	for _, row := range t.Rows {
		b.WriteString("|-\n")
		t.writeCells(&b, "|", func(c Column) string { return row[c.Key] })
	}

	b.WriteString("|}\n")
	return b.String()
}
