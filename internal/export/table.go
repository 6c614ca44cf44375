package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	moreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// maxCell keeps a single long paragraph from blowing up the terminal table.
const maxCell = 60

// TableRenderer draws rows as a bordered terminal table.
type TableRenderer struct {
	// Limit caps the number of rows drawn; 0 draws all of them.
	Limit int
}

// RenderTable implements the workflow's display collaborator.
func (t TableRenderer) RenderTable(rows []Row) string {
	return RenderTable(rows, t.Limit)
}

// RenderTable draws up to limit rows (all when limit is 0).
func RenderTable(rows []Row, limit int) string {
	shown := rows
	if limit > 0 && len(rows) > limit {
		shown = rows[:limit]
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headersFor(rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range shown {
		cells := r.Strings()
		for i, c := range cells {
			cells[i] = clip(c)
		}
		tbl.Row(cells...)
	}

	var sb strings.Builder
	sb.WriteString(tbl.String())
	if hidden := len(rows) - len(shown); hidden > 0 {
		sb.WriteString("\n")
		sb.WriteString(moreStyle.Render(fmt.Sprintf("... %d more rows", hidden)))
	}
	return sb.String()
}

// clip flattens newlines and shortens s to maxCell runes.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxCell {
		return s
	}
	return string(r[:maxCell-3]) + "..."
}
