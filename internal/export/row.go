// Package export flattens segmented items into rows and writes them to the
// terminal, a CSV file, or a spreadsheet.
package export

import (
	"strconv"

	"github.com/metcalfc/sift/internal/segment"
)

// Row is one segmented item flattened for output.
type Row struct {
	Source string
	Type   segment.Granularity
	segment.Item
}

var (
	baseHeaders = []string{"Source", "Type", "Index", "Content", "Word Count", "Character Length", "Preview"}
	wordHeaders = []string{"Position", "Sentence Index"}
)

// Headers returns the column names for rows of granularity g. Word rows carry
// two extra position columns.
func Headers(g segment.Granularity) []string {
	h := append([]string(nil), baseHeaders...)
	if g == segment.Word {
		h = append(h, wordHeaders...)
	}
	return h
}

// Rows flattens items extracted from source at granularity g.
func Rows(source string, g segment.Granularity, items []segment.Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{Source: source, Type: g, Item: it})
	}
	return rows
}

// Strings returns the row's cells in header order.
func (r Row) Strings() []string {
	out := []string{
		r.Source,
		string(r.Type),
		strconv.Itoa(r.Index),
		r.Content,
		strconv.Itoa(r.WordCount),
		strconv.Itoa(r.CharLength),
		r.Preview,
	}
	if r.Type == segment.Word {
		out = append(out, strconv.Itoa(r.Position), strconv.Itoa(r.SentenceIndex))
	}
	return out
}

// Values returns the row's cells in header order with numbers kept numeric.
func (r Row) Values() []any {
	out := []any{r.Source, string(r.Type), r.Index, r.Content, r.WordCount, r.CharLength, r.Preview}
	if r.Type == segment.Word {
		out = append(out, r.Position, r.SentenceIndex)
	}
	return out
}

// headersFor picks the header set from the first row.
func headersFor(rows []Row) []string {
	if len(rows) == 0 {
		return Headers("")
	}
	return Headers(rows[0].Type)
}
