package reader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// CSVFormat implements TextReader for CSV files. The rows are rendered as an
// aligned, borderless text table with the first record as the header.
type CSVFormat struct{}

func init() {
	Register(&CSVFormat{})
}

func (f *CSVFormat) Name() string         { return "CSV" }
func (f *CSVFormat) Extensions() []string { return []string{".csv"} }

func (f *CSVFormat) Read(_ context.Context, filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}
	return renderRecords(records[0], records[1:]), nil
}

func renderRecords(header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		Headers(header...).
		Rows(rows...)
	return t.String()
}
