package export

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/metcalfc/sift/internal/segment"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func TestHeaders(t *testing.T) {
	if got := Headers(segment.Sentence); len(got) != 7 || got[6] != "Preview" {
		t.Errorf("Headers(Sentence) = %v", got)
	}
	got := Headers(segment.Word)
	if len(got) != 9 || got[7] != "Position" || got[8] != "Sentence Index" {
		t.Errorf("Headers(Word) = %v", got)
	}
}

func TestRowStrings(t *testing.T) {
	items := segment.Segment("Hello world. Bye now.", segment.Word)
	rows := Rows("doc.txt", segment.Word, items)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	want := []string{"doc.txt", "word", "3", "Bye", "1", "3", "Bye", "3", "2"}
	got := rows[2].Strings()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Strings() = %v, want %v", got, want)
	}

	para := Rows("doc.txt", segment.Paragraph, segment.Segment("A b.\n\nC.", segment.Paragraph))
	if n := len(para[0].Strings()); n != 7 {
		t.Errorf("paragraph row has %d cells, want 7", n)
	}
	if n := len(para[0].Values()); n != 7 {
		t.Errorf("paragraph row has %d values, want 7", n)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		source string
		ext    string
		want   string
	}{
		{"input/report.pdf", ".csv", "report_results_20240309_140507.csv"},
		{"/abs/path/notes.final.docx", ".xlsx", "notes.final_results_20240309_140507.xlsx"},
		{"example_com", ".csv", "example_com_results_20240309_140507.csv"},
		{"", ".csv", "source_results_20240309_140507.csv"},
	}
	for _, tt := range tests {
		if got := FileName(tt.source, tt.ext, fixedNow); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	e := &Exporter{Dir: dir, Now: fixedClock}

	rows := Rows("story.txt", segment.Sentence, segment.Segment("Hello, world. Bye now.", segment.Sentence))
	path, err := e.Export(rows, "input/story.txt", CSV)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if want := filepath.Join(dir, "story_results_20240309_140507.csv"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d", len(records))
	}
	if records[0][0] != "Source" || len(records[0]) != 7 {
		t.Errorf("header = %v", records[0])
	}
	if records[1][3] != "Hello, world." {
		t.Errorf("content = %q", records[1][3])
	}
}

func TestExportSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Dir: dir, Now: fixedClock}

	rows := Rows("story.txt", segment.Word, segment.Segment("One two. Three.", segment.Word))
	path, err := e.Export(rows, "story.txt", Spreadsheet)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Ext(path) != ".xlsx" {
		t.Errorf("path = %q", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}
	if got[0][8] != "Sentence Index" {
		t.Errorf("header = %v", got[0])
	}
	if got[3][3] != "Three." || got[3][8] != "2" {
		t.Errorf("last row = %v", got[3])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	e := &Exporter{Dir: t.TempDir(), Now: fixedClock}
	if _, err := e.Export(nil, "x.txt", Format("pdf")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestExportUnwritableDir(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	os.WriteFile(blocker, []byte("x"), 0644)

	e := &Exporter{Dir: filepath.Join(blocker, "out"), Now: fixedClock}
	if _, err := e.Export(nil, "x.txt", CSV); err == nil {
		t.Error("expected error when output dir cannot be created")
	}
}

func TestRenderTable(t *testing.T) {
	rows := Rows("doc.txt", segment.Word, segment.Segment("Alpha beta. Gamma.", segment.Word))
	out := RenderTable(rows, 0)
	for _, want := range []string{"Source", "Sentence Index", "Alpha", "Gamma."} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "more rows") {
		t.Errorf("unexpected elision note:\n%s", out)
	}
}

func TestRenderTableLimit(t *testing.T) {
	rows := Rows("doc.txt", segment.Word, segment.Segment("a b c d e", segment.Word))
	out := TableRenderer{Limit: 2}.RenderTable(rows)
	if !strings.Contains(out, "3 more rows") {
		t.Errorf("expected elision note:\n%s", out)
	}
	if strings.Contains(out, "│ e ") {
		t.Errorf("row beyond limit rendered:\n%s", out)
	}
}

func TestClip(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := clip(long)
	if n := len([]rune(got)); n != maxCell {
		t.Errorf("clip length = %d, want %d", n, maxCell)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("clip = %q", got)
	}
	if clip("a\nb") != "a b" {
		t.Errorf("clip should flatten newlines")
	}
}
