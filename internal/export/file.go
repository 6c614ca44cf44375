package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is a file export destination.
type Format string

const (
	CSV         Format = "csv"
	Spreadsheet Format = "spreadsheet"
)

// Ext returns the file extension written for f.
func (f Format) Ext() string {
	switch f {
	case CSV:
		return ".csv"
	case Spreadsheet:
		return ".xlsx"
	}
	return ""
}

// ErrUnknownFormat is returned by Export for formats it cannot write.
var ErrUnknownFormat = errors.New("unknown export format")

const timestampLayout = "20060102_150405"

const sheetName = "Results"

// FileName returns "<base>_results_<YYYYMMDD_HHMMSS><ext>" where base is source
// without directory or extension.
func FileName(source, ext string, now time.Time) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "source"
	}
	return fmt.Sprintf("%s_results_%s%s", base, now.Format(timestampLayout), ext)
}

// Exporter writes rows into Dir with timestamped names.
type Exporter struct {
	Dir string
	Now func() time.Time
}

// NewExporter returns an Exporter writing into dir using the wall clock.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Now: time.Now}
}

// Export writes rows in format f and returns the written path. source names
// the file (see FileName).
func (e *Exporter) Export(rows []Row, source string, f Format) (string, error) {
	ext := f.Ext()
	if ext == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	path := filepath.Join(e.Dir, FileName(source, ext, now()))

	var err error
	switch f {
	case CSV:
		err = WriteCSV(path, rows)
	case Spreadsheet:
		err = WriteSpreadsheet(path, rows)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV writes a header line followed by one record per row.
func WriteCSV(path string, rows []Row) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(headersFor(rows)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.Strings()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSpreadsheet writes rows to a single "Results" sheet with a bold header.
func WriteSpreadsheet(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	headers := headersFor(rows)
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.Values()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
