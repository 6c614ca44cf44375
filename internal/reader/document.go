package reader

import (
	"context"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/odt"
	pdfreader "github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/xlsx"
)

// PDFFormat implements TextReader for PDF files.
type PDFFormat struct{}

// DOCXFormat implements TextReader for Word documents.
type DOCXFormat struct{}

// ODTFormat implements TextReader for OpenDocument text files.
type ODTFormat struct{}

// SpreadsheetFormat implements TextReader for Excel workbooks.
type SpreadsheetFormat struct{}

func init() {
	Register(&PDFFormat{})
	Register(&DOCXFormat{})
	Register(&ODTFormat{})
	Register(&SpreadsheetFormat{})
}

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

// Read joins page text with a blank line, one paragraph per detected block.
func (f *PDFFormat) Read(_ context.Context, filename string) (string, error) {
	r, err := pdfreader.Open(filename)
	if err != nil {
		return "", err
	}
	defer r.Close()

	text, _, err := tabula.FromReader(r).JoinParagraphs().Text()
	return text, err
}

func (f *DOCXFormat) Name() string         { return "DOCX" }
func (f *DOCXFormat) Extensions() []string { return []string{".docx"} }

func (f *DOCXFormat) Read(_ context.Context, filename string) (string, error) {
	r, err := docx.Open(filename)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Text()
}

func (f *ODTFormat) Name() string         { return "ODT" }
func (f *ODTFormat) Extensions() []string { return []string{".odt"} }

func (f *ODTFormat) Read(_ context.Context, filename string) (string, error) {
	r, err := odt.Open(filename)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Text()
}

func (f *SpreadsheetFormat) Name() string         { return "Spreadsheet" }
func (f *SpreadsheetFormat) Extensions() []string { return []string{".xlsx"} }

// Read renders every sheet as tab-separated rows, sheets separated by a
// blank line.
func (f *SpreadsheetFormat) Read(_ context.Context, filename string) (string, error) {
	r, err := xlsx.Open(filename)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Text()
}
