package reader

import (
	"context"
	"os"
)

// PlainFormat implements TextReader for plain text files.
type PlainFormat struct{}

func init() {
	Register(&PlainFormat{})
}

func (f *PlainFormat) Name() string         { return "Text" }
func (f *PlainFormat) Extensions() []string { return []string{".txt", ".text", ".log"} }

func (f *PlainFormat) Read(_ context.Context, filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
