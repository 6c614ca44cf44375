// Package reader turns files and web pages into plain text.
//
// Each file family is a TextReader registered against its extensions; the
// extension of a path picks the reader once, so callers never branch on format.
package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files no registered reader handles.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrUnreachable is returned when a URL cannot be fetched successfully.
	ErrUnreachable = errors.New("url unreachable")
)

// Kind is the kind of source a locator refers to.
type Kind string

const (
	File Kind = "file"
	URL  Kind = "url"
)

// TextReader extracts text from one family of sources.
type TextReader interface {
	Name() string
	Extensions() []string
	Read(ctx context.Context, locator string) (string, error)
}

var registry []TextReader

// Register adds a reader to the registry.
func Register(r TextReader) {
	registry = append(registry, r)
}

// ForFile returns the reader registered for filename's extension.
func ForFile(filename string) (TextReader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, r := range registry {
		for _, e := range r.Extensions() {
			if ext == e {
				return r, nil
			}
		}
	}
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// ExtractText extracts text from a file using the reader for its extension.
func ExtractText(ctx context.Context, filename string) (string, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", filename)
	}
	r, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	text, err := r.Read(ctx, filename)
	if err != nil {
		return "", fmt.Errorf("read %s as %s: %w", filepath.Base(filename), r.Name(), err)
	}
	return text, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, r := range registry {
		out = append(out, r.Name()+" ("+strings.Join(r.Extensions(), ", ")+")")
	}
	return out
}

// SupportedExtensions returns every registered extension, sorted.
func SupportedExtensions() []string {
	var out []string
	for _, r := range registry {
		out = append(out, r.Extensions()...)
	}
	sort.Strings(out)
	return out
}

// Sources reads either kind of source.
type Sources struct {
	Web *WebReader
}

// ReadSource reads a file path or fetches a URL.
func (s *Sources) ReadSource(ctx context.Context, kind Kind, locator string) (string, error) {
	switch kind {
	case File:
		return ExtractText(ctx, locator)
	case URL:
		if s.Web == nil {
			return "", fmt.Errorf("%w: no web reader configured", ErrUnreachable)
		}
		return s.Web.Read(ctx, locator)
	}
	return "", fmt.Errorf("unknown source kind %q", kind)
}
