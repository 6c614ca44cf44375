package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractText(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	t.Run("plain text", func(t *testing.T) {
		content := "Hello world this is a test."
		path := filepath.Join(tmpDir, "test.txt")
		os.WriteFile(path, []byte(content), 0644)

		got, err := ExtractText(ctx, path)
		if err != nil {
			t.Fatalf("ExtractText: %v", err)
		}
		if got != content {
			t.Errorf("got %q, want %q", got, content)
		}
	})

	t.Run("upper case extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "SHOUT.TXT")
		os.WriteFile(path, []byte("loud"), 0644)

		got, err := ExtractText(ctx, path)
		if err != nil {
			t.Fatalf("ExtractText: %v", err)
		}
		if got != "loud" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "image.png")
		os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644)

		_, err := ExtractText(ctx, path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := ExtractText(ctx, filepath.Join(tmpDir, "nonexistent.txt"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "folder.txt")
		os.Mkdir(dir, 0755)
		if _, err := ExtractText(ctx, dir); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("broken docx", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.docx")
		os.WriteFile(path, []byte("not a zip archive"), 0644)
		if _, err := ExtractText(ctx, path); err == nil {
			t.Error("expected error")
		}
	})
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "PDF"},
		{"letter.docx", "DOCX"},
		{"notes.odt", "ODT"},
		{"book.xlsx", "Spreadsheet"},
		{"data.csv", "CSV"},
		{"readme.txt", "Text"},
		{"README.md", "Markdown"},
		{"novel.epub", "EPUB"},
		{"/some/dir/Upper.PDF", "PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			r, err := ForFile(tt.filename)
			if err != nil {
				t.Fatalf("ForFile(%q): %v", tt.filename, err)
			}
			if r.Name() != tt.want {
				t.Errorf("ForFile(%q) = %s, want %s", tt.filename, r.Name(), tt.want)
			}
		})
	}

	for _, name := range []string{"legacy.xls", "archive.zip", "noextension"} {
		if _, err := ForFile(name); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ForFile(%q) err = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) == 0 {
		t.Error("no formats registered")
	}
	for _, f := range formats {
		if f == "EPUB (.epub)" {
			return
		}
	}
	t.Errorf("EPUB not registered: %v", formats)
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	for i := 1; i < len(exts); i++ {
		if exts[i-1] > exts[i] {
			t.Fatalf("extensions not sorted: %v", exts)
		}
	}
	found := false
	for _, e := range exts {
		if e == ".pdf" {
			found = true
		}
	}
	if !found {
		t.Errorf(".pdf missing from %v", exts)
	}
}

func TestSourcesReadSource(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.txt")
	os.WriteFile(path, []byte("file text"), 0644)

	s := &Sources{}
	got, err := s.ReadSource(context.Background(), File, path)
	if err != nil || got != "file text" {
		t.Errorf("ReadSource(File) = %q, %v", got, err)
	}

	if _, err := s.ReadSource(context.Background(), URL, "https://example.com"); !errors.Is(err, ErrUnreachable) {
		t.Errorf("ReadSource(URL) without web reader err = %v", err)
	}

	if _, err := s.ReadSource(context.Background(), Kind("ftp"), "x"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
