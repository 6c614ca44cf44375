package workflow

import (
	"github.com/metcalfc/sift/internal/reader"
	"github.com/metcalfc/sift/internal/segment"
)

// Request is what to extract. It is rebuilt on every granularity choice and
// never modified afterwards.
type Request struct {
	Kind        reader.Kind
	Locator     string
	Granularity segment.Granularity
}

// Source is a successfully read source.
type Source struct {
	Kind    reader.Kind
	Locator string
	// Name labels the Source column, e.g. "report.pdf" or "example.com".
	Name string
	// Base names export files.
	Base string
	Text string
}

// State is the whole of a session's progress. Only the Controller changes it.
type State struct {
	Stage   Stage
	Kind    reader.Kind
	Source  *Source
	Request *Request
	Items   []segment.Item
}

// SourceText returns the loaded text and whether a source is loaded.
func (s State) SourceText() (string, bool) {
	if s.Source == nil {
		return "", false
	}
	return s.Source.Text, true
}

func (s State) clone() State {
	out := s
	if s.Source != nil {
		src := *s.Source
		out.Source = &src
	}
	if s.Request != nil {
		req := *s.Request
		out.Request = &req
	}
	if s.Items != nil {
		out.Items = append([]segment.Item(nil), s.Items...)
	}
	return out
}
