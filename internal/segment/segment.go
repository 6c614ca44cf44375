// Package segment splits extracted text into words, sentences, or paragraphs.
//
// Segmentation is deliberately simple: sentence boundaries are a run of
// '.', '!' or '?' followed by one or more spaces, paragraphs are separated by a
// blank line, and words are whitespace-delimited tokens.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PreviewWords is the number of leading tokens kept in an Item's preview.
const PreviewWords = 10

// Granularity is the unit text is split into.
type Granularity string

const (
	Word      Granularity = "word"
	Sentence  Granularity = "sentence"
	Paragraph Granularity = "paragraph"
)

// Granularities lists the supported granularities in menu order.
var Granularities = []Granularity{Word, Sentence, Paragraph}

// ParseGranularity maps user input to a Granularity. Matching is case-insensitive.
func ParseGranularity(s string) (Granularity, bool) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Granularities {
		if g == known {
			return g, true
		}
	}
	return "", false
}

// Item is one unit of segmented output.
//
// Position and SentenceIndex are only set for Word granularity; both are
// 1-based, so zero means absent.
type Item struct {
	Index         int
	Content       string
	WordCount     int
	CharLength    int
	Preview       string
	Position      int
	SentenceIndex int
}

// HasPosition reports whether the item carries word position data.
func (it Item) HasPosition() bool {
	return it.Position > 0
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+( +)`)

// Segment splits text at the given granularity. Unknown granularities yield a
// single item holding the whole text.
func Segment(text string, g Granularity) []Item {
	switch g {
	case Word:
		return words(text)
	case Sentence:
		return items(SplitSentences(text))
	case Paragraph:
		return items(SplitParagraphs(text))
	}
	return []Item{newItem(1, text)}
}

// SplitSentences splits text after each run of sentence punctuation that is
// followed by spaces. The spaces are dropped, the punctuation stays with its
// sentence. Empty segments are discarded.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringSubmatchIndex(text, -1) {
		if s := text[start:loc[2]]; s != "" {
			out = append(out, s)
		}
		start = loc[3]
	}
	if s := text[start:]; s != "" {
		out = append(out, s)
	}
	return out
}

// SplitParagraphs splits text on blank lines ("\n\n"). Blank paragraphs are
// dropped and stray newlines at either edge of a paragraph are trimmed.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, strings.Trim(p, "\r\n"))
	}
	return out
}

// Preview returns the first PreviewWords tokens of s joined by single spaces.
func Preview(s string) string {
	fields := strings.Fields(s)
	if len(fields) > PreviewWords {
		fields = fields[:PreviewWords]
	}
	return strings.Join(fields, " ")
}

// words tokenizes sentence by sentence so every word knows which sentence it
// came from. A sentence with no tokens still consumes its index.
func words(text string) []Item {
	var out []Item
	pos := 0
	for si, sentence := range SplitSentences(text) {
		for _, w := range strings.Fields(sentence) {
			pos++
			it := newItem(pos, w)
			it.Position = pos
			it.SentenceIndex = si + 1
			out = append(out, it)
		}
	}
	return out
}

func items(segments []string) []Item {
	out := make([]Item, 0, len(segments))
	for i, s := range segments {
		out = append(out, newItem(i+1, s))
	}
	return out
}

func newItem(index int, content string) Item {
	return Item{
		Index:      index,
		Content:    content,
		WordCount:  len(strings.Fields(content)),
		CharLength: utf8.RuneCountInString(content),
		Preview:    Preview(content),
	}
}
