package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/metcalfc/sift/internal/reader"
)

// Stage is one step of the interactive workflow.
type Stage int

const (
	ChooseSource Stage = iota
	SelectLocator
	ChooseGranularity
	Confirm
	Extract
	ChooseOutput
	NextAction
	Terminated
)

func (s Stage) String() string {
	switch s {
	case ChooseSource:
		return "choose-source"
	case SelectLocator:
		return "select-locator"
	case ChooseGranularity:
		return "choose-granularity"
	case Confirm:
		return "confirm"
	case Extract:
		return "extract"
	case ChooseOutput:
		return "choose-output"
	case NextAction:
		return "next-action"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Navigation tokens, accepted at every prompt ahead of stage input.
const (
	CmdExit    = "exit"
	CmdRestart = "restart"
	CmdRedo    = "redo"
	CmdReturn  = "return"
)

// Option is one stage-specific answer. Aliases are also accepted; the menu
// number (1-based position) always is.
type Option struct {
	Key     string
	Label   string
	Aliases []string
}

// Prompt describes what the current stage asks for.
type Prompt struct {
	Stage   Stage
	Title   string
	Body    []string
	Options []Option
	// Free is set when the stage takes free text (a path or URL).
	Free bool
	Nav  []string
}

type handler func(c *Controller, ctx context.Context, in input) Reply

// stageDef is one row of the stage table.
type stageDef struct {
	title   func(c *Controller) string
	body    func(c *Controller) []string
	options []Option
	free    bool
	handle  handler
	// back is where "return" goes; hasBack is false where it is not offered.
	back    Stage
	hasBack bool
}

var (
	sourceOptions = []Option{
		{Key: string(reader.File), Label: "file on disk"},
		{Key: string(reader.URL), Label: "web page"},
	}
	granularityOptions = []Option{
		{Key: "word", Label: "one row per word"},
		{Key: "sentence", Label: "one row per sentence"},
		{Key: "paragraph", Label: "one row per paragraph"},
	}
	confirmOptions = []Option{
		{Key: "yes", Label: "extract now", Aliases: []string{"y"}},
		{Key: "no", Label: "pick another extraction type", Aliases: []string{"n", "modify"}},
	}
	outputOptions = []Option{
		{Key: "display", Label: "show a table here", Aliases: []string{"table", "terminal"}},
		{Key: "csv", Label: "save to CSV"},
		{Key: "spreadsheet", Label: "save to Excel (.xlsx)", Aliases: []string{"excel", "xlsx"}},
	}
	nextOptions = []Option{
		{Key: "same-source-new-granularity", Label: "extract different data from the same source", Aliases: []string{"same"}},
		{Key: "new-source", Label: "load a new file or URL", Aliases: []string{"new"}},
		{Key: CmdExit, Label: "quit"},
	}
)

var stages map[Stage]stageDef

func init() {
	stages = map[Stage]stageDef{
		ChooseSource: {
			title:   static("Choose a source"),
			options: sourceOptions,
			handle:  (*Controller).chooseSource,
		},
		SelectLocator: {
			title:   (*Controller).locatorTitle,
			body:    (*Controller).locatorBody,
			free:    true,
			handle:  (*Controller).selectLocator,
			back:    ChooseSource,
			hasBack: true,
		},
		ChooseGranularity: {
			title:   static("Choose what to extract"),
			options: granularityOptions,
			handle:  (*Controller).chooseGranularity,
			back:    SelectLocator,
			hasBack: true,
		},
		Confirm: {
			title:   static("Confirm selections"),
			body:    (*Controller).summary,
			options: confirmOptions,
			handle:  (*Controller).confirm,
		},
		ChooseOutput: {
			title:   static("Choose an output"),
			options: outputOptions,
			handle:  (*Controller).chooseOutput,
			back:    ChooseGranularity,
			hasBack: true,
		},
		NextAction: {
			title:   static("What next?"),
			options: nextOptions,
			handle:  (*Controller).nextAction,
		},
	}
}

func static(s string) func(*Controller) string {
	return func(*Controller) string { return s }
}

// match resolves in against opts by key, alias, or 1-based menu number.
func match(opts []Option, in string) (string, bool) {
	for i, o := range opts {
		if in == o.Key || in == fmt.Sprint(i+1) {
			return o.Key, true
		}
		for _, a := range o.Aliases {
			if in == a {
				return o.Key, true
			}
		}
	}
	return "", false
}

func keys(opts []Option) string {
	k := make([]string, len(opts))
	for i, o := range opts {
		k[i] = o.Key
	}
	return strings.Join(k, ", ")
}

// input is one line of user input in both forms the stages need.
type input struct {
	raw   string // trimmed, case preserved (paths, URLs)
	lower string
}

func newInput(s string) input {
	raw := strings.TrimSpace(s)
	return input{raw: raw, lower: strings.ToLower(raw)}
}

// nav lists the navigation tokens a stage accepts.
func (d stageDef) nav() []string {
	n := []string{CmdExit, CmdRestart, CmdRedo}
	if d.hasBack {
		n = append(n, CmdReturn)
	}
	return n
}

func (c *Controller) locatorTitle() string {
	if c.state.Kind == reader.URL {
		return "Enter a URL"
	}
	return "Select a file"
}

func (c *Controller) locatorBody() []string {
	if c.state.Kind == reader.URL {
		return []string{"Any http(s) address; a bare host name gets https://."}
	}
	dir := c.cfg.InputDir
	lines := []string{
		fmt.Sprintf("Enter a number from the list, a file name in %s%c, or a full path.", dir, filepath.Separator),
	}
	files, err := c.deps.Lister(dir)
	switch {
	case err != nil:
		lines = append(lines, fmt.Sprintf("(cannot list %s: %v)", dir, err))
	case len(files) == 0:
		lines = append(lines, fmt.Sprintf("(no files in %s)", dir))
	default:
		for i, f := range files {
			lines = append(lines, fmt.Sprintf("%3d. %s", i+1, f))
		}
	}
	return lines
}

func (c *Controller) summary() []string {
	st := c.state
	lines := []string{fmt.Sprintf("Source:          %s", st.Kind)}
	if st.Source != nil {
		lines = append(lines,
			fmt.Sprintf("File/URL:        %s", st.Source.Name),
			fmt.Sprintf("Words in source: %d", len(strings.Fields(st.Source.Text))))
	}
	if st.Request != nil {
		lines = append(lines, fmt.Sprintf("Extraction type: %s", st.Request.Granularity))
	}
	return lines
}
