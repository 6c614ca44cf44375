// Package workflow drives an interactive extraction session: pick a source,
// pick what to extract, confirm, pick an output, then decide what to do next.
//
// The Controller is a table-driven state machine. Every prompt accepts the
// navigation tokens exit, restart and redo. SelectLocator, ChooseGranularity and
// ChooseOutput also accept return, which steps back one stage. Failures never end
// the session: they produce a message and the same (or a named) stage is asked again.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/metcalfc/sift/internal/config"
	"github.com/metcalfc/sift/internal/export"
	"github.com/metcalfc/sift/internal/reader"
	"github.com/metcalfc/sift/internal/segment"
	"github.com/metcalfc/sift/internal/state"
)

var (
	// ErrInvalidInput marks an answer the current stage does not accept.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSourceUnavailable marks a file or URL that could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrWriteFailure marks an export that could not be written.
	ErrWriteFailure = errors.New("write failure")
)

// SourceReader reads a file or URL into text.
type SourceReader interface {
	ReadSource(ctx context.Context, kind reader.Kind, locator string) (string, error)
}

// RowExporter writes rows to a file and returns its path.
type RowExporter interface {
	Export(rows []export.Row, source string, f export.Format) (string, error)
}

// TableRenderer draws rows for the terminal.
type TableRenderer interface {
	RenderTable(rows []export.Row) string
}

// Recorder keeps a history of written exports.
type Recorder interface {
	Record(e state.Entry) error
}

// Deps are the Controller's collaborators. Reader, Exporter and Renderer are
// required; Lister defaults to listing regular files and History is optional.
type Deps struct {
	Reader   SourceReader
	Exporter RowExporter
	Renderer TableRenderer
	Lister   func(dir string) ([]string, error)
	History  Recorder
	Now      func() time.Time
}

// Reply is the outcome of one input.
type Reply struct {
	Lines []string
	Err   error
	Done  bool
	// Prompt is the prompt for the stage the Controller is now in.
	Prompt Prompt
}

// Controller owns a session's State. Handle and Prompt may be called from
// different goroutines; calls are serialized.
type Controller struct {
	mu     sync.Mutex
	cfg    config.Config
	deps   Deps
	logger *zap.Logger
	state  State
}

// New returns a Controller in the ChooseSource stage.
func New(cfg config.Config, deps Deps, logger *zap.Logger) *Controller {
	if deps.Lister == nil {
		deps.Lister = ListFiles
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		state:  State{Stage: ChooseSource},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Prompt returns the prompt for the current stage.
func (c *Controller) Prompt() Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt()
}

func (c *Controller) prompt() Prompt {
	def, ok := stages[c.state.Stage]
	if !ok {
		return Prompt{Stage: c.state.Stage}
	}
	p := Prompt{
		Stage:   c.state.Stage,
		Title:   def.title(c),
		Options: def.options,
		Free:    def.free,
		Nav:     def.nav(),
	}
	if def.body != nil {
		p.Body = def.body(c)
	}
	return p
}

// Handle consumes one line of input. Navigation tokens are applied before the
// stage sees the input.
func (c *Controller) Handle(ctx context.Context, line string) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.handle(ctx, newInput(line))
	if r.Err != nil {
		c.logger.Warn("input rejected",
			zap.Stringer("stage", c.state.Stage),
			zap.Error(r.Err))
	}
	r.Done = c.state.Stage == Terminated
	r.Prompt = c.prompt()
	return r
}

func (c *Controller) handle(ctx context.Context, in input) Reply {
	if c.state.Stage == Terminated {
		return Reply{}
	}
	def := stages[c.state.Stage]

	switch in.lower {
	case CmdExit:
		c.moveTo(Terminated, in)
		return info("Exiting program. Goodbye!")
	case CmdRestart:
		c.logger.Info("restart", zap.Stringer("from", c.state.Stage))
		c.state = State{Stage: ChooseSource}
		return info("Starting over.")
	case CmdRedo:
		return Reply{}
	case CmdReturn:
		if !def.hasBack {
			return invalid("nothing to return to from %s", c.state.Stage)
		}
		c.moveTo(def.back, in)
		return Reply{}
	}
	return def.handle(c, ctx, in)
}

func (c *Controller) moveTo(to Stage, in input) {
	c.logger.Debug("transition",
		zap.Stringer("from", c.state.Stage),
		zap.Stringer("to", to),
		zap.String("input", in.raw))
	c.state.Stage = to
}

func (c *Controller) chooseSource(_ context.Context, in input) Reply {
	key, ok := match(sourceOptions, in.lower)
	if !ok {
		return invalid("choose one of: %s", keys(sourceOptions))
	}
	c.state.Kind = reader.Kind(key)
	c.moveTo(SelectLocator, in)
	return Reply{}
}

// selectLocator reads the source. State only changes once the read succeeds.
func (c *Controller) selectLocator(ctx context.Context, in input) Reply {
	if in.raw == "" {
		return invalid("enter a %s", c.locatorNoun())
	}

	locator := in.raw
	if c.state.Kind == reader.File {
		var err error
		if locator, err = c.resolveFile(in.raw); err != nil {
			return Reply{Err: err}
		}
	}

	text, err := c.deps.Reader.ReadSource(ctx, c.state.Kind, locator)
	if err != nil {
		c.logger.Error("read source failed",
			zap.String("kind", string(c.state.Kind)),
			zap.String("locator", locator),
			zap.Error(err))
		return Reply{Err: fmt.Errorf("%w: %w", ErrSourceUnavailable, err)}
	}
	if strings.TrimSpace(text) == "" {
		return Reply{Err: fmt.Errorf("%w: no text found in %s", ErrSourceUnavailable, locator)}
	}

	src := &Source{Kind: c.state.Kind, Locator: locator, Text: text}
	if c.state.Kind == reader.URL {
		src.Name, src.Base = webNames(locator)
	} else {
		src.Name, src.Base = filepath.Base(locator), locator
	}

	c.state.Source = src
	c.state.Request = nil
	c.state.Items = nil
	c.logger.Info("source loaded",
		zap.String("kind", string(src.Kind)),
		zap.String("locator", locator),
		zap.Int("bytes", len(text)))
	c.moveTo(ChooseGranularity, in)
	return info(fmt.Sprintf("Loaded %s (%d words).", src.Name, len(strings.Fields(text))))
}

func (c *Controller) locatorNoun() string {
	if c.state.Kind == reader.URL {
		return "URL"
	}
	return "file number, name, or path"
}

// resolveFile accepts a 1-based index into the input directory listing, a bare
// file name inside the input directory, or a path.
func (c *Controller) resolveFile(s string) (string, error) {
	dir := c.cfg.InputDir
	if n, err := strconv.Atoi(s); err == nil {
		files, err := c.deps.Lister(dir)
		if err != nil {
			return "", fmt.Errorf("%w: cannot list %s: %w", ErrSourceUnavailable, dir, err)
		}
		if n < 1 || n > len(files) {
			return "", fmt.Errorf("%w: no file numbered %d in %s", ErrInvalidInput, n, dir)
		}
		return filepath.Join(dir, files[n-1]), nil
	}
	if filepath.IsAbs(s) || strings.ContainsRune(s, filepath.Separator) || strings.ContainsRune(s, '/') {
		return s, nil
	}
	inDir := filepath.Join(dir, s)
	if _, err := os.Stat(inDir); err == nil {
		return inDir, nil
	}
	if _, err := os.Stat(s); err == nil {
		return s, nil
	}
	return inDir, nil
}

func (c *Controller) chooseGranularity(_ context.Context, in input) Reply {
	key, ok := match(granularityOptions, in.lower)
	if !ok {
		return invalid("choose one of: %s", keys(granularityOptions))
	}
	g, _ := segment.ParseGranularity(key)
	src := c.state.Source
	c.state.Request = &Request{Kind: src.Kind, Locator: src.Locator, Granularity: g}
	c.state.Items = nil
	c.moveTo(Confirm, in)
	return Reply{}
}

func (c *Controller) confirm(ctx context.Context, in input) Reply {
	key, ok := match(confirmOptions, in.lower)
	if !ok {
		return invalid("answer yes or no")
	}
	if key == "no" {
		c.moveTo(ChooseGranularity, in)
		return Reply{}
	}
	c.moveTo(Extract, in)
	return c.extract(ctx, in)
}

// extract runs the segmenter on the loaded text. It only ever runs from
// Confirm, so Source and Request are both set.
func (c *Controller) extract(_ context.Context, in input) Reply {
	g := c.state.Request.Granularity
	items := segment.Segment(c.state.Source.Text, g)
	c.state.Items = items
	c.logger.Info("extracted",
		zap.String("granularity", string(g)),
		zap.Int("items", len(items)))
	c.moveTo(ChooseOutput, in)
	return info(fmt.Sprintf("Extracted %d %s item(s) from %s.", len(items), g, c.state.Source.Name))
}

func (c *Controller) rows() []export.Row {
	return export.Rows(c.state.Source.Name, c.state.Request.Granularity, c.state.Items)
}

func (c *Controller) chooseOutput(_ context.Context, in input) Reply {
	key, ok := match(outputOptions, in.lower)
	if !ok {
		return invalid("choose one of: %s", keys(outputOptions))
	}
	rows := c.rows()

	if key == "display" {
		table := c.deps.Renderer.RenderTable(rows)
		c.moveTo(NextAction, in)
		return info(table)
	}

	f := export.Format(key)
	path, err := c.deps.Exporter.Export(rows, c.state.Source.Base, f)
	if err != nil {
		c.logger.Error("export failed", zap.String("format", key), zap.Error(err))
		return Reply{Err: fmt.Errorf("%w: %w", ErrWriteFailure, err)}
	}
	c.logger.Info("exported", zap.String("path", path), zap.Int("rows", len(rows)))
	c.record(f, path, len(rows))
	c.moveTo(NextAction, in)
	return info(fmt.Sprintf("Results saved to %s", path))
}

// record adds the export to the history. Failures are logged only.
func (c *Controller) record(f export.Format, path string, rows int) {
	if c.deps.History == nil {
		return
	}
	src := c.state.Source
	key := src.Locator
	if src.Kind == reader.File {
		if h, err := state.ComputeHash(src.Locator); err == nil {
			key = h
		}
	}
	err := c.deps.History.Record(state.Entry{
		Key:         key,
		Source:      src.Locator,
		Granularity: string(c.state.Request.Granularity),
		Format:      string(f),
		Path:        path,
		Rows:        rows,
		At:          c.deps.Now(),
	})
	if err != nil {
		c.logger.Warn("record export history", zap.Error(err))
	}
}

func (c *Controller) nextAction(_ context.Context, in input) Reply {
	key, ok := match(nextOptions, in.lower)
	if !ok {
		return invalid("choose one of: %s", keys(nextOptions))
	}
	switch key {
	case "same-source-new-granularity":
		c.state.Request = nil
		c.state.Items = nil
		c.moveTo(ChooseGranularity, in)
	case "new-source":
		c.moveTo(ChooseSource, in)
		c.state = State{Stage: ChooseSource}
	case CmdExit:
		c.moveTo(Terminated, in)
		return info("Exiting program. Goodbye!")
	}
	return Reply{}
}

// webNames returns the Source column label and export base name for a URL.
func webNames(locator string) (name, base string) {
	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		if u, err = reader.NormalizeURL(locator); err != nil {
			return "webpage", "webpage"
		}
	}
	host := u.Hostname()
	if host == "" {
		return "webpage", "webpage"
	}
	return host, strings.ReplaceAll(host, ".", "_")
}

// ListFiles returns the names of the visible regular files in dir, sorted.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

func info(lines ...string) Reply {
	return Reply{Lines: lines}
}

func invalid(format string, args ...any) Reply {
	return Reply{Err: fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))}
}
