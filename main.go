package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/metcalfc/sift/internal/config"
	"github.com/metcalfc/sift/internal/export"
	"github.com/metcalfc/sift/internal/logging"
	"github.com/metcalfc/sift/internal/reader"
	"github.com/metcalfc/sift/internal/state"
	"github.com/metcalfc/sift/internal/workflow"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// historyLimit is how many exports -history prints.
const historyLimit = 20

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	inDir := flag.String("in", "", "Directory offered when choosing a file (default: input)")
	outDir := flag.String("out", "", "Directory exports are written to (default: output)")
	plain := flag.Bool("plain", false, "Use line prompts instead of the full-screen interface")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error or off")
	showHistory := flag.Bool("history", false, "List recent exports and exit")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Sift - Extract words, sentences or paragraphs from documents and web pages\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  sift [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sift                          Start an interactive session\n")
		fmt.Fprintf(os.Stderr, "  sift -in ~/papers -out ~/csv  Use other input and output directories\n")
		fmt.Fprintf(os.Stderr, "  sift -plain < answers.txt     Answer prompts from a file\n")
		fmt.Fprintf(os.Stderr, "  sift -history                 List recent exports\n")
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", strings.Join(reader.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nAt any prompt:\n")
		fmt.Fprintf(os.Stderr, "  exit     Quit\n")
		fmt.Fprintf(os.Stderr, "  restart  Start over from the source choice\n")
		fmt.Fprintf(os.Stderr, "  redo     Ask the current question again\n")
		fmt.Fprintf(os.Stderr, "  return   Go back one step (where offered)\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("sift %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = applyFlags(cfg, *inDir, *outDir, *logLevel)

	if *showHistory {
		store, err := state.NewStore(config.StateDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to open history: %v\n", err)
			os.Exit(1)
		}
		printHistory(os.Stdout, store.Recent(historyLimit))
		os.Exit(0)
	}

	if err := cfg.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open log: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("input_dir", cfg.InputDir),
		zap.String("output_dir", cfg.OutputDir))

	ctrl := newController(cfg, logger)

	if *plain || !isTerminal(os.Stdin) {
		err = runLines(context.Background(), ctrl, os.Stdin, os.Stdout)
	} else {
		p := tea.NewProgram(newModel(context.Background(), ctrl), tea.WithAltScreen())
		_, err = p.Run()
	}
	if err != nil {
		logger.Error("session ended with error", zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("session ended")
	logger.Sync()
}

// applyFlags overrides cfg with the flags that were given.
func applyFlags(cfg config.Config, inDir, outDir, logLevel string) config.Config {
	if inDir != "" {
		cfg.InputDir = inDir
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

// newController wires the readers, exporter and history store.
func newController(cfg config.Config, logger *zap.Logger) *workflow.Controller {
	deps := workflow.Deps{
		Reader: &reader.Sources{
			Web: reader.NewWebReader(nil, cfg.HTTPTimeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.URLExtractor, logger),
		},
		Exporter: export.NewExporter(cfg.OutputDir),
		Renderer: export.TableRenderer{Limit: cfg.TablePreviewRows},
	}
	if store, err := state.NewStore(config.StateDir()); err != nil {
		logger.Warn("export history disabled", zap.Error(err))
	} else {
		deps.History = store
	}
	return workflow.New(cfg, deps, logger)
}

func printHistory(w io.Writer, entries []state.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No exports yet.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-9s %-11s %5d rows  %s -> %s\n",
			e.At.Local().Format("2006-01-02 15:04"), e.Granularity, e.Format, e.Rows, e.Source, e.Path)
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
