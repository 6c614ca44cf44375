package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/metcalfc/sift/internal/workflow"
)

// runLines drives ctrl from a line reader. End of input counts as exit.
func runLines(ctx context.Context, ctrl *workflow.Controller, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	p := ctrl.Prompt()
	for {
		writeLines(out, promptLines(p))
		fmt.Fprint(out, "> ")

		line := workflow.CmdExit
		if sc.Scan() {
			line = sc.Text()
		} else {
			fmt.Fprintln(out)
			if err := sc.Err(); err != nil {
				ctrl.Handle(ctx, workflow.CmdExit)
				return fmt.Errorf("read input: %w", err)
			}
		}

		r := ctrl.Handle(ctx, line)
		writeLines(out, replyLines(r))
		if r.Done {
			return nil
		}
		p = r.Prompt
	}
}

func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

// promptLines renders a prompt as plain text: title, body, numbered options
// and the navigation words.
func promptLines(p workflow.Prompt) []string {
	lines := []string{"", "== " + p.Title + " =="}
	lines = append(lines, p.Body...)

	width := 0
	for _, o := range p.Options {
		width = max(width, len(o.Key))
	}
	for i, o := range p.Options {
		lines = append(lines, fmt.Sprintf("  %d. %-*s  %s", i+1, width, o.Key, o.Label))
	}
	if len(p.Nav) > 0 {
		lines = append(lines, "("+strings.Join(p.Nav, " | ")+")")
	}
	return lines
}

func replyLines(r workflow.Reply) []string {
	lines := append([]string(nil), r.Lines...)
	if r.Err != nil {
		lines = append(lines, "Error: "+r.Err.Error())
	}
	return lines
}
