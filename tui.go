package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/sift/internal/workflow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF"))

	echoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// chrome is the number of lines below the viewport: input and controls.
const chrome = 2

type model struct {
	ctrl *workflow.Controller
	ctx  context.Context

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	transcript []string
	prompt     workflow.Prompt
	// busy is set while a Handle call is in flight; input is ignored until
	// its reply arrives.
	busy     bool
	quitting bool
	farewell string
	width    int
	height   int
}

// replyMsg carries a controller reply back into Update.
type replyMsg workflow.Reply

func newModel(ctx context.Context, ctrl *workflow.Controller) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type an answer and press enter"
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := model{
		ctrl:     ctrl,
		ctx:      ctx,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 24-chrome),
		prompt:   ctrl.Prompt(),
		width:    80,
		height:   24,
	}
	m.transcript = append(m.transcript, statusStyle.Render("sift "+version))
	m.appendPrompt()
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.busy {
				// The in-flight call cannot be interrupted; leave without it.
				m.quitting = true
				return m, tea.Quit
			}
			return m.submit(workflow.CmdExit)

		case "enter":
			if m.busy {
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			return m.submit(line)

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.refresh()
		return m, nil

	case replyMsg:
		m.busy = false
		r := workflow.Reply(msg)
		for _, l := range replyLines(r) {
			if r.Err != nil && strings.HasPrefix(l, "Error: ") {
				l = errorStyle.Render(l)
			}
			m.transcript = append(m.transcript, l)
		}
		if r.Done {
			m.quitting = true
			if len(r.Lines) > 0 {
				m.farewell = r.Lines[len(r.Lines)-1]
			}
			return m, tea.Quit
		}
		m.prompt = r.Prompt
		m.appendPrompt()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// submit echoes line into the transcript and hands it to the controller off
// the update loop.
func (m model) submit(line string) (tea.Model, tea.Cmd) {
	m.transcript = append(m.transcript, echoStyle.Render("> "+line))
	m.busy = true
	m.refresh()
	return m, tea.Batch(m.handle(line), m.spinner.Tick)
}

func (m model) handle(line string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return replyMsg(ctrl.Handle(ctx, line))
	}
}

func (m *model) appendPrompt() {
	lines := promptLines(m.prompt)
	for i, l := range lines {
		if strings.HasPrefix(l, "== ") {
			lines[i] = titleStyle.Render(strings.Trim(l, "= "))
		}
	}
	m.transcript = append(m.transcript, lines...)
}

func (m *model) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if m.quitting {
		if m.farewell != "" {
			return completeStyle.Render("\n  "+m.farewell) + "\n"
		}
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.busy {
		sb.WriteString(m.spinner.View() + " working...")
	} else {
		sb.WriteString(m.input.View())
	}
	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render("ENTER: answer  PGUP/PGDN: scroll  CTRL+C: quit  (" + strings.Join(m.prompt.Nav, ", ") + ")"))
	return sb.String()
}
