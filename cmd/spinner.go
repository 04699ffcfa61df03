package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/steamrec/internal/logging"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type collectDoneMsg struct {
	err error
}

type collectProgressMsg struct {
	label string
}

type collectLogMsg struct {
	line string
}

// spinnerLogWriter hands log lines to the program so they print above the
// spinner instead of through it.
type spinnerLogWriter struct {
	send func(tea.Msg)
}

func (w spinnerLogWriter) Write(p []byte) (int, error) {
	if line := strings.TrimRight(string(p), "\r\n"); line != "" {
		w.send(collectLogMsg{line: line})
	}
	return len(p), nil
}

type collectSpinnerModel struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	err     error
	done    bool
}

func newCollectSpinnerModel(label string, run tea.Cmd) collectSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return collectSpinnerModel{
		spinner: s,
		label:   label,
		run:     run,
	}
}

func (m collectSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m collectSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case collectProgressMsg:
		m.label = msg.label
		return m, nil
	case collectLogMsg:
		return m, tea.Println(msg.line)
	case collectDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m collectSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runCollectSpinner shows a spinner on output until run returns. run receives
// a progress func that replaces the spinner label. Signals are left to the
// caller's context so an interrupted run can still finish its checkpoint.
func runCollectSpinner(ctx context.Context, output io.Writer, label string, run func(context.Context, func(string)) error) error {
	var p *tea.Program
	progress := func(label string) {
		p.Send(collectProgressMsg{label: label})
	}
	runCmd := func() tea.Msg {
		return collectDoneMsg{err: run(ctx, progress)}
	}

	p = tea.NewProgram(
		newCollectSpinnerModel(label, runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithoutSignalHandler(),
	)

	restore := logging.Redirect(spinnerLogWriter{send: p.Send})
	finalModel, err := p.Run()
	restore()
	if err != nil {
		return err
	}

	result, ok := finalModel.(collectSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
