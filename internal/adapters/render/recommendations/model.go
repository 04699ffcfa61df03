package recommendations

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// entryMsg asks the model to lay out the entry at rank index+1.
type entryMsg struct {
	index int
}

type listDoneMsg struct{}

// listModel builds the ranked list one entry per update. Scores are drawn
// relative to the first entry, so the input must already be ranked.
type listModel struct {
	input  Input
	opts   RenderOptions
	styles styles
	top    float64
	lines  []string
	done   bool
}

func newListModel(input Input, opts RenderOptions) listModel {
	m := listModel{input: input, opts: opts, styles: newStyles()}
	if len(input.Recommendations) > 0 {
		m.top = input.Recommendations[0].Score
	}
	return m
}

func (m listModel) Init() tea.Cmd {
	return next(0, len(m.input.Recommendations))
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entryMsg:
		if msg.index == 0 {
			m.lines = renderHeader(m.input, m.styles)
		}
		rec := m.input.Recommendations[msg.index]
		m.lines = append(m.lines, m.styles.section.Render(renderEntry(msg.index+1, rec, m.top, m.opts, m.styles)))
		return m, next(msg.index+1, len(m.input.Recommendations))
	case listDoneMsg:
		if len(m.input.Recommendations) == 0 {
			m.lines = append(renderHeader(m.input, m.styles), renderEmpty(m.input.EmptyReason, m.styles))
		}
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m listModel) View() string {
	if !m.done {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.lines...)
}

func next(index, total int) tea.Cmd {
	return func() tea.Msg {
		if index >= total {
			return listDoneMsg{}
		}
		return entryMsg{index: index}
	}
}

// Render lays out input as a ranked list and returns it without printing.
func Render(input Input, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newListModel(input, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	list, ok := finalModel.(listModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return list.View(), nil
}
