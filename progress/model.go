package progress

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages sent into the interactive model from the pipeline goroutine.
type (
	// setLabelMsg replaces the live stage label. An empty label hides
	// the indicator between stages.
	setLabelMsg string

	// printLineMsg emits a persistent line above the live indicator.
	printLineMsg string

	// quitMsg terminates the program after the final stage.
	quitMsg struct{}
)

// model is the Bubble Tea model for interactive stage rendering.
// It owns only presentation state; stage sequencing lives in Pipeline.
type model struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newModel() model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(SpinnerStyle),
	)
	return model{spinner: s}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case setLabelMsg:
		m.label = string(msg)
		return m, nil
	case printLineMsg:
		return m, tea.Println(string(msg))
	case quitMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		// The spinner re-renders on its own fixed tick, independent of
		// stage completion.
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done || m.label == "" {
		return ""
	}
	return m.spinner.View() + m.label
}
