package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	confirmAnswerStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// =============================================================================
// ConfirmModel - Yes/no question before uninstalling
// =============================================================================

// ConfirmModel is the bubbletea model for the uninstall confirmation.
// Only "y" confirms. "Y", "n", enter and the quit keys decline; other keys are ignored.
type ConfirmModel struct {
	Prompt    string
	Answered  bool
	Confirmed bool
}

// NewConfirmModel creates a confirmation model showing prompt.
func NewConfirmModel(prompt string) ConfirmModel {
	return ConfirmModel{Prompt: prompt}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			m.Answered, m.Confirmed = true, true
			return m, tea.Quit
		case "Y", "n", "N", "enter", "q", "esc", "ctrl+c":
			m.Answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if !m.Answered {
		return confirmPromptStyle.Render(m.Prompt)
	}
	answer := "n"
	if m.Confirmed {
		answer = "y"
	}
	return confirmPromptStyle.Render(m.Prompt) + confirmAnswerStyle.Render(answer) + "\n"
}

// =============================================================================
// Confirmation
// =============================================================================

// confirm asks the user whether to go ahead. A terminal on in gets the
// interactive prompt; otherwise a single line is read and only "y" confirms.
func confirm(ctx context.Context, in io.Reader, out io.Writer, prompt string) (bool, error) {
	if isTerminal(in) {
		p := tea.NewProgram(NewConfirmModel(prompt),
			tea.WithContext(ctx),
			tea.WithInput(in),
			tea.WithOutput(out),
		)
		final, err := p.Run()
		if err != nil {
			return false, err
		}
		return final.(ConfirmModel).Confirmed, nil
	}

	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return strings.TrimSpace(line) == "y", nil
}
