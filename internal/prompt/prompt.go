// Package prompt asks the user for the data directory.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Question is shown before the directory input.
const Question = "Digite o caminho para a pasta de dados dos jogadores: "

// ErrCanceled is returned when the user leaves the prompt without answering.
var ErrCanceled = errors.New("prompt canceled")

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model is a single-line Bubble Tea input.
type Model struct {
	input    textinput.Model
	done     bool
	canceled bool
}

// NewModel constructs a focused directory input.
func NewModel() *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "jogadores"
	input.CharLimit = 4096
	input.Width = 60
	input.Focus()
	return &Model{input: input}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		promptWidth := lipgloss.Width(m.input.Prompt)
		m.input.Width = max(10, msg.Width-promptWidth-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || m.canceled {
		return ""
	}
	return questionStyle.Render(Question) + "\n" + m.input.View() + "\n" + hintStyle.Render("enter confirma, esc cancela") + "\n"
}

// Value returns the trimmed answer.
func (m *Model) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Canceled reports whether the user left without confirming.
func (m *Model) Canceled() bool {
	return m.canceled
}

// Ask reads a directory path. A terminal gets the interactive input; any other reader is read
// one line at a time.
func Ask(in *os.File, out io.Writer) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		m := NewModel()
		program := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
		if _, err := program.Run(); err != nil {
			return "", fmt.Errorf("failed to run prompt: %w", err)
		}
		if m.Canceled() {
			return "", ErrCanceled
		}
		return m.Value(), nil
	}
	return ReadLine(in, out)
}

// ReadLine prints the question and reads one line from r.
func ReadLine(r io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, Question); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", ErrCanceled
	}
	return strings.TrimSpace(line), nil
}
