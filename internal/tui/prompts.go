package tui

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInteractiveDisabled is returned when interactive prompts are disabled
// via GITSTACK_NON_INTERACTIVE or GITSTACK_TEST_NO_INTERACTIVE.
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled")

// checkInteractiveAllowed returns an error if interactive mode is disabled for testing
func checkInteractiveAllowed() error {
	if os.Getenv("GITSTACK_NON_INTERACTIVE") != "" || os.Getenv("GITSTACK_TEST_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

// textInputModel is a simple text input prompt model
type textInputModel struct {
	textInput textinput.Model
	prompt    string
	done      bool
	err       error
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = fmt.Errorf("canceled")
			m.done = true
			return m, tea.Quit
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	styleObj := lipgloss.NewStyle().Margin(1, 0)
	return styleObj.Render(fmt.Sprintf("%s\n%s\n\n(Press Enter to submit, Ctrl+C to cancel)", m.prompt, m.textInput.View()))
}

// PromptTextInput prompts the user for a single line of text
func PromptTextInput(prompt, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	ti := textinput.New()
	ti.Placeholder = ""
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80

	m := textInputModel{
		textInput: ti,
		prompt:    prompt,
	}

	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return "", err
	}

	if finalModel, ok := model.(textInputModel); ok {
		if finalModel.err != nil {
			return "", finalModel.err
		}
		return finalModel.textInput.Value(), nil
	}

	return "", fmt.Errorf("unexpected model type")
}

// PromptConfirm asks a yes/no question
func PromptConfirm(prompt string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	confirmed := defaultValue
	question := &survey.Confirm{
		Message: prompt,
		Default: defaultValue,
	}
	if err := survey.AskOne(question, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

// BranchChoice pairs a rendered list line with the branch name it stands for
type BranchChoice struct {
	Display string // What to show (may include tree decoration)
	Value   string // Actual branch name
}

// PromptBranchSelection prompts the user to pick one branch from choices.
// initialIndex preselects an entry (the current branch, usually).
func PromptBranchSelection(message string, choices []BranchChoice, initialIndex int) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}
	if len(choices) == 0 {
		return "", fmt.Errorf("no branches to choose from")
	}

	options := make([]string, len(choices))
	byDisplay := make(map[string]string, len(choices))
	for i, choice := range choices {
		options[i] = choice.Display
		byDisplay[choice.Display] = choice.Value
	}

	question := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	if initialIndex >= 0 && initialIndex < len(options) {
		question.Default = options[initialIndex]
	}

	var picked string
	if err := survey.AskOne(question, &picked); err != nil {
		return "", err
	}
	value, ok := byDisplay[picked]
	if !ok {
		return "", fmt.Errorf("unknown selection %q", picked)
	}
	return value, nil
}
