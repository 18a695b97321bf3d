package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/waterfall/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// waterfallHuhTheme matches huh forms to the formatter palette.
func waterfallHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(waterfallHuhTheme()).WithShowHelp(false)
}

func requiredText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// validatePositiveInt accepts a whole number of at least 1.
func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// parsePositiveInt converts already-validated input, returning fallback
// for anything that is not a positive integer.
func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func textInput(title, placeholder string, required bool, value *string) *huh.Input {
	in := huh.NewInput().Title(title).Placeholder(placeholder).Value(value)
	if required {
		in = in.Validate(requiredText(title))
	}
	return in
}

func daysInput(value *string) *huh.Input {
	if *value == "" {
		*value = "1"
	}
	return huh.NewInput().Title("Duration (days)").Placeholder("1").Value(value).Validate(validatePositiveInt)
}

// textForm collects a single line of text.
func textForm(title, placeholder string, required bool, value *string) *huh.Form {
	return newForm(huh.NewGroup(textInput(title, placeholder, required, value)))
}

// taskForm collects a new task. The assignee may be left blank.
func taskForm(title, days, assignee *string) *huh.Form {
	return newForm(huh.NewGroup(
		textInput("Title", "Write the design doc", true, title),
		daysInput(days),
		textInput("Assignee", "Unassigned", false, assignee),
	))
}

func subtaskForm(title, days *string) *huh.Form {
	return newForm(huh.NewGroup(
		textInput("Subtask", "Review", true, title),
		daysInput(days),
	))
}

func phaseForm(name, description *string) *huh.Form {
	return newForm(huh.NewGroup(
		textInput("Phase", "Discovery", true, name),
		textInput("Description", "", false, description),
	))
}

func confirmForm(title string, result *bool) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(result),
	))
}
