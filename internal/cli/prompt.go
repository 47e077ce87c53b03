package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Field is a value a command can ask for when it was not given as a flag
type Field struct {
	Title    string
	Value    *string
	Secret   bool
	Validate func(string) error
}

// PromptMissing shows one form with an input for every empty field.
// Nothing is shown when all fields already have values.
func PromptMissing(fields ...Field) error {
	var inputs []huh.Field
	for _, f := range fields {
		if strings.TrimSpace(*f.Value) != "" {
			continue
		}
		in := huh.NewInput().Title(f.Title).Value(f.Value)
		if f.Secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		if f.Validate != nil {
			in = in.Validate(f.Validate)
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(inputs...)).WithTheme(huh.ThemeBase()).Run(); err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	return nil
}

// Confirm asks a yes/no question, returning true without asking when assumeYes is set
func Confirm(title string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok),
	)).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return ok, nil
}

// Required rejects blank input in prompts
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}
