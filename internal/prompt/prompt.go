package prompt

import "errors"

// ErrNonInteractive is returned when prompting in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// ErrEmptyInput rejects blank answers to an Input prompt.
var ErrEmptyInput = errors.New("a value is required")

// Choice is one selectable option. Label is shown; Value is returned.
type Choice struct {
	Label string
	Value string
}

// Choices builds choices whose label and value are the same.
func Choices(values ...string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Label: v, Value: v}
	}
	return out
}

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Select presents choices and returns the selected value.
	Select(title string, choices []Choice) (string, error)

	// Input prompts for text input.
	Input(title string, defaultValue string) (string, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)
}

// NoopPrompter returns errors for all prompts (non-interactive mode).
type NoopPrompter struct{}

func (p *NoopPrompter) Select(string, []Choice) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(string, string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Confirm(string, bool) (bool, error) {
	return false, ErrNonInteractive
}
