package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user dismisses a prompt with ctrl+c or
// esc.
var ErrAborted = errors.New("prompt cancelled")

// HuhPrompter asks questions on the terminal with huh forms.
type HuhPrompter struct {
	// Accessible switches huh to plain line-based prompts for screen
	// readers.
	Accessible bool
}

func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{Accessible: accessible}
}

func (p *HuhPrompter) run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.Accessible).
		WithShowHelp(false).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (p *HuhPrompter) Select(title string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", title)
	}

	opts := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		opts[i] = huh.NewOption(c.Label, c.Value)
	}

	var picked string
	err := p.run(huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&picked))
	return picked, err
}

// Input asks for a non-blank line of text, returned trimmed.
func (p *HuhPrompter) Input(title string, defaultValue string) (string, error) {
	answer := defaultValue
	err := p.run(huh.NewInput().
		Title(title).
		Value(&answer).
		Validate(requireText))
	return strings.TrimSpace(answer), err
}

func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	answer := defaultValue
	err := p.run(huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer))
	return answer, err
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyInput
	}
	return nil
}
