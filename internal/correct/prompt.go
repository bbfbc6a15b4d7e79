package correct

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrCancelled reports that the operator backed out of the session.
var ErrCancelled = errors.New("correction cancelled")

// Terminal is the interactive Provider used by the CLI, backed by promptui.
type Terminal struct{}

func NewTerminal() *Terminal { return &Terminal{} }

func (t *Terminal) Edit(label, current string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", cancelIfInterrupt(err)
	}
	return value, nil
}

func (t *Terminal) Confirm(question string) (bool, error) {
	prompt := promptui.Select{
		Label: question,
		Items: []string{"yes", "no"},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return false, cancelIfInterrupt(err)
	}
	return idx == 0, nil
}

func (t *Terminal) Choose(label string, options []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: options,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return 0, cancelIfInterrupt(err)
	}
	return idx, nil
}

func (t *Terminal) Show(text string) {
	fmt.Println(text)
}

func cancelIfInterrupt(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return ErrCancelled
	}
	return err
}
