package cli

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/mcoot/circle-go/internal/contest"
)

func huhConfirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Abandon").
		Negative("Keep going").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func huhPassword(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return value, err
}

func huhUsername() (string, error) {
	var value string
	err := huh.NewInput().
		Title("Username").
		Value(&value).
		Run()
	return value, err
}

// confirmFunc adapts a prompt to contest.ConfirmFunc. A prompt error counts
// as a refusal and is kept for the caller.
func confirmFunc(ask func(string) (bool, error), promptErr *error) contest.ConfirmFunc {
	return func(prompt string) bool {
		ok, err := ask(prompt)
		if err != nil {
			*promptErr = err
			return false
		}
		return ok
	}
}

// noticeBox collects controller notifications for one-shot commands
type noticeBox struct {
	message string
}

func (n *noticeBox) Notify(message string) {
	n.message = message
}

// err prefers the notification shown to the user over the raw error
func (n *noticeBox) err(err error) error {
	if n.message != "" {
		return errors.New(n.message)
	}
	return err
}
