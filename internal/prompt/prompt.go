// Package prompt provides the operator input capability used to collect
// action parameters: free-text questions and numbered menus.
package prompt

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrAborted is returned when the operator closes input or interrupts a prompt.
var ErrAborted = errors.New("input aborted")

type Question struct {
	Label string
	// Default is offered to the operator when HasDefault is set; an empty
	// answer selects it.
	Default    string
	HasDefault bool
}

// Provider answers questions and menu selections. Implementations do not
// validate answers; callers own their validation loops.
type Provider interface {
	Ask(ctx context.Context, q Question) (string, error)
	Select(ctx context.Context, label string, choices []string) (int, error)
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// matchChoice accepts a 1-based number or a case-insensitive label.
func matchChoice(input string, choices []string) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(choices) {
			return n - 1, true
		}
		return 0, false
	}
	for i, choice := range choices {
		if strings.EqualFold(choice, input) {
			return i, true
		}
	}
	return 0, false
}
