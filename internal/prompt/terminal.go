package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Terminal is a readline-backed Provider for interactive sessions.
type Terminal struct {
	rl *readline.Instance
}

func NewTerminal() (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Terminal{rl: rl}, nil
}

func (t *Terminal) Close() error {
	if t == nil || t.rl == nil {
		return nil
	}
	return t.rl.Close()
}

func (t *Terminal) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	label := strings.TrimSpace(q.Label)
	if q.HasDefault && q.Default != "" {
		label = fmt.Sprintf("%s (%s)", label, q.Default)
	}
	t.rl.SetPrompt(label + " ")
	line, err := t.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Select(ctx context.Context, label string, choices []string) (int, error) {
	if len(choices) == 0 {
		return 0, fmt.Errorf("select %s: no choices", label)
	}
	out := t.rl.Stdout()
	_, _ = fmt.Fprintln(out, label)
	for i, choice := range choices {
		_, _ = fmt.Fprintf(out, "  %d) %s\n", i+1, choice)
	}
	for {
		answer, err := t.Ask(ctx, Question{Label: fmt.Sprintf("Choose [1-%d]:", len(choices))})
		if err != nil {
			return 0, err
		}
		if idx, ok := matchChoice(answer, choices); ok {
			return idx, nil
		}
		_, _ = fmt.Fprintf(out, "Invalid choice %q\n", answer)
	}
}
