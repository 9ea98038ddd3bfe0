// Package collect resolves action parameters from command-line flags,
// quick-mode defaults and interactive prompts, in that order.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/prompt"
)

// Field describes one parameter to resolve.
type Field struct {
	Name     string
	Label    string
	Optional bool
	// Validate rejects raw input that does not satisfy the field pattern.
	Validate func(string) error
	// Convert maps validated input to the payload value. Nil keeps the string.
	Convert func(string) (any, error)
	// Default is nil when no default is configured.
	Default *string
	// Flag is non-nil when the value was given on the command line.
	Flag *string
	// Hint names the non-interactive sources, used in error messages.
	Hint string
}

// Collector is built once per run from the process configuration; it holds
// no state between fields.
type Collector struct {
	Input prompt.Provider
	Quick bool
	Out   io.Writer
}

func (c *Collector) Resolve(ctx context.Context, f Field) (any, error) {
	if f.Flag != nil {
		v, err := accept(f, *f.Flag)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("invalid value for --%s", f.Name), err)
		}
		return v, nil
	}
	if c.Quick {
		switch {
		case f.Default != nil && (*f.Default != "" || f.Optional):
			v, err := accept(f, *f.Default)
			if err != nil {
				return nil, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("invalid default for %s", f.Name), err)
			}
			return v, nil
		case f.Default == nil && f.Optional:
			return accept(f, "")
		}
	}
	if c.Input == nil {
		msg := fmt.Sprintf("missing %s", f.Name)
		if f.Hint != "" {
			msg = fmt.Sprintf("%s: set %s", msg, f.Hint)
		}
		return nil, clierr.New(clierr.CodeUsage, msg)
	}
	return c.ask(ctx, f)
}

func (c *Collector) ask(ctx context.Context, f Field) (any, error) {
	q := prompt.Question{Label: f.Label}
	if f.Default != nil {
		q.Default = *f.Default
		q.HasDefault = true
	}
	for {
		answer, err := c.Input.Ask(ctx, q)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return nil, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("no value for %s", f.Name), err)
			}
			return nil, err
		}
		if answer == "" && q.HasDefault {
			answer = q.Default
		}
		v, err := accept(f, answer)
		if err != nil {
			c.notify("%v\n", err)
			continue
		}
		return v, nil
	}
}

// Select resolves a menu choice, returning the chosen index.
func (c *Collector) Select(ctx context.Context, label string, choices []string) (int, error) {
	if c.Input == nil {
		return 0, clierr.New(clierr.CodeUsage, fmt.Sprintf("%s: no interactive input available", label))
	}
	idx, err := c.Input.Select(ctx, label, choices)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return 0, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("no selection for %s", label), err)
		}
		return 0, err
	}
	return idx, nil
}

func (c *Collector) notify(format string, args ...any) {
	if c.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(c.Out, format, args...)
}

func accept(f Field, raw string) (any, error) {
	if raw == "" {
		if !f.Optional {
			return nil, fmt.Errorf("%s is required", f.Name)
		}
		return convert(f, raw)
	}
	if f.Validate != nil {
		if err := f.Validate(raw); err != nil {
			return nil, err
		}
	}
	return convert(f, raw)
}

func convert(f Field, raw string) (any, error) {
	if f.Convert == nil {
		return raw, nil
	}
	return f.Convert(raw)
}
