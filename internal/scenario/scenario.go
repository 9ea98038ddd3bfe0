// Package scenario submits the built-in demonstration sequence: seven praises
// followed by ten votes among a fixed cast.
package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eoscanada/shine-bot/internal/execution"
	"github.com/eoscanada/shine-bot/internal/id"
	"github.com/eoscanada/shine-bot/internal/registry"
)

type Praise struct {
	Post    string
	Author  string
	Praisee string
}

type Vote struct {
	Voter string
	Post  string
}

// Praises are submitted in order; Post doubles as the praise index.
var Praises = []Praise{
	{Post: "0", Author: "matt", Praisee: "eve"},
	{Post: "1", Author: "matt", Praisee: "eve"},
	{Post: "2", Author: "evan", Praisee: "eve"},
	{Post: "3", Author: "eve", Praisee: "matt"},
	{Post: "4", Author: "mike", Praisee: "matt"},
	{Post: "5", Author: "mike", Praisee: "eve"},
	{Post: "6", Author: "mike", Praisee: "evan"},
}

// Votes reference the praises above, so they run after all praises.
var Votes = []Vote{
	{Voter: "evan", Post: "0"},
	{Voter: "evan", Post: "1"},
	{Voter: "mike", Post: "1"},
	{Voter: "mike", Post: "3"},
	{Voter: "mike", Post: "3"},
	{Voter: "evan", Post: "3"},
	{Voter: "eve", Post: "4"},
	{Voter: "matt", Post: "5"},
	{Voter: "matt", Post: "6"},
	{Voter: "eve", Post: "6"},
}

type Submitter interface {
	Dispatch(ctx context.Context, tx execution.Transaction) (execution.Result, error)
}

type Runner struct {
	Submitter Submitter
	Contract  string
	Layout    registry.Layout
	// Pace is the delay between consecutive submissions; zero disables it.
	Pace   time.Duration
	Logger *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// Steps builds every scenario transaction in submission order.
func (r *Runner) Steps() ([]execution.Transaction, error) {
	praise := registry.Lookup(registry.KindPraise)
	vote := registry.Lookup(registry.KindVote)

	steps := make([]execution.Transaction, 0, len(Praises)+len(Votes))
	for _, p := range Praises {
		values := map[string]any{
			"author":  id.Normalize(p.Author),
			"praisee": id.Normalize(p.Praisee),
			"memo":    fmt.Sprintf("%s -> %s", p.Author, p.Praisee),
		}
		if r.Layout == registry.LayoutPosted {
			values["post"] = id.Normalize(p.Post)
		}
		tx, err := praise.Build(r.Contract, r.Layout, values)
		if err != nil {
			return nil, err
		}
		steps = append(steps, tx)
	}
	for _, v := range Votes {
		values := map[string]any{"voter": id.Normalize(v.Voter)}
		if r.Layout == registry.LayoutPosted {
			values["post"] = id.Normalize(v.Post)
		} else {
			idx, err := id.ParseIndex(v.Post)
			if err != nil {
				return nil, err
			}
			values["praise_id"] = idx
		}
		tx, err := vote.Build(r.Contract, r.Layout, values)
		if err != nil {
			return nil, err
		}
		steps = append(steps, tx)
	}
	return steps, nil
}

// Run submits the steps one after another and stops at the first failure.
// It returns how many steps completed.
func (r *Runner) Run(ctx context.Context) (int, error) {
	steps, err := r.Steps()
	if err != nil {
		return 0, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "scenario")
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for i, tx := range steps {
		if i > 0 {
			if err := sleep(ctx, r.Pace); err != nil {
				return i, err
			}
		}
		logger.Info("submitting step", "step", i+1, "of", len(steps), "action", tx.Action)
		if _, err := r.Submitter.Dispatch(ctx, tx); err != nil {
			return i, fmt.Errorf("scenario step %d/%d (%s): %w", i+1, len(steps), tx.Action, err)
		}
	}
	return len(steps), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
