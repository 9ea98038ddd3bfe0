package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eoscanada/shine-bot/internal/collect"
	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/execution"
	"github.com/eoscanada/shine-bot/internal/id"
	"github.com/eoscanada/shine-bot/internal/policy"
	"github.com/eoscanada/shine-bot/internal/prompt"
	"github.com/eoscanada/shine-bot/internal/registry"
	"github.com/eoscanada/shine-bot/internal/scenario"
)

// registerActionFlags adds the trigger flag of every action plus one value
// flag per distinct action param.
func (s *runtimeState) registerActionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&s.flags.Quick, "quick", "q", false, "Accept configured defaults without prompting")

	s.paramFlags = map[string]*string{}
	for _, a := range registry.Actions() {
		for i, name := range a.Flags {
			usage := a.Usage
			short := ""
			if i == 0 {
				short = a.Short
			} else {
				usage = fmt.Sprintf("Alias for --%s", a.Flags[0])
			}
			flags.BoolP(name, short, false, usage)
		}
		for _, p := range a.Params {
			if _, ok := s.paramFlags[p.Flag]; ok {
				continue
			}
			v := new(string)
			s.paramFlags[p.Flag] = v
			label := strings.TrimSuffix(p.Label, ":")
			flags.StringVar(v, p.Flag, "", fmt.Sprintf("%s (%s)", label, p.Value))
		}
	}
}

// changedParamFlags returns only the param flags given on the command line.
func (s *runtimeState) changedParamFlags(cmd *cobra.Command) map[string]string {
	values := map[string]string{}
	for name, v := range s.paramFlags {
		if cmd.Flags().Changed(name) {
			values[name] = *v
		}
	}
	return values
}

func (s *runtimeState) runAction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	layout, err := registry.ParseLayout(s.settings.Layout)
	if err != nil {
		return err
	}
	input, err := s.inputProvider()
	if err != nil {
		return err
	}
	collector := &collect.Collector{Input: input, Quick: s.settings.Quick, Out: s.runner.stderr}

	contract, err := s.resolveContract(ctx, collector)
	if err != nil {
		return err
	}

	var choose func([]string) (int, error)
	if input != nil {
		choose = func(labels []string) (int, error) {
			return collector.Select(ctx, "Select an action:", labels)
		}
	}
	action, err := registry.Resolve(cmd.Flags().Changed, s.settings.Action, choose)
	if err != nil {
		return err
	}
	if err := policy.CheckActionAllowed(s.settings.EnableActions, action); err != nil {
		return err
	}
	s.logger.Info("action resolved", "action", action.Name, "contract", contract, "layout", string(layout))

	dispatcher := s.newDispatcher()
	if action.Kind == registry.KindScenario {
		runner := &scenario.Runner{
			Submitter: dispatcher,
			Contract:  contract,
			Layout:    layout,
			Pace:      s.settings.ScenarioPace,
			Logger:    s.logger,
		}
		_, err := runner.Run(ctx)
		return err
	}

	values := map[string]any{}
	for _, field := range action.Fields(layout, s.settings.Defaults, s.changedParamFlags(cmd)) {
		v, err := collector.Resolve(ctx, field)
		if err != nil {
			return err
		}
		values[field.Name] = v
	}
	tx, err := action.Build(contract, layout, values)
	if err != nil {
		return err
	}
	_, err = dispatcher.Dispatch(ctx, tx)
	return err
}

// resolveContract takes the configured contract or, failing that, asks for it.
func (s *runtimeState) resolveContract(ctx context.Context, collector *collect.Collector) (string, error) {
	field := collect.Field{
		Name:  "contract",
		Label: "Contract:",
		Validate: func(v string) error {
			_, err := id.ParseAccountName(v)
			return err
		},
		Hint: "--contract or SHINE_BOT_CONTRACT",
	}
	if configured := s.settings.Contract; configured != "" {
		field.Flag = &configured
	}
	v, err := collector.Resolve(ctx, field)
	if err != nil {
		return "", err
	}
	contract, ok := v.(string)
	if !ok {
		return "", clierr.New(clierr.CodeInternal, "contract resolved to a non-string value")
	}
	return contract, nil
}

// inputProvider returns nil when no operator is available to answer prompts.
func (s *runtimeState) inputProvider() (prompt.Provider, error) {
	if s.runner.input != nil {
		return s.runner.input, nil
	}
	if !prompt.Interactive(s.runner.stdin) {
		return nil, nil
	}
	t, err := prompt.NewTerminal()
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "open terminal", err)
	}
	s.closers = append(s.closers, t.Close)
	return t, nil
}

func (s *runtimeState) newDispatcher() *execution.Dispatcher {
	exec := s.runner.executor
	if exec == nil {
		exec = execution.NewCleos(execution.CleosOptions{
			Bin:        s.settings.CleosBin,
			URL:        s.settings.NodeURL,
			WalletHost: s.settings.WalletHost,
			WalletPort: s.settings.WalletPort,
		}, s.logger)
	}
	d := &execution.Dispatcher{
		Exec:        exec,
		Out:         s.runner.stdout,
		ForceUnique: s.settings.ForceUnique,
		RunID:       execution.NewRunID(),
		Logger:      s.logger.With("component", "dispatcher"),
	}
	if s.settings.JournalEnabled {
		store, err := execution.OpenStore(s.settings.JournalPath, s.settings.JournalLockPath)
		if err != nil {
			s.logger.Warn("journal unavailable, continuing without it", "error", err)
			return d
		}
		s.closers = append(s.closers, store.Close)
		d.Store = store
	}
	return d
}
