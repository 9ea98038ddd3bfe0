package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eoscanada/shine-bot/internal/config"
	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/execution"
	"github.com/eoscanada/shine-bot/internal/model"
	"github.com/eoscanada/shine-bot/internal/out"
	"github.com/eoscanada/shine-bot/internal/policy"
	"github.com/eoscanada/shine-bot/internal/prompt"
	"github.com/eoscanada/shine-bot/internal/version"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  *os.File
	now    func() time.Time

	// executor replaces the cleos subprocess when set.
	executor execution.Executor
	// input replaces the terminal prompt when set.
	input prompt.Provider
}

func NewRunner() *Runner {
	r := NewRunnerWithWriters(os.Stdout, os.Stderr)
	r.stdin = os.Stdin
	return r
}

// NewRunnerWithWriters builds a runner with no interactive input.
func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner      *Runner
	flags       config.GlobalFlags
	forceUnique bool
	settings    config.Settings
	logger      *slog.Logger
	root        *cobra.Command
	lastCommand string
	// paramFlags holds the per-field flag values keyed by flag name.
	paramFlags map[string]*string
	closers    []func() error
}

func (r *Runner) Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	state := &runtimeState{runner: r, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	root := state.newRootCommand()
	state.root = root
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	err = normalizeRunError(err)
	state.close()
	if err == nil {
		return 0
	}

	// A failed tool speaks for itself: its stderr and status pass through.
	if cErr, ok := clierr.As(err); ok && cErr.Code == clierr.CodeToolFailed {
		state.logger.Info("tool failed", "status", cErr.Status, "error", err)
		_, _ = r.stderr.Write(cErr.Stderr)
		return clierr.ExitCode(err)
	}
	state.renderError(err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Submit praise, vote and reward actions to the shine contract through cleos",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			if cmd.Flags().Changed("force-unique") {
				v := s.forceUnique
				s.flags.ForceUnique = &v
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "load configuration", err)
			}
			s.settings = settings
			s.lastCommand = trimRootPath(cmd.CommandPath())

			logger, err := newLogger(s.runner.stderr, settings.LogLevel)
			if err != nil {
				return err
			}
			s.logger = logger
			if unknown := policy.UnknownEntries(settings.EnableActions); len(unknown) > 0 {
				s.logger.Warn("allowlist names unknown actions", "entries", strings.Join(unknown, ","))
			}
			return nil
		},
		RunE: s.runAction,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Wrap(clierr.CodeUsage, "parse flags", err)
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")
	pf.StringVar(&s.flags.EnvFile, "env-file", "", "Path to a dotenv file (default ./.env)")
	pf.StringVar(&s.flags.Contract, "contract", "", "Contract account")
	pf.StringVar(&s.flags.Layout, "layout", "", "Contract layout: indexed or posted")
	pf.StringVar(&s.flags.Cleos, "cleos", "", "Path to the cleos binary")
	pf.StringVar(&s.flags.URL, "url", "", "Node API endpoint passed to cleos -u")
	pf.StringVar(&s.flags.WalletHost, "wallet-host", "", "Wallet daemon host")
	pf.StringVar(&s.flags.WalletPort, "wallet-port", "", "Wallet daemon port")
	pf.BoolVar(&s.forceUnique, "force-unique", true, "Pass --force-unique to cleos")
	pf.StringVar(&s.flags.Pace, "pace", "", "Delay between scenario steps (0 disables)")
	pf.BoolVar(&s.flags.NoJournal, "no-journal", false, "Do not record submissions")
	pf.StringVar(&s.flags.Output, "output", "", "Report format: plain or json")
	pf.StringVar(&s.flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&s.flags.EnableActions, "enable-actions", "", "Allowlist runnable actions (comma-separated)")

	s.registerActionFlags(cmd)

	cmd.AddCommand(s.newSchemaCommand())
	cmd.AddCommand(s.newHistoryCommand())
	cmd.AddCommand(s.newIDCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("invalid log level %q", level), err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func (s *runtimeState) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close failed", "error", err)
		}
	}
	s.closers = nil
}

func (s *runtimeState) emitSuccess(commandPath string, data any) error {
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: true,
		Data:    data,
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
		},
	}
	return out.Render(s.runner.stdout, env, s.settings.OutputMode)
}

func (s *runtimeState) renderError(err error) {
	commandPath := s.lastCommand
	if commandPath == "" {
		commandPath = version.CLIName
	}
	code := clierr.ExitCode(err)
	typ := "internal_error"
	message := err.Error()
	if cErr, ok := clierr.As(err); ok {
		switch cErr.Code {
		case clierr.CodeUsage:
			typ = "usage_error"
		case clierr.CodeUnavailable:
			typ = "tool_unavailable"
		case clierr.CodeUnsupported:
			typ = "unsupported"
		case clierr.CodeBlocked:
			typ = "action_blocked"
		}
	}

	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: false,
		Error: &model.ErrorBody{
			Code:    code,
			Type:    typ,
			Message: message,
		},
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
		},
	}
	_ = out.Render(s.runner.stderr, env, s.settings.OutputMode)
}

func newRequestID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func trimRootPath(path string) string {
	parts := strings.Fields(path)
	if len(parts) <= 1 {
		return path
	}
	return strings.Join(parts[1:], " ")
}

func normalizeRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := clierr.As(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return clierr.Wrap(clierr.CodeUsage, "interrupted", err)
	}
	if isLikelyUsageError(err) {
		return clierr.Wrap(clierr.CodeUsage, "invalid command input", err)
	}
	return clierr.Wrap(clierr.CodeInternal, "execute command", err)
}

func isLikelyUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"accepts ",
		"invalid argument",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
