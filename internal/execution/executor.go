package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

// Executor runs the external chain tool once per call.
type Executor interface {
	Execute(ctx context.Context, argv []string) (Result, error)
}

type CleosOptions struct {
	// Bin is the path to the cleos binary. If empty, "cleos" is used.
	Bin string
	// URL selects the node endpoint (cleos -u).
	URL        string
	WalletHost string
	WalletPort string
	// Env optionally overrides the command environment. If nil, the process
	// environment is used.
	Env []string
}

// Cleos shells out to the cleos CLI. Key management stays with cleos and
// its wallet daemon.
type Cleos struct {
	opts   CleosOptions
	logger *slog.Logger
}

func NewCleos(opts CleosOptions, logger *slog.Logger) *Cleos {
	if strings.TrimSpace(opts.Bin) == "" {
		opts.Bin = "cleos"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleos{opts: opts, logger: logger.With("component", "cleos")}
}

// Args prefixes argv with the configured endpoint options.
func (c *Cleos) Args(argv []string) []string {
	args := make([]string, 0, len(argv)+6)
	if c.opts.URL != "" {
		args = append(args, "-u", c.opts.URL)
	}
	if c.opts.WalletPort != "" {
		args = append(args, "--wallet-port", c.opts.WalletPort)
	}
	if c.opts.WalletHost != "" {
		args = append(args, "--wallet-host", c.opts.WalletHost)
	}
	return append(args, argv...)
}

func (c *Cleos) Execute(ctx context.Context, argv []string) (Result, error) {
	args := c.Args(argv)
	c.logger.Debug("invoking tool", "bin", c.opts.Bin, "args", args)

	cmd := exec.CommandContext(ctx, c.opts.Bin, args...)
	if c.opts.Env != nil {
		cmd.Env = c.opts.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		res.ExitStatus = ee.ExitCode()
		if res.ExitStatus <= 0 {
			// Terminated by a signal.
			res.ExitStatus = 1
		}
		c.logger.Debug("tool failed", "status", res.ExitStatus)
		return res, clierr.ToolFailed(c.opts.Bin, res.ExitStatus, res.Stderr)
	}
	return res, clierr.Wrap(clierr.CodeUnavailable, fmt.Sprintf("run %s", c.opts.Bin), err)
}
