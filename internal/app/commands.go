package app

import (
	"fmt"

	"github.com/spf13/cobra"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/execution"
	"github.com/eoscanada/shine-bot/internal/id"
	"github.com/eoscanada/shine-bot/internal/model"
	"github.com/eoscanada/shine-bot/internal/registry"
	"github.com/eoscanada/shine-bot/internal/schema"
	"github.com/eoscanada/shine-bot/internal/version"
)

func newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			if long {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Long())
				return
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.CLIVersion)
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print extended build metadata")
	return cmd
}

func (s *runtimeState) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [action]",
		Short: "Describe actions, their flags and payload schemas",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := registry.ParseLayout(s.settings.Layout)
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			data, err := schema.Build(s.root.Flags(), layout, name)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), data)
		},
	}
}

func (s *runtimeState) newHistoryCommand() *cobra.Command {
	var status string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submissions from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch execution.SubmissionStatus(status) {
			case "", execution.SubmissionStatusPlanned, execution.SubmissionStatusRunning,
				execution.SubmissionStatusCompleted, execution.SubmissionStatusFailed:
			default:
				return clierr.New(clierr.CodeUsage, fmt.Sprintf("unknown status %q", status))
			}
			if limit <= 0 {
				return clierr.New(clierr.CodeUsage, "--limit must be positive")
			}
			store, err := execution.OpenStore(s.settings.JournalPath, s.settings.JournalLockPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "open journal", err)
			}
			s.closers = append(s.closers, store.Close)
			items, err := store.List(status, limit)
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "list submissions", err)
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: planned, running, completed or failed")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum submissions to list")
	return cmd
}

func (s *runtimeState) newIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "id <token>...",
		Short: "Print the canonical identifier of each token",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]model.CanonicalIDEntry, 0, len(args))
			for _, token := range args {
				items = append(items, model.CanonicalIDEntry{Token: token, ID: id.Normalize(token).String()})
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items)
		},
	}
}
