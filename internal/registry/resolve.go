package registry

import (
	"fmt"
	"strings"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

// FromFlags returns the first action, in table order, whose trigger flag is set.
func FromFlags(changed func(name string) bool) (Action, bool) {
	for _, a := range table {
		for _, f := range a.Flags {
			if changed(f) {
				return a, true
			}
		}
	}
	return Action{}, false
}

// Resolve picks the action to run: trigger flag, then the configured action
// name, then the interactive menu. choose is nil when no menu is available;
// resolution then fails instead of falling back to a default action.
func Resolve(changed func(name string) bool, configured string, choose func(labels []string) (int, error)) (Action, error) {
	if a, ok := FromFlags(changed); ok {
		return a, nil
	}
	if strings.TrimSpace(configured) != "" {
		return ByName(configured)
	}
	if choose == nil {
		return Action{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("no action selected: pass one of %s, set SHINE_BOT_ACTION, or run from a terminal", strings.Join(triggerFlags(), ", ")))
	}
	idx, err := choose(Labels())
	if err != nil {
		return Action{}, err
	}
	if idx < 0 || idx >= len(table) {
		return Action{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("invalid action choice %d", idx))
	}
	return table[idx], nil
}

func triggerFlags() []string {
	out := make([]string, 0, len(table))
	for _, a := range table {
		out = append(out, "--"+a.Flags[0])
	}
	return out
}
