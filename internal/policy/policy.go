package policy

import (
	"fmt"
	"strings"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/registry"
)

// CheckActionAllowed enforces the --enable-actions allowlist. An empty
// allowlist permits everything; entries may name an action, one of its
// trigger flags or its on-chain action.
func CheckActionAllowed(allowlist []string, action registry.Action) error {
	if len(allowlist) == 0 {
		return nil
	}
	for _, allowed := range allowlist {
		match, err := registry.ByName(allowed)
		if err != nil {
			continue
		}
		if match.Kind == action.Kind {
			return nil
		}
	}
	return clierr.New(clierr.CodeBlocked, fmt.Sprintf("action %s blocked by --enable-actions policy", action.Name))
}

// UnknownEntries lists allowlist entries that name no action.
func UnknownEntries(allowlist []string) []string {
	var unknown []string
	for _, allowed := range allowlist {
		if strings.TrimSpace(allowed) == "" {
			continue
		}
		if _, err := registry.ByName(allowed); err != nil {
			unknown = append(unknown, allowed)
		}
	}
	return unknown
}
