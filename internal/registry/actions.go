package registry

import (
	"fmt"
	"strings"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

// Kind is the closed set of operations the bot can perform.
type Kind int

const (
	KindPraise Kind = iota
	KindVote
	KindRewards
	KindBindMember
	KindUnbindMember
	KindReset
	KindClear
	KindScenario
)

// Action describes one operation: how it is triggered, what it collects and
// which contract action it maps to.
type Action struct {
	Kind  Kind
	Name  string
	Label string
	// Flags are long trigger flags; the first one is the canonical flag.
	Flags []string
	Short string
	// OnChain is empty for actions that do not map to a single transaction.
	OnChain string
	Usage   string
	Params  []Param
	// Fixed is the placeholder payload for parameterless contract actions.
	Fixed map[string]any
}

var placeholder = map[string]any{"any": 0}

// table is ordered: trigger flags are matched in this order and the menu
// lists actions in it.
var table = []Action{
	{
		Kind:    KindPraise,
		Name:    "praise",
		Label:   "Praise",
		Flags:   []string{"praise"},
		Short:   "p",
		OnChain: "addpraise",
		Usage:   "Record a praise from one member to another",
		Params: []Param{
			{Name: "post", Label: "Post:", Value: ValueCanonicalID, DefaultKey: "post", Flag: "post", Layout: LayoutPosted},
			{Name: "author", Label: "Author:", Value: ValueCanonicalID, DefaultKey: "author", Flag: "author"},
			{Name: "praisee", Label: "Praisee:", Value: ValueCanonicalID, DefaultKey: "praisee", Flag: "praisee"},
			{Name: "memo", Label: "Memo:", Value: ValueText, Optional: true, DefaultKey: "memo", Flag: "memo"},
		},
	},
	{
		Kind:    KindVote,
		Name:    "vote",
		Label:   "Vote",
		Flags:   []string{"vote"},
		Short:   "v",
		OnChain: "addvote",
		Usage:   "Vote for an existing praise",
		Params: []Param{
			{Name: "praise_id", Label: "Praise ID:", Value: ValueInteger, DefaultKey: "praise_id", Flag: "praise-id", Layout: LayoutIndexed},
			{Name: "post", Label: "Post:", Value: ValueCanonicalID, DefaultKey: "post", Flag: "post", Layout: LayoutPosted},
			{Name: "voter", Label: "Voter:", Value: ValueCanonicalID, DefaultKey: "voter", Flag: "voter"},
		},
	},
	{
		Kind:    KindRewards,
		Name:    "rewards",
		Label:   "Rewards",
		Flags:   []string{"rewards", "distribute"},
		Short:   "r",
		OnChain: "calcrewards",
		Usage:   "Compute and distribute rewards from a pot",
		Params: []Param{
			{Name: "pot", Label: "Pot:", Value: ValueAmount, DefaultKey: "pot", Flag: "pot"},
		},
	},
	{
		Kind:    KindBindMember,
		Name:    "bind_member",
		Label:   "Bind Member",
		Flags:   []string{"bind-member"},
		Short:   "b",
		OnChain: "bindmember",
		Usage:   "Bind a member id to a ledger account",
		Params: []Param{
			{Name: "member", Label: "Member:", Value: ValueCanonicalID, DefaultKey: "bind_member", Flag: "member"},
			{Name: "account", Label: "Account:", Value: ValueAccountName, DefaultKey: "bind_account", Flag: "account"},
		},
	},
	{
		Kind:    KindUnbindMember,
		Name:    "unbind_member",
		Label:   "Unbind Member",
		Flags:   []string{"unbind-member"},
		Short:   "u",
		OnChain: "unbindmember",
		Usage:   "Remove a member binding",
		Params: []Param{
			{Name: "member", Label: "Member:", Value: ValueCanonicalID, DefaultKey: "unbind_member", Flag: "member"},
		},
	},
	{
		Kind:    KindReset,
		Name:    "reset",
		Label:   "Reset",
		Flags:   []string{"reset"},
		OnChain: "reset",
		Usage:   "Reset contract statistics",
		Fixed:   placeholder,
	},
	{
		Kind:    KindClear,
		Name:    "clear",
		Label:   "Clear",
		Flags:   []string{"clear"},
		OnChain: "clear",
		Usage:   "Clear all contract tables",
		Fixed:   placeholder,
	},
	{
		Kind:  KindScenario,
		Name:  "scenario",
		Label: "Scenario",
		Flags: []string{"scenario"},
		Short: "s",
		Usage: "Submit the built-in praise and vote scenario",
	},
}

// Actions returns every action in resolution order.
func Actions() []Action {
	out := make([]Action, len(table))
	copy(out, table)
	return out
}

func Lookup(kind Kind) Action {
	for _, a := range table {
		if a.Kind == kind {
			return a
		}
	}
	panic(fmt.Sprintf("registry: unknown action kind %d", kind))
}

// Labels returns the menu labels in table order.
func Labels() []string {
	labels := make([]string, len(table))
	for i, a := range table {
		labels[i] = a.Label
	}
	return labels
}

// ByName resolves an action from its name, trigger flag or on-chain name.
func ByName(name string) (Action, error) {
	norm := normalizeName(name)
	for _, a := range table {
		candidates := append([]string{a.Name, a.OnChain}, a.Flags...)
		for _, c := range candidates {
			if c != "" && normalizeName(c) == norm {
				return a, nil
			}
		}
	}
	return Action{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("unknown action %q", name))
}

func normalizeName(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.TrimLeft(v, "-")
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(v)
}

// Transactional reports whether the action submits exactly one transaction.
func (a Action) Transactional() bool {
	return a.OnChain != ""
}
