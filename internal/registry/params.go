package registry

import (
	"fmt"
	"strings"

	"github.com/eoscanada/shine-bot/internal/collect"
	"github.com/eoscanada/shine-bot/internal/id"
	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

// Layout selects the contract revision the payloads target.
type Layout string

const (
	// LayoutIndexed: praises are keyed by author/praisee and votes reference a
	// praise by numeric index.
	LayoutIndexed Layout = "indexed"
	// LayoutPosted: praises and votes carry a hashed post identifier.
	LayoutPosted Layout = "posted"
)

func ParseLayout(v string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(v))) {
	case "", LayoutIndexed:
		return LayoutIndexed, nil
	case LayoutPosted:
		return LayoutPosted, nil
	default:
		return "", clierr.New(clierr.CodeUsage, fmt.Sprintf("unknown layout %q: expected indexed or posted", v))
	}
}

type ValueKind int

const (
	ValueCanonicalID ValueKind = iota
	ValueAccountName
	ValueText
	ValueAmount
	ValueInteger
)

func (k ValueKind) String() string {
	switch k {
	case ValueCanonicalID:
		return "canonical_id"
	case ValueAccountName:
		return "account_name"
	case ValueText:
		return "text"
	case ValueAmount:
		return "amount"
	case ValueInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// Param is one payload field of an action.
type Param struct {
	Name     string
	Label    string
	Value    ValueKind
	Optional bool
	// DefaultKey names the configured default, SHINE_BOT_<DEFAULTKEY> in the
	// environment.
	DefaultKey string
	Flag       string
	// Layout restricts the param to one layout; empty means all.
	Layout Layout
}

// EnvVar is the environment variable holding the param default.
func (p Param) EnvVar() string {
	return "SHINE_BOT_" + strings.ToUpper(p.DefaultKey)
}

func (a Action) ParamsFor(layout Layout) []Param {
	out := make([]Param, 0, len(a.Params))
	for _, p := range a.Params {
		if p.Layout == "" || p.Layout == layout {
			out = append(out, p)
		}
	}
	return out
}

// Fields maps the action params to collector fields. defaults and flags hold
// only the values that are actually present.
func (a Action) Fields(layout Layout, defaults, flags map[string]string) []collect.Field {
	params := a.ParamsFor(layout)
	fields := make([]collect.Field, 0, len(params))
	for _, p := range params {
		f := collect.Field{
			Name:     p.Name,
			Label:    p.Label,
			Optional: p.Optional,
			Hint:     fmt.Sprintf("--%s, or %s with --quick", p.Flag, p.EnvVar()),
		}
		f.Validate, f.Convert = rules(p.Value)
		if v, ok := defaults[p.DefaultKey]; ok {
			v := v
			f.Default = &v
		}
		if v, ok := flags[p.Flag]; ok {
			v := v
			f.Flag = &v
		}
		fields = append(fields, f)
	}
	return fields
}

func rules(kind ValueKind) (func(string) error, func(string) (any, error)) {
	switch kind {
	case ValueCanonicalID:
		return nil, func(s string) (any, error) { return id.Normalize(s), nil }
	case ValueAccountName:
		return func(s string) error {
				_, err := id.ParseAccountName(s)
				return err
			}, func(s string) (any, error) {
				return id.ParseAccountName(s)
			}
	case ValueAmount:
		return func(s string) error {
				_, err := id.ParsePot(s)
				return err
			}, func(s string) (any, error) {
				asset, err := id.ParsePot(s)
				if err != nil {
					return nil, err
				}
				return asset.String(), nil
			}
	case ValueInteger:
		return func(s string) error {
				_, err := id.ParseIndex(s)
				return err
			}, func(s string) (any, error) {
				return id.ParseIndex(s)
			}
	default:
		return nil, nil
	}
}
