package schema

import (
	"github.com/spf13/pflag"

	"github.com/eoscanada/shine-bot/internal/model"
	"github.com/eoscanada/shine-bot/internal/registry"
)

// Build describes the actions available under the given layout: their
// trigger flags and param flags as registered on flags, and the JSON schema
// of their payload. An empty name describes every action.
func Build(flags *pflag.FlagSet, layout registry.Layout, name string) ([]model.ActionInfo, error) {
	actions := registry.Actions()
	if name != "" {
		a, err := registry.ByName(name)
		if err != nil {
			return nil, err
		}
		actions = []registry.Action{a}
	}

	items := make([]model.ActionInfo, 0, len(actions))
	for _, a := range actions {
		info := model.ActionInfo{
			Name:     a.Name,
			Label:    a.Label,
			OnChain:  a.OnChain,
			Usage:    a.Usage,
			Triggers: []model.FlagInfo{},
		}
		for _, f := range a.Flags {
			if item, ok := lookupFlag(flags, f); ok {
				info.Triggers = append(info.Triggers, item)
			}
		}
		for _, p := range a.ParamsFor(layout) {
			param := model.ParamInfo{
				Name:     p.Name,
				Kind:     p.Value.String(),
				Optional: p.Optional,
				EnvVar:   p.EnvVar(),
			}
			if item, ok := lookupFlag(flags, p.Flag); ok {
				param.Flag = &item
			}
			info.Params = append(info.Params, param)
		}
		if a.Transactional() {
			info.Payload = a.Schema(layout)
		}
		items = append(items, info)
	}
	return items, nil
}

func lookupFlag(flags *pflag.FlagSet, name string) (model.FlagInfo, bool) {
	if flags == nil {
		return model.FlagInfo{}, false
	}
	f := flags.Lookup(name)
	if f == nil {
		return model.FlagInfo{}, false
	}
	return model.FlagInfo{
		Name:      f.Name,
		Shorthand: f.Shorthand,
		Type:      f.Value.Type(),
		Usage:     f.Usage,
		Default:   f.DefValue,
	}, true
}
