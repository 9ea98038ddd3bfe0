package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/execution"
	"github.com/eoscanada/shine-bot/internal/id"
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

// Schema returns the JSON Schema document the action payload must satisfy.
// Every key is required and no other key is allowed.
func (a Action) Schema(layout Layout) map[string]any {
	properties := map[string]any{}
	required := []string{}
	if a.Fixed != nil {
		for name := range a.Fixed {
			properties[name] = map[string]any{"type": "integer"}
			required = append(required, name)
		}
	}
	for _, p := range a.ParamsFor(layout) {
		properties[p.Name] = propertySchema(p.Value)
		required = append(required, p.Name)
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                a.OnChain,
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func propertySchema(kind ValueKind) map[string]any {
	switch kind {
	case ValueCanonicalID:
		return map[string]any{"type": "string", "pattern": id.CanonicalIDPattern}
	case ValueAccountName:
		return map[string]any{"type": "string", "pattern": id.AccountNamePattern}
	case ValueAmount:
		return map[string]any{"type": "string", "pattern": id.PotPattern}
	case ValueInteger:
		return map[string]any{"type": "integer", "minimum": 0}
	default:
		return map[string]any{"type": "string"}
	}
}

func (a Action) compiled(layout Layout) (*jsonschema.Schema, error) {
	url := fmt.Sprintf("https://shine-bot.local/actions/%s.%s.schema.json", a.OnChain, layout)

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[url]; ok {
		return s, nil
	}
	doc, err := json.Marshal(a.Schema(layout))
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", a.OnChain, err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("load %s schema: %w", a.OnChain, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", a.OnChain, err)
	}
	schemaCache[url] = s
	return s, nil
}

// Build assembles the transaction for a transactional action from resolved
// values and checks it against the action schema.
func (a Action) Build(contract string, layout Layout, values map[string]any) (execution.Transaction, error) {
	if !a.Transactional() {
		return execution.Transaction{}, clierr.New(clierr.CodeUnsupported, fmt.Sprintf("%s does not submit a single transaction", a.Name))
	}
	data := make(map[string]any, len(a.Params))
	if a.Fixed != nil {
		for k, v := range a.Fixed {
			data[k] = v
		}
	} else {
		for k, v := range values {
			data[k] = v
		}
	}
	if err := a.Validate(layout, data); err != nil {
		return execution.Transaction{}, err
	}
	return execution.Transaction{Contract: contract, Action: a.OnChain, Data: data}, nil
}

// Validate checks a payload against the action schema.
func (a Action) Validate(layout Layout, data map[string]any) error {
	s, err := a.compiled(layout)
	if err != nil {
		return clierr.Wrap(clierr.CodeInternal, "payload schema", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return clierr.Wrap(clierr.CodeInternal, "encode payload", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return clierr.Wrap(clierr.CodeInternal, "decode payload", err)
	}
	if err := s.Validate(doc); err != nil {
		return clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("%s payload does not match the contract schema", a.OnChain), err)
	}
	return nil
}
