package model

import "time"

const EnvelopeVersion = "v1"

type Envelope struct {
	Version string       `json:"version"`
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorBody   `json:"error"`
	Meta    EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
}

// CanonicalIDEntry pairs an operator-facing token with its on-chain identifier.
type CanonicalIDEntry struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

type ActionInfo struct {
	Name     string         `json:"name"`
	Label    string         `json:"label"`
	OnChain  string         `json:"on_chain,omitempty"`
	Usage    string         `json:"usage"`
	Triggers []FlagInfo     `json:"triggers"`
	Params   []ParamInfo    `json:"params,omitempty"`
	Payload  map[string]any `json:"payload_schema,omitempty"`
}

type FlagInfo struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
}

type ParamInfo struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Optional bool      `json:"optional,omitempty"`
	Flag     *FlagInfo `json:"flag,omitempty"`
	EnvVar   string    `json:"env_var"`
}
