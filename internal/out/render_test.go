package out

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eoscanada/shine-bot/internal/model"
)

func TestRenderJSONEnvelope(t *testing.T) {
	env := model.Envelope{
		Version: "v1",
		Success: true,
		Data:    []model.CanonicalIDEntry{{Token: "matt", ID: "abc"}},
		Meta:    model.EnvelopeMeta{Timestamp: time.Now(), Command: "id"},
	}
	var buf bytes.Buffer
	if err := Render(&buf, env, "json"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if decoded["success"] != true {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	data := decoded["data"].([]any)
	if data[0].(map[string]any)["token"] != "matt" {
		t.Fatalf("unexpected data: %s", buf.String())
	}
}

func TestRenderPlainLines(t *testing.T) {
	env := model.Envelope{
		Success: true,
		Data: []map[string]any{
			{"action": "addpraise", "payload": map[string]any{"memo": "hi"}},
		},
	}
	var buf bytes.Buffer
	if err := Render(&buf, env, "plain"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "action=addpraise") || !strings.Contains(got, `payload={"memo":"hi"}`) {
		t.Fatalf("unexpected plain output: %s", got)
	}
}

func TestRenderPlainError(t *testing.T) {
	env := model.Envelope{Error: &model.ErrorBody{Code: 2, Type: "usage", Message: "no action selected"}}
	var buf bytes.Buffer
	if err := Render(&buf, env, "plain"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "error: no action selected\n" {
		t.Fatalf("unexpected plain error: %q", buf.String())
	}
}

func TestPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := Payload(&buf, "Data", []byte(`{"any":0}`)); err != nil {
		t.Fatalf("Payload failed: %v", err)
	}
	if buf.String() != "Data:\n{\n  \"any\": 0\n}\n\n" {
		t.Fatalf("unexpected payload echo: %q", buf.String())
	}
}
