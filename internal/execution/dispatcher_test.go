package execution

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
)

type fakeExecutor struct {
	calls  [][]string
	result Result
	err    error
}

func (f *fakeExecutor) Execute(_ context.Context, argv []string) (Result, error) {
	f.calls = append(f.calls, append([]string(nil), argv...))
	return f.result, f.err
}

func TestEncodePayloadIsCanonical(t *testing.T) {
	payload, err := EncodePayload(map[string]any{"praisee": "b", "author": "a", "memo": ""})
	if err != nil {
		t.Fatalf("EncodePayload failed: %v", err)
	}
	if string(payload) != `{"author":"a","memo":"","praisee":"b"}` {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestPushArgs(t *testing.T) {
	tx := Transaction{Contract: "shine", Action: "reset"}
	got := PushArgs(tx, []byte(`{"any":0}`), true)
	want := []string{"push", "action", "shine", "reset", `{"any":0}`, "--force-unique", "--permission", "shine@active"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
	got = PushArgs(tx, []byte(`{"any":0}`), false)
	if len(got) != len(want)-1 {
		t.Fatalf("expected --force-unique to be omitted, got %v", got)
	}
}

func TestDispatchEchoesPayloadAndOutput(t *testing.T) {
	exec := &fakeExecutor{result: Result{Stdout: []byte("executed transaction: abc\n")}}
	var out bytes.Buffer
	d := &Dispatcher{Exec: exec, Out: &out, ForceUnique: true}
	_, err := d.Dispatch(context.Background(), Transaction{Contract: "shine", Action: "clear", Data: map[string]any{"any": 0}})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(exec.calls))
	}
	if exec.calls[0][4] != `{"any":0}` {
		t.Fatalf("unexpected payload arg: %s", exec.calls[0][4])
	}
	text := out.String()
	if !strings.HasPrefix(text, "Data:\n{\n  \"any\": 0\n}\n\n") {
		t.Fatalf("unexpected echo: %q", text)
	}
	if !strings.HasSuffix(text, "executed transaction: abc\n") {
		t.Fatalf("expected tool stdout verbatim, got %q", text)
	}
}

func TestDispatchJournalsFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "journal.db"), filepath.Join(dir, "journal.lock"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	exec := &fakeExecutor{
		result: Result{Stderr: []byte("missing authority"), ExitStatus: 1},
		err:    clierr.ToolFailed("cleos", 1, []byte("missing authority")),
	}
	d := &Dispatcher{Exec: exec, Store: store, RunID: "run_test"}
	_, err = d.Dispatch(context.Background(), Transaction{Contract: "shine", Action: "reset", Data: map[string]any{"any": 0}})
	if !clierr.IsToolFailure(err) {
		t.Fatalf("expected tool failure, got %v", err)
	}
	subs, err := store.List(string(SubmissionStatusFailed), 5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(subs) != 1 || subs[0].ExitStatus != 1 || subs[0].RunID != "run_test" {
		t.Fatalf("unexpected journal: %+v", subs)
	}
}

func TestDispatchRejectsIncompleteTransaction(t *testing.T) {
	d := &Dispatcher{Exec: &fakeExecutor{}}
	if _, err := d.Dispatch(context.Background(), Transaction{Action: "reset"}); err == nil {
		t.Fatal("expected error for missing contract")
	}
}
