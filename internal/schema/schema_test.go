package schema

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/eoscanada/shine-bot/internal/registry"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("shine-bot", pflag.ContinueOnError)
	fs.BoolP("vote", "v", false, "Vote for a praise")
	fs.String("praise-id", "", "Praise index to vote for")
	fs.String("post", "", "Post identifier")
	fs.String("voter", "", "Voter handle")
	return fs
}

func TestBuildSingleActionIndexed(t *testing.T) {
	items, err := Build(testFlags(), registry.LayoutIndexed, "vote")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(items) != 1 || items[0].OnChain != "addvote" {
		t.Fatalf("unexpected items: %+v", items)
	}
	vote := items[0]
	if len(vote.Triggers) != 1 || vote.Triggers[0].Shorthand != "v" || vote.Triggers[0].Type != "bool" {
		t.Fatalf("unexpected triggers: %+v", vote.Triggers)
	}
	if len(vote.Params) != 2 || vote.Params[0].Name != "praise_id" || vote.Params[0].Flag == nil {
		t.Fatalf("unexpected params: %+v", vote.Params)
	}
	if vote.Params[1].EnvVar != "SHINE_BOT_VOTER" {
		t.Fatalf("unexpected env var: %s", vote.Params[1].EnvVar)
	}
	if vote.Payload["additionalProperties"] != false {
		t.Fatalf("expected closed payload schema, got %v", vote.Payload)
	}
}

func TestBuildPostedLayoutAndAll(t *testing.T) {
	items, err := Build(testFlags(), registry.LayoutPosted, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(items) != len(registry.Actions()) {
		t.Fatalf("expected every action, got %d", len(items))
	}
	vote := items[1]
	if vote.Params[0].Name != "post" {
		t.Fatalf("expected post param in posted layout, got %+v", vote.Params)
	}
	scenario := items[len(items)-1]
	if scenario.Payload != nil {
		t.Fatalf("scenario has no single payload, got %v", scenario.Payload)
	}
}

func TestBuildUnknownAction(t *testing.T) {
	if _, err := Build(nil, registry.LayoutIndexed, "launch"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
