package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Chdir(tmp)
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	tmp := isolate(t)
	settings, err := Load(GlobalFlags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Layout != "indexed" || !settings.ForceUnique || settings.CleosBin != "cleos" {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	if settings.ScenarioPace != time.Second || settings.OutputMode != "plain" {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	if settings.JournalPath != filepath.Join(tmp, "shine-bot", "journal.db") {
		t.Fatalf("unexpected journal path %s", settings.JournalPath)
	}
	if len(settings.Defaults) != 0 {
		t.Fatalf("expected no field defaults, got %v", settings.Defaults)
	}
}

func TestLoadPrecedenceFlagsOverEnvOverDotenvOverFile(t *testing.T) {
	tmp := isolate(t)
	configPath := filepath.Join(tmp, "config.yaml")
	yml := "contract: fromfile\nlayout: posted\nscenario:\n  pace: 3s\ndefaults:\n  author: filebob\n  voter: filevoter\n"
	if err := os.WriteFile(configPath, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	dotenv := "SHINE_BOT_CONTRACT=fromdotenv\nSHINE_BOT_AUTHOR=dotenvbob\nSHINE_BOT_MEMO=\n"
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("SHINE_BOT_CONTRACT", "fromenv")
	t.Setenv("SHINE_BOT_SCENARIO_PACE", "0s")

	settings, err := Load(GlobalFlags{ConfigPath: configPath, Contract: "fromflag"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Contract != "fromflag" {
		t.Fatalf("expected flag to win, got %s", settings.Contract)
	}
	if settings.Layout != "posted" {
		t.Fatalf("expected layout from file, got %s", settings.Layout)
	}
	if settings.ScenarioPace != 0 {
		t.Fatalf("expected env to disable pacing, got %s", settings.ScenarioPace)
	}
	if settings.Defaults["author"] != "dotenvbob" || settings.Defaults["voter"] != "filevoter" {
		t.Fatalf("unexpected defaults %v", settings.Defaults)
	}
	if memo, ok := settings.Defaults["memo"]; !ok || memo != "" {
		t.Fatalf("expected empty memo default to be present, got %q ok=%v", memo, ok)
	}
	if _, ok := os.LookupEnv("SHINE_BOT_AUTHOR"); ok {
		t.Fatal("dotenv must not leak into the process environment")
	}
}

func TestLoadProcessEnvBeatsDotenv(t *testing.T) {
	tmp := isolate(t)
	envFile := filepath.Join(tmp, "custom.env")
	if err := os.WriteFile(envFile, []byte("SHINE_BOT_CONTRACT=fromdotenv\n"), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("SHINE_BOT_CONTRACT", "fromenv")
	settings, err := Load(GlobalFlags{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Contract != "fromenv" {
		t.Fatalf("expected process env to win, got %s", settings.Contract)
	}
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	tmp := isolate(t)
	if _, err := Load(GlobalFlags{EnvFile: filepath.Join(tmp, "nope.env")}); err == nil {
		t.Fatal("expected error for missing --env-file")
	}
}

func TestLoadForceUniqueAndJournalToggles(t *testing.T) {
	isolate(t)
	t.Setenv("SHINE_BOT_FORCE_UNIQUE", "false")
	settings, err := Load(GlobalFlags{NoJournal: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.ForceUnique || settings.JournalEnabled {
		t.Fatalf("expected both disabled, got %+v", settings)
	}

	on := true
	settings, err = Load(GlobalFlags{ForceUnique: &on})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !settings.ForceUnique {
		t.Fatal("expected flag to re-enable --force-unique")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	cases := []GlobalFlags{
		{Output: "yaml"},
		{Layout: "sideways"},
		{Pace: "soon"},
		{Pace: "-1s"},
		{WalletPort: "99999"},
	}
	for _, flags := range cases {
		if _, err := Load(flags); err == nil {
			t.Fatalf("expected error for %+v", flags)
		}
	}

	t.Setenv("SHINE_BOT_QUICK", "maybe")
	if _, err := Load(GlobalFlags{}); err == nil {
		t.Fatal("expected error for malformed SHINE_BOT_QUICK")
	}
}

func TestLoadEnableActions(t *testing.T) {
	isolate(t)
	t.Setenv("SHINE_BOT_ENABLE_ACTIONS", " praise, vote ,,")
	settings, err := Load(GlobalFlags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(settings.EnableActions) != 2 || settings.EnableActions[1] != "vote" {
		t.Fatalf("unexpected allowlist %v", settings.EnableActions)
	}
}
