package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SHINE_BOT_"

// DefaultKeys are the per-field defaults an operator may preconfigure, read
// from the `defaults` config section and SHINE_BOT_<KEY> variables.
var DefaultKeys = []string{
	"author",
	"praisee",
	"memo",
	"post",
	"praise_id",
	"voter",
	"pot",
	"bind_member",
	"bind_account",
	"unbind_member",
}

type GlobalFlags struct {
	ConfigPath    string
	EnvFile       string
	Contract      string
	Quick         bool
	Layout        string
	Cleos         string
	URL           string
	WalletHost    string
	WalletPort    string
	ForceUnique   *bool
	Pace          string
	NoJournal     bool
	Output        string
	LogLevel      string
	EnableActions string
}

type Settings struct {
	Contract        string
	Quick           bool
	Action          string
	Layout          string
	ForceUnique     bool
	CleosBin        string
	NodeURL         string
	WalletHost      string
	WalletPort      string
	ScenarioPace    time.Duration
	JournalEnabled  bool
	JournalPath     string
	JournalLockPath string
	OutputMode      string
	LogLevel        string
	EnableActions   []string
	// Defaults holds only keys that were configured somewhere; an empty value
	// is still a present default.
	Defaults map[string]string
}

type fileConfig struct {
	Contract    string `yaml:"contract"`
	Quick       *bool  `yaml:"quick"`
	Action      string `yaml:"action"`
	Layout      string `yaml:"layout"`
	ForceUnique *bool  `yaml:"force_unique"`
	Output      string `yaml:"output"`
	LogLevel    string `yaml:"log_level"`
	Cleos       struct {
		Bin        string `yaml:"bin"`
		URL        string `yaml:"url"`
		WalletHost string `yaml:"wallet_host"`
		WalletPort string `yaml:"wallet_port"`
	} `yaml:"cleos"`
	Scenario struct {
		Pace string `yaml:"pace"`
	} `yaml:"scenario"`
	Journal struct {
		Enabled  *bool  `yaml:"enabled"`
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"journal"`
	EnableActions []string          `yaml:"enable_actions"`
	Defaults      map[string]string `yaml:"defaults"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	dotenv, err := readEnvFile(flags.EnvFile)
	if err != nil {
		return Settings{}, err
	}
	if err := applyEnv(envLookup(dotenv), &settings); err != nil {
		return Settings{}, err
	}

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	storePath, lockPath, err := defaultJournalPaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Layout:          "indexed",
		ForceUnique:     true,
		CleosBin:        "cleos",
		ScenarioPace:    time.Second,
		JournalEnabled:  true,
		JournalPath:     storePath,
		JournalLockPath: lockPath,
		OutputMode:      "plain",
		LogLevel:        "warn",
		Defaults:        map[string]string{},
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "shine-bot", "config.yaml"), nil
}

func defaultJournalPaths() (string, string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(base, "shine-bot")
	return filepath.Join(dir, "journal.db"), filepath.Join(dir, "journal.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Contract != "" {
		settings.Contract = cfg.Contract
	}
	if cfg.Quick != nil {
		settings.Quick = *cfg.Quick
	}
	if cfg.Action != "" {
		settings.Action = cfg.Action
	}
	if cfg.Layout != "" {
		settings.Layout = strings.ToLower(cfg.Layout)
	}
	if cfg.ForceUnique != nil {
		settings.ForceUnique = *cfg.ForceUnique
	}
	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = strings.ToLower(cfg.LogLevel)
	}
	if cfg.Cleos.Bin != "" {
		settings.CleosBin = cfg.Cleos.Bin
	}
	if cfg.Cleos.URL != "" {
		settings.NodeURL = cfg.Cleos.URL
	}
	if cfg.Cleos.WalletHost != "" {
		settings.WalletHost = cfg.Cleos.WalletHost
	}
	if cfg.Cleos.WalletPort != "" {
		settings.WalletPort = cfg.Cleos.WalletPort
	}
	if cfg.Scenario.Pace != "" {
		d, err := time.ParseDuration(cfg.Scenario.Pace)
		if err != nil {
			return fmt.Errorf("config scenario.pace: %w", err)
		}
		settings.ScenarioPace = d
	}
	if cfg.Journal.Enabled != nil {
		settings.JournalEnabled = *cfg.Journal.Enabled
	}
	if cfg.Journal.Path != "" {
		settings.JournalPath = cfg.Journal.Path
	}
	if cfg.Journal.LockPath != "" {
		settings.JournalLockPath = cfg.Journal.LockPath
	}
	if len(cfg.EnableActions) > 0 {
		settings.EnableActions = cleanList(cfg.EnableActions)
	}
	for key, value := range cfg.Defaults {
		settings.Defaults[strings.ToLower(key)] = value
	}
	return nil
}

// readEnvFile parses a dotenv file without touching the process environment.
// The default ./.env is optional; an explicitly named file must exist.
func readEnvFile(path string) (map[string]string, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

// envLookup prefers the process environment over the dotenv file.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func applyEnv(lookup func(string) (string, bool), settings *Settings) error {
	get := func(name string) string {
		v, _ := lookup(envPrefix + name)
		return v
	}

	if v := get("CONTRACT"); v != "" {
		settings.Contract = v
	}
	if v := get("ACTION"); v != "" {
		settings.Action = v
	}
	if v := get("QUICK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sQUICK: %w", envPrefix, err)
		}
		settings.Quick = b
	}
	if v := get("LAYOUT"); v != "" {
		settings.Layout = strings.ToLower(v)
	}
	if v := get("FORCE_UNIQUE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sFORCE_UNIQUE: %w", envPrefix, err)
		}
		settings.ForceUnique = b
	}
	if v := get("CLEOS"); v != "" {
		settings.CleosBin = v
	}
	if v := get("URL"); v != "" {
		settings.NodeURL = v
	}
	if v := get("WALLET_HOST"); v != "" {
		settings.WalletHost = v
	}
	if v := get("WALLET_PORT"); v != "" {
		settings.WalletPort = v
	}
	if v := get("SCENARIO_PACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSCENARIO_PACE: %w", envPrefix, err)
		}
		settings.ScenarioPace = d
	}
	if v := get("JOURNAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sJOURNAL: %w", envPrefix, err)
		}
		settings.JournalEnabled = b
	}
	if v := get("JOURNAL_PATH"); v != "" {
		settings.JournalPath = v
	}
	if v := get("JOURNAL_LOCK_PATH"); v != "" {
		settings.JournalLockPath = v
	}
	if v := get("OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := get("LOG_LEVEL"); v != "" {
		settings.LogLevel = strings.ToLower(v)
	}
	if v := get("ENABLE_ACTIONS"); v != "" {
		settings.EnableActions = splitList(v)
	}
	for _, key := range DefaultKeys {
		if v, ok := lookup(envPrefix + strings.ToUpper(key)); ok {
			settings.Defaults[key] = v
		}
	}
	return nil
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if strings.TrimSpace(flags.Contract) != "" {
		settings.Contract = strings.TrimSpace(flags.Contract)
	}
	if flags.Quick {
		settings.Quick = true
	}
	if flags.Layout != "" {
		settings.Layout = strings.ToLower(flags.Layout)
	}
	if flags.Cleos != "" {
		settings.CleosBin = flags.Cleos
	}
	if flags.URL != "" {
		settings.NodeURL = flags.URL
	}
	if flags.WalletHost != "" {
		settings.WalletHost = flags.WalletHost
	}
	if flags.WalletPort != "" {
		settings.WalletPort = flags.WalletPort
	}
	if flags.ForceUnique != nil {
		settings.ForceUnique = *flags.ForceUnique
	}
	if flags.Pace != "" {
		d, err := time.ParseDuration(flags.Pace)
		if err != nil {
			return fmt.Errorf("parse --pace: %w", err)
		}
		settings.ScenarioPace = d
	}
	if flags.NoJournal {
		settings.JournalEnabled = false
	}
	if flags.Output != "" {
		settings.OutputMode = strings.ToLower(flags.Output)
	}
	if flags.LogLevel != "" {
		settings.LogLevel = strings.ToLower(flags.LogLevel)
	}
	if strings.TrimSpace(flags.EnableActions) != "" {
		settings.EnableActions = splitList(flags.EnableActions)
	}

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}
	if settings.Layout != "indexed" && settings.Layout != "posted" {
		return fmt.Errorf("layout must be indexed or posted")
	}
	if settings.ScenarioPace < 0 {
		return fmt.Errorf("scenario pace must not be negative")
	}
	if settings.WalletPort != "" {
		if _, err := strconv.ParseUint(settings.WalletPort, 10, 16); err != nil {
			return fmt.Errorf("wallet port %q is not a valid port", settings.WalletPort)
		}
	}
	return nil
}

func splitList(v string) []string {
	return cleanList(strings.Split(v, ","))
}

func cleanList(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
