// Package config loads the chat client's configuration from, in order of
// precedence (highest to lowest): CLI flags, environment variables, the
// TOML config file, and built-in defaults. Grounded on the teacher's
// internal/config/config.go, which layers spf13/viper the same way, but
// trimmed to the key set this client actually names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Editor identifies which editor adapter to use for code-block Accept
// actions.
type Editor string

const (
	EditorNone      Editor = "none"
	EditorClipboard Editor = "clipboard"
	EditorNeovim    Editor = "neovim"
)

// BackendSettings is the per-backend URL/token/timeout triple.
type BackendSettings struct {
	URL     string `mapstructure:"url" toml:"url"`
	Token   string `mapstructure:"token" toml:"token"`
	Timeout int    `mapstructure:"timeout" toml:"timeout"` // seconds; loaded but not passed to any provider
}

// Config is the complete set of keys the TOML config file, environment,
// and CLI flags may populate.
type Config struct {
	Backend    string                     `mapstructure:"backend" toml:"backend"`
	Model      string                     `mapstructure:"model" toml:"model"`
	Username   string                     `mapstructure:"username" toml:"username"`
	Theme      string                     `mapstructure:"theme" toml:"theme"`
	ThemeFile  string                     `mapstructure:"theme_file" toml:"theme_file"`
	Editor     Editor                     `mapstructure:"editor" toml:"editor"`
	Backends   map[string]BackendSettings `mapstructure:"backends" toml:"backends"`
	DebugLogs  string                     `mapstructure:"debug_logs" toml:"debug_logs"`
}

// envKeyForBackend maps a backend name to the environment variable that
// carries its API token.
var envKeyForBackend = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// Defaults returns the built-in configuration used when nothing else
// overrides a key.
func Defaults() Config {
	return Config{
		Backend:  "openai",
		Model:    "",
		Username: "You",
		Theme:    "default",
		Editor:   EditorNone,
		Backends: map[string]BackendSettings{},
	}
}

// Flags is the set of CLI-flag overrides, wired by cmd/root.go via cobra.
type Flags struct {
	ConfigFile string
	Backend    string
	Model      string
	Theme      string
	ThemeFile  string
}

// Load resolves a Config from, highest to lowest precedence: flags, env
// vars, the TOML file at flags.ConfigFile (if any), then Defaults().
// Unknown keys in the config file fail the load.
func Load(flags Flags) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	defaults := Defaults()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("username", defaults.Username)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("editor", string(defaults.Editor))

	if flags.ConfigFile != "" {
		data, err := os.ReadFile(flags.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", flags.ConfigFile, err)
		}
		if err := v.ReadConfig(strings.NewReader(string(data))); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", flags.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unknown key in config file: %w", err)
	}
	if cfg.Backends == nil {
		cfg.Backends = map[string]BackendSettings{}
	}

	// Environment variables: only the documented per-backend API-key vars
	// participate in precedence; they fill the token for whichever backend
	// is ultimately selected, applied below.
	backend := defaults.Backend
	if cfg.Backend != "" {
		backend = cfg.Backend
	}
	if flags.Backend != "" {
		backend = flags.Backend
	}
	cfg.Backend = backend

	if envVar, ok := envKeyForBackend[backend]; ok {
		if token := os.Getenv(envVar); token != "" {
			settings := cfg.Backends[backend]
			settings.Token = token
			cfg.Backends[backend] = settings
		}
	}

	if flags.Model != "" {
		cfg.Model = flags.Model
	}
	if flags.Theme != "" {
		cfg.Theme = flags.Theme
	}
	if flags.ThemeFile != "" {
		cfg.ThemeFile = flags.ThemeFile
	}
	if cfg.Editor == "" {
		cfg.Editor = defaults.Editor
	}

	return cfg, nil
}

// MarshalDefault renders Defaults() as TOML, backing the `config-file`
// subcommand and keeps defaults round-trippable through TOML.
func MarshalDefault() ([]byte, error) {
	return toml.Marshal(Defaults())
}

// BackendFor returns the settings for the named backend, or the zero
// value if none were configured.
func (c Config) BackendFor(name string) BackendSettings {
	return c.Backends[name]
}

// DataDir resolves the per-user directory sessions and other state live
// under, honoring OATMEAL_DATA_DIR for test isolation, grounded on the
// teacher's internal/session/store.go:GetDataDir.
func DataDir() (string, error) {
	if override := os.Getenv("OATMEAL_DATA_DIR"); override != "" {
		return override, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "oatmeal"), nil
}
