package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestMarshalDefaultRoundTrips(t *testing.T) {
	data, err := MarshalDefault()
	if err != nil {
		t.Fatalf("MarshalDefault: %v", err)
	}
	var got Config
	if err := toml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Defaults()
	if got.Backend != want.Backend || got.Username != want.Username || got.Theme != want.Theme {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestLoadPrecedenceFlagBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`backend = "anthropic"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Flags{ConfigFile: path, Backend: "gemini"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "gemini" {
		t.Fatalf("Backend = %q, want gemini (flag should beat file)", cfg.Backend)
	}
}

func TestLoadUnknownKeyFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("bogus_key = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(Flags{ConfigFile: path}); err == nil {
		t.Fatal("expected an error for an unknown config key")
	}
}

func TestLoadEnvFillsBackendToken(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-env")
	cfg, err := Load(Flags{Backend: "anthropic"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.BackendFor("anthropic").Token; got != "sk-test-env" {
		t.Fatalf("token = %q, want sk-test-env", got)
	}
}
