package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Agent.Command != "claude" {
		t.Errorf("default agent command: got %q", cfg.Agent.Command)
	}
	if cfg.Agent.ResumeFlag != "--resume" {
		t.Errorf("default resume flag: got %q", cfg.Agent.ResumeFlag)
	}
	if len(cfg.Tmux.Windows) != 3 {
		t.Errorf("default windows: got %d, want 3", len(cfg.Tmux.Windows))
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/sessio"
	cfg.LogFile = "/tmp/sessio.log"
	cfg.Agent.Command = "kody"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.DataDir != "/srv/sessio" {
		t.Errorf("data_dir: got %q", loaded.DataDir)
	}
	if loaded.Agent.Command != "kody" {
		t.Errorf("agent command: got %q", loaded.Agent.Command)
	}
}

func TestResolveDataDirPrecedence(t *testing.T) {
	cfg := DefaultConfig()

	cfg.DataDir = "/explicit"
	if got := cfg.ResolveDataDir(); got != "/explicit" {
		t.Errorf("explicit data_dir should win, got %q", got)
	}

	cfg.DataDir = ""
	t.Setenv("XDG_DATA_HOME", "/xdg-data")
	if got := cfg.ResolveDataDir(); got != filepath.Join("/xdg-data", "sessio") {
		t.Errorf("XDG_DATA_HOME should be used, got %q", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"

	if got := cfg.MetadataPath(); got != filepath.Join("/data", "metadata.json") {
		t.Errorf("MetadataPath: got %q", got)
	}
	if got := cfg.SessionsRoot(); got != filepath.Join("/data", "sessions") {
		t.Errorf("SessionsRoot: got %q", got)
	}
}

func TestLoadFallsBackOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfgDir := filepath.Join(dir, "sessio")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("agent: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.Agent.Command != "claude" {
		t.Errorf("expected defaults on malformed config, got %q", cfg.Agent.Command)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfgDir := filepath.Join(dir, "sessio")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "data_dir: /srv/sessio\nagent:\n  command: kody\n  resume_flag: --continue\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.DataDir != "/srv/sessio" {
		t.Errorf("data_dir: got %q", cfg.DataDir)
	}
	if cfg.Agent.ResumeFlag != "--continue" {
		t.Errorf("resume_flag: got %q", cfg.Agent.ResumeFlag)
	}
}
