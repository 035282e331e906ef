package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Window defines a tmux window opened alongside a launched session
type Window struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command,omitempty"`
}

// Tmux contains tmux-related configuration
type Tmux struct {
	Windows []Window `yaml:"windows"`
}

// Agent describes the external chat agent launched for a resolved session
type Agent struct {
	Command    string `yaml:"command"`
	ResumeFlag string `yaml:"resume_flag"`
}

// Config holds all configuration options
type Config struct {
	DataDir string `yaml:"data_dir,omitempty"`
	LogFile string `yaml:"log_file,omitempty"`
	Agent   Agent  `yaml:"agent"`
	Tmux    Tmux   `yaml:"tmux"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: Agent{
			Command:    "claude",
			ResumeFlag: "--resume",
		},
		Tmux: Tmux{
			Windows: []Window{
				{Name: "logs"},
				{Name: "edit"},
				{Name: "scratch"},
			},
		},
	}
}

// configPath returns the path to the config file
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sessio", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sessio", "config.yaml")
}

// Load loads config from file, falling back to defaults
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Path returns the config file path (for help text)
func Path() string {
	return configPath()
}

// ResolveDataDir returns the storage directory holding the metadata index
// and the per-work-directory session dirs. Order: explicit config value,
// $XDG_DATA_HOME/sessio, ~/.local/share/sessio.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sessio")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "sessio")
}

// MetadataPath returns the location of the metadata index file.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.ResolveDataDir(), "metadata.json")
}

// SessionsRoot returns the shared root under which every per-work-directory
// session dir lives.
func (c *Config) SessionsRoot() string {
	return filepath.Join(c.ResolveDataDir(), "sessions")
}
