// Package config loads alman's configuration with a viper cascade:
// defaults < /etc/alman/config.toml < ~/.alman/config.toml <
// ~/.alman/config.json (legacy) < ALMAN_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Config represents the alman configuration
type Config struct {
	Store       StoreConfig       `mapstructure:"store" toml:"store" json:"store" yaml:"store"`
	Alias       AliasConfig       `mapstructure:"alias" toml:"alias" json:"alias" yaml:"alias"`
	History     HistoryConfig     `mapstructure:"history" toml:"history" json:"history" yaml:"history"`
	Suggest     SuggestConfig     `mapstructure:"suggest" toml:"suggest" json:"suggest" yaml:"suggest"`
	Interactive InteractiveConfig `mapstructure:"interactive" toml:"interactive" json:"interactive" yaml:"interactive"`
	Log         LogConfig         `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// StoreConfig configures the frecency store and its persistence
type StoreConfig struct {
	Backend          string  `mapstructure:"backend" toml:"backend" json:"backend" yaml:"backend"`                                         // json | sqlite
	DataDir          string  `mapstructure:"data_dir" toml:"data_dir" json:"data_dir" yaml:"data_dir"`                                     // default ~/.alman
	SQLitePath       string  `mapstructure:"sqlite_path" toml:"sqlite_path" json:"sqlite_path" yaml:"sqlite_path"`                         // empty = <data_dir>/alman.db
	RescaleThreshold int64   `mapstructure:"rescale_threshold" toml:"rescale_threshold" json:"rescale_threshold" yaml:"rescale_threshold"` // total score that triggers decay
	RescaleFactor    float64 `mapstructure:"rescale_factor" toml:"rescale_factor" json:"rescale_factor" yaml:"rescale_factor"`
	MinCommandLength int64   `mapstructure:"min_command_length" toml:"min_command_length" json:"min_command_length" yaml:"min_command_length"`
	DefaultTop       int     `mapstructure:"default_top" toml:"default_top" json:"default_top" yaml:"default_top"`
	RefreshOnRead    bool    `mapstructure:"refresh_on_read" toml:"refresh_on_read" json:"refresh_on_read" yaml:"refresh_on_read"`
}

// AliasConfig lists the alias files alman reads. The first one is written to.
type AliasConfig struct {
	Files []string `mapstructure:"files" toml:"files" json:"files" yaml:"files"`
}

// HistoryConfig configures history import and the watcher
type HistoryConfig struct {
	Files      []string `mapstructure:"files" toml:"files" json:"files" yaml:"files"` // empty = detect from $HISTFILE, ~/.zsh_history, ~/.bash_history
	DebounceMS int      `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// SuggestConfig configures system command discovery for conflict filtering
type SuggestConfig struct {
	ShellAliases        bool `mapstructure:"shell_aliases" toml:"shell_aliases" json:"shell_aliases" yaml:"shell_aliases"`
	ShellTimeoutSeconds int  `mapstructure:"shell_timeout_seconds" toml:"shell_timeout_seconds" json:"shell_timeout_seconds" yaml:"shell_timeout_seconds"`
}

// InteractiveConfig configures the readline session
type InteractiveConfig struct {
	HistoryFile string `mapstructure:"history_file" toml:"history_file" json:"history_file" yaml:"history_file"` // empty = <data_dir>/interactive_history
	Prompt      string `mapstructure:"prompt" toml:"prompt" json:"prompt" yaml:"prompt"`
}

// LogConfig configures logging output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// DataDir returns the expanded data directory
func (c *Config) DataDir() string {
	return ExpandHome(c.Store.DataDir)
}

// SQLitePath returns the database file used by the sqlite backend
func (c *Config) SQLitePath() string {
	if c.Store.SQLitePath != "" {
		return ExpandHome(c.Store.SQLitePath)
	}
	return filepath.Join(c.DataDir(), DefaultSQLiteFile)
}

// AliasFiles returns the expanded alias file paths, primary first
func (c *Config) AliasFiles() []string {
	files := make([]string, 0, len(c.Alias.Files))
	for _, f := range c.Alias.Files {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, ExpandHome(f))
		}
	}
	if len(files) == 0 {
		files = append(files, filepath.Join(c.DataDir(), DefaultAliasFile))
	}
	return files
}

// PrimaryAliasFile returns the alias file new aliases are written to
func (c *Config) PrimaryAliasFile() string {
	return c.AliasFiles()[0]
}

// HistoryFiles returns the configured history files, or the detected
// defaults when none are configured
func (c *Config) HistoryFiles() []string {
	var files []string
	for _, f := range c.History.Files {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, ExpandHome(f))
		}
	}
	if len(files) > 0 {
		return files
	}

	if hf := os.Getenv("HISTFILE"); hf != "" {
		files = append(files, ExpandHome(hf))
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return files
	}
	for _, name := range []string{".zsh_history", ".bash_history"} {
		p := filepath.Join(home, name)
		if _, err := os.Stat(p); err == nil && !contains(files, p) {
			files = append(files, p)
		}
	}
	return files
}

// InteractiveHistoryFile returns the readline history path
func (c *Config) InteractiveHistoryFile() string {
	if c.Interactive.HistoryFile != "" {
		return ExpandHome(c.Interactive.HistoryFile)
	}
	return filepath.Join(c.DataDir(), "interactive_history")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
