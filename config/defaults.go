package config

import (
	"github.com/spf13/viper"
)

// File and directory defaults
const (
	DefaultDirName        = ".alman"
	DefaultAliasFile      = "aliases"
	DefaultSQLiteFile     = "alman.db"
	DefaultConfigFile     = "config.toml"
	LegacyConfigFile      = "config.json"
	SystemConfigPath      = "/etc/alman/config.toml"
	DefaultDirPermissions = 0750
)

// Backend names for store.backend
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Store defaults
	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.data_dir", "~/"+DefaultDirName)
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.rescale_threshold", 250) // total score that triggers decay
	v.SetDefault("store.rescale_factor", 0.1)    // frequencies shrink to a tenth
	v.SetDefault("store.min_command_length", 5)  // single words this short are ignored
	v.SetDefault("store.default_top", 5)
	v.SetDefault("store.refresh_on_read", true)

	// Alias files (first is primary)
	v.SetDefault("alias.files", []string{"~/" + DefaultDirName + "/" + DefaultAliasFile})

	// History import / watch
	v.SetDefault("history.files", []string{})
	v.SetDefault("history.debounce_ms", 200)

	// System command discovery
	v.SetDefault("suggest.shell_aliases", true)
	v.SetDefault("suggest.shell_timeout_seconds", 2)

	// Interactive session
	v.SetDefault("interactive.history_file", "")
	v.SetDefault("interactive.prompt", "alman> ")

	v.SetDefault("log.json", false)
}

// BindEnvVars binds the variables exported by `alman init` to their keys
func BindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("store.data_dir", "ALMAN_DATA_DIR", "ALMAN_STORE_DATA_DIR")
	_ = v.BindEnv("alias.files", "ALMAN_ALIAS_FILE", "ALMAN_ALIAS_FILES")
}
