package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/alman/errors"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	loadedFiles   []string
	homeOverride  string
)

// Load reads the alman configuration using Viper.
// The result is cached until Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(initViperLocked())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid configuration"),
			"run `alman config where` to see which files were read",
		)
	}

	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	return initViperLocked()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific TOML file on top of the defaults
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing and hot reload)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	loadedFiles = nil
}

// SetHomeDir overrides the directory searched for user config files.
// An empty dir restores the real home directory.
func SetHomeDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	homeOverride = dir
	globalConfig = nil
	viperInstance = nil
	loadedFiles = nil
}

// Sources returns the config files merged by the last load, lowest precedence first
func Sources() []string {
	mu.Lock()
	defer mu.Unlock()
	initViperLocked()
	out := make([]string, len(loadedFiles))
	copy(out, loadedFiles)
	return out
}

// UserConfigDir returns ~/.alman (or the overridden home's equivalent)
func UserConfigDir() string {
	return filepath.Join(homeDir(), DefaultDirName)
}

// UserConfigPath returns the user-level TOML config file
func UserConfigPath() string {
	return filepath.Join(UserConfigDir(), DefaultConfigFile)
}

// SearchPaths returns every config file consulted, lowest precedence first
func SearchPaths() []string {
	return []string{
		SystemConfigPath,
		UserConfigPath(),
		filepath.Join(UserConfigDir(), LegacyConfigFile),
	}
}

func homeDir() string {
	if homeOverride != "" {
		return homeOverride
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// initViperLocked initializes Viper with configuration sources and defaults.
// Callers hold mu.
func initViperLocked() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("ALMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	loadedFiles = mergeConfigFiles(v)

	viperInstance = v
	return v
}

// mergeConfigFiles merges configuration files in precedence order.
// Files land in viper's config layer, so ALMAN_* environment variables still win.
func mergeConfigFiles(v *viper.Viper) []string {
	var merged []string

	for _, configPath := range []string{SystemConfigPath, UserConfigPath()} {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(tempViper.AllSettings()); err == nil {
			merged = append(merged, configPath)
		}
	}

	legacyPath := filepath.Join(UserConfigDir(), LegacyConfigFile)
	if paths := readLegacyAliasPaths(legacyPath); len(paths) > 0 {
		legacy := map[string]interface{}{
			"alias": map[string]interface{}{"files": paths},
		}
		if err := v.MergeConfigMap(legacy); err == nil {
			merged = append(merged, legacyPath)
		}
	}

	return merged
}

// readLegacyAliasPaths reads {"alias_file_paths": [...]} from the old JSON config
func readLegacyAliasPaths(path string) []string {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	tempViper := viper.New()
	tempViper.SetConfigFile(path)
	tempViper.SetConfigType("json")
	if err := tempViper.ReadInConfig(); err != nil {
		return nil
	}
	return tempViper.GetStringSlice("alias_file_paths")
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return GetViper().Get(key)
}

// IsSet reports whether key is a known configuration key
func IsSet(key string) bool {
	return GetViper().IsSet(key)
}
