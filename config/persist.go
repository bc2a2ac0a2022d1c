package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/logger"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// Save writes cfg to the user config file, keeping rotating backups
func Save(cfg *Config) error {
	return SaveTo(UserConfigPath(), cfg)
}

// SaveTo writes cfg as TOML to configPath, keeping rotating backups
func SaveTo(configPath string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "refusing to save invalid config")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return writeConfigFile(configPath, data)
}

// Set updates a single dotted key in the user config file.
// The raw value is converted to the type of the key's default.
func Set(key, raw string) error {
	configPath := UserConfigPath()

	tree, err := readTree(configPath)
	if err != nil {
		return err
	}

	v := GetViper()
	if !v.IsSet(key) {
		return errors.NewInvalidRequestError("unknown config key %q", key)
	}
	value, err := convertValue(v.Get(key), raw)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}

	setNested(tree, strings.Split(key, "."), value)

	data, err := toml.Marshal(tree)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := writeConfigFile(configPath, data); err != nil {
		return err
	}

	// Next Load sees the new value
	Reset()
	return nil
}

func readTree(configPath string) (map[string]interface{}, error) {
	tree := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return tree, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to parse %s", configPath),
			"fix the file by hand or restore one of its .back1..3 backups",
		)
	}
	return tree, nil
}

func writeConfigFile(configPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	// Mark this as our own write to prevent reload loops
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

func setNested(tree map[string]interface{}, path []string, value interface{}) {
	for _, part := range path[:len(path)-1] {
		next, ok := tree[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			tree[part] = next
		}
		tree = next
	}
	tree[path[len(path)-1]] = value
}

// convertValue parses raw into the same kind of value as current
func convertValue(current interface{}, raw string) (interface{}, error) {
	switch current.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case int, int32, int64:
		return strconv.ParseInt(raw, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(raw, 64)
	case []string, []interface{}:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}
