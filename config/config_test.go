package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config lookup at a temp home and clears the cache
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	SetHomeDir(home)
	t.Cleanup(func() { SetHomeDir("") })
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.EqualValues(t, 250, cfg.Store.RescaleThreshold)
	assert.EqualValues(t, 5, cfg.Store.MinCommandLength)
	assert.InDelta(t, 0.1, cfg.Store.RescaleFactor, 1e-9)
	assert.Equal(t, 5, cfg.Store.DefaultTop)
	assert.True(t, cfg.Store.RefreshOnRead)
	assert.Equal(t, []string{"~/.alman/aliases"}, cfg.Alias.Files)
	assert.True(t, cfg.Suggest.ShellAliases)
	assert.Equal(t, 2, cfg.Suggest.ShellTimeoutSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ZeroValues(t *testing.T) {
	valid := func() Config {
		v := viper.New()
		SetDefaults(v)
		cfg, err := LoadWithViper(v)
		require.NoError(t, err)
		return *cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"zero rescale threshold is valid", func(c *Config) { c.Store.RescaleThreshold = 0 }, false},
		{"negative rescale threshold is invalid", func(c *Config) { c.Store.RescaleThreshold = -1 }, true},
		{"zero min length is valid", func(c *Config) { c.Store.MinCommandLength = 0 }, false},
		{"negative min length is invalid", func(c *Config) { c.Store.MinCommandLength = -3 }, true},
		{"rescale factor of one is invalid", func(c *Config) { c.Store.RescaleFactor = 1 }, true},
		{"zero rescale factor is invalid", func(c *Config) { c.Store.RescaleFactor = 0 }, true},
		{"unknown backend is invalid", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"sqlite backend is valid", func(c *Config) { c.Store.Backend = BackendSQLite }, false},
		{"zero default top is invalid", func(c *Config) { c.Store.DefaultTop = 0 }, true},
		{"empty data dir is invalid", func(c *Config) { c.Store.DataDir = "" }, true},
		{"zero debounce is valid", func(c *Config) { c.History.DebounceMS = 0 }, false},
		{"negative debounce is invalid", func(c *Config) { c.History.DebounceMS = -1 }, true},
		{"zero shell timeout invalid when discovering aliases", func(c *Config) { c.Suggest.ShellTimeoutSeconds = 0 }, true},
		{"zero shell timeout fine when discovery is off", func(c *Config) {
			c.Suggest.ShellAliases = false
			c.Suggest.ShellTimeoutSeconds = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".alman", "config.toml"), `
[store]
backend = "sqlite"
rescale_threshold = 500

[alias]
files = ["/tmp/one", "/tmp/two"]
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.EqualValues(t, 500, cfg.Store.RescaleThreshold)
	assert.EqualValues(t, 5, cfg.Store.MinCommandLength, "untouched keys keep defaults")
	assert.Equal(t, []string{"/tmp/one", "/tmp/two"}, cfg.AliasFiles())
	assert.Equal(t, "/tmp/one", cfg.PrimaryAliasFile())
	assert.Contains(t, Sources(), filepath.Join(home, ".alman", "config.toml"))
}

func TestLoad_EnvBeatsFiles(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".alman", "config.toml"), `
[store]
default_top = 7
`)
	t.Setenv("ALMAN_STORE_DEFAULT_TOP", "11")
	t.Setenv("ALMAN_DATA_DIR", "/var/tmp/alman-data")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 11, cfg.Store.DefaultTop)
	assert.Equal(t, "/var/tmp/alman-data", cfg.DataDir())
}

func TestLoad_LegacyJSONAliasPaths(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".alman", "config.json"),
		`{"alias_file_paths": ["/home/u/.bash_aliases", "/home/u/.zsh_aliases"]}`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/u/.bash_aliases", "/home/u/.zsh_aliases"}, cfg.AliasFiles())
}

func TestLoad_InvalidConfigCarriesHint(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".alman", "config.toml"), `
[store]
backend = "carrier-pigeon"
`)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestSet_WritesTypedValueWithBackup(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".alman", "config.toml")
	writeFile(t, path, "[store]\ndefault_top = 3\n")

	require.NoError(t, Set("store.rescale_threshold", "900"))
	require.NoError(t, Set("store.refresh_on_read", "false"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.EqualValues(t, 900, cfg.Store.RescaleThreshold)
	assert.False(t, cfg.Store.RefreshOnRead)
	assert.Equal(t, 3, cfg.Store.DefaultTop, "existing keys survive")

	assert.FileExists(t, path+".back1")
	assert.FileExists(t, path+".back2")
}

func TestSet_RejectsUnknownKeyAndBadValue(t *testing.T) {
	isolate(t)

	err := Set("store.nonsense", "1")
	require.Error(t, err)

	err = Set("store.default_top", "many")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.default_top")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	cfg.Store.Backend = BackendSQLite
	cfg.Alias.Files = []string{"/a", "/b"}
	cfg.History.Files = []string{"/home/u/.zsh_history"}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTo(path, cfg))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCreateBackup_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	for _, content := range []string{"one", "two", "three", "four"} {
		writeFile(t, path, content)
		require.NoError(t, createBackup(path))
	}

	read := func(p string) string {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "four", read(path+".back1"))
	assert.Equal(t, "three", read(path+".back2"))
	assert.Equal(t, "two", read(path+".back3"))
}

func TestPathHelpers(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".alman"), ExpandHome("~/.alman"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))

	cfg := &Config{Store: StoreConfig{DataDir: "/data"}}
	assert.Equal(t, "/data/alman.db", cfg.SQLitePath())
	assert.Equal(t, []string{"/data/aliases"}, cfg.AliasFiles())
	assert.Equal(t, "/data/interactive_history", cfg.InteractiveHistoryFile())

	cfg.History.Files = []string{" /h1 ", ""}
	assert.Equal(t, []string{"/h1"}, cfg.HistoryFiles())
}
