package config

import "github.com/teranos/alman/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return errors.Newf("store.backend must be %q or %q, got %q", BackendJSON, BackendSQLite, c.Store.Backend)
	}

	if c.Store.DataDir == "" {
		return errors.New("store.data_dir cannot be empty")
	}

	// Rescale threshold: 0 means "rescale after every insert", negative is invalid
	if c.Store.RescaleThreshold < 0 {
		return errors.Newf("store.rescale_threshold must be >= 0, got %d", c.Store.RescaleThreshold)
	}

	// Rescale factor must shrink frequencies
	if c.Store.RescaleFactor <= 0 || c.Store.RescaleFactor >= 1 {
		return errors.Newf("store.rescale_factor must be in (0, 1), got %g", c.Store.RescaleFactor)
	}

	// Min command length: 0 tracks every single-word command
	if c.Store.MinCommandLength < 0 {
		return errors.Newf("store.min_command_length must be >= 0, got %d", c.Store.MinCommandLength)
	}

	if c.Store.DefaultTop <= 0 {
		return errors.Newf("store.default_top must be > 0, got %d", c.Store.DefaultTop)
	}

	// Debounce: 0 = handle every event immediately
	if c.History.DebounceMS < 0 {
		return errors.Newf("history.debounce_ms must be >= 0, got %d", c.History.DebounceMS)
	}

	if c.Suggest.ShellAliases && c.Suggest.ShellTimeoutSeconds <= 0 {
		return errors.Newf("suggest.shell_timeout_seconds must be > 0 when shell_aliases is enabled, got %d", c.Suggest.ShellTimeoutSeconds)
	}

	return nil
}
