package commands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/alman/config"
	"github.com/teranos/alman/display"
	"github.com/teranos/alman/errors"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change alman configuration",
		Long: `Show and change alman configuration.

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. /etc/alman/config.toml
  3. ~/.alman/config.toml
  4. ~/.alman/config.json (legacy alias_file_paths)
  5. ALMAN_* environment variables
  6. Command line flags (--alias-file)

Examples:
  alman config show                    # Current configuration as TOML
  alman config show --format yaml      # ... or json / yaml
  alman config get store.backend       # One value
  alman config set store.backend sqlite
  alman config where                   # Which files were read`,
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				format = "json"
			}
			data, err := marshalConfig(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value by dotted key (e.g. store.backend)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.IsSet(args[0]) {
				return errors.WithHint(
					errors.NewNotFoundError("configuration key %q not found", args[0]),
					"list keys with: alman config show")
			}
			value := config.Get(args[0])
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), value)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in ~/.alman/config.toml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			if _, err := config.Load(); err != nil {
				return errors.WithHint(err, "the previous file is kept as "+config.UserConfigPath()+".back1")
			}
			display.Success(cmd.OutOrStdout(), fmt.Sprintf("%s = %s (%s)", args[0], args[1], config.UserConfigPath()))
			return nil
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			display.Success(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}

	where := &cobra.Command{
		Use:   "where",
		Short: "Show which configuration files are read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type fileState struct {
				Path   string `json:"path"`
				Exists bool   `json:"exists"`
			}
			var files []fileState
			for _, p := range config.SearchPaths() {
				_, err := os.Stat(p)
				files = append(files, fileState{Path: p, Exists: err == nil})
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), map[string]interface{}{
					"files":  files,
					"loaded": config.Sources(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration files (later overrides earlier):")
			for _, f := range files {
				mark := "missing"
				if f.Exists {
					mark = "found"
				}
				fmt.Fprintf(out, "  [%-7s] %s\n", mark, f.Path)
			}
			fmt.Fprintln(out, "Environment: ALMAN_DATA_DIR, ALMAN_ALIAS_FILE override store.data_dir and alias.files")
			return nil
		},
	}

	cmd.AddCommand(show, get, set, validate, where)
	return cmd
}

func marshalConfig(cfg *config.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := display.MarshalJSON(cfg, true)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return append([]byte("# alman configuration\n"), data...), nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return append([]byte("# alman configuration\n"), data...), nil
	default:
		return nil, errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}
