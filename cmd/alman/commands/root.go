// Package commands implements the alman command line.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/alman/config"
	"github.com/teranos/alman/core"
	"github.com/teranos/alman/display"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/logger"
)

// rootOptions holds global flags shared by every subcommand
type rootOptions struct {
	aliasFiles []string
	jsonOut    bool
	verbose    int

	// openOpts is passed to core.Open; tests replace collaborators here
	openOpts core.Options
}

// NewRootCmd builds the alman command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "alman",
		Short: "alman - learns the commands you repeat and suggests aliases for them",
		Long: `alman - frecency-ranked command tracking and alias suggestions

alman records the commands you run, ranks them by frequency and recency,
and proposes short aliases for the ones you type most.

Examples:
  eval "$(alman init zsh)"       # Start recording from your shell
  alman top                      # Show the most used commands
  alman suggest                  # Alias ideas for the top commands
  alman add gs -c "git status"   # Create an alias
  alman interactive              # Browse suggestions in a prompt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			jsonLogs := false
			if cfg, err := config.Load(); err == nil {
				jsonLogs = cfg.Log.JSON
			}
			if err := logger.Initialize(jsonLogs, o.verbose); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("Logger initialized", "verbosity", logger.LevelName(o.verbose), logger.FieldCommand, cmd.CommandPath())
			display.ConfigureStyling(cmd.OutOrStdout())
			return nil
		},
	}

	root.PersistentFlags().StringSliceVarP(&o.aliasFiles, "alias-file", "a", nil, "Alias file to read and write (repeatable, first is written to)")
	root.PersistentFlags().BoolVar(&o.jsonOut, "json", false, "Output results as JSON")
	root.PersistentFlags().CountVarP(&o.verbose, "verbose", "v", "Increase log verbosity (-v, -vv)")

	root.AddCommand(
		newRecordCmd(o),
		newTopCmd(o),
		newSuggestCmd(o),
		newAddCmd(o),
		newRemoveCmd(o),
		newChangeCmd(o),
		newListCmd(o),
		newDeleteSuggestionCmd(o),
		newImportCmd(o),
		newWatchCmd(o),
		newInitCmd(o),
		newInteractiveCmd(o),
		newConfigCmd(o),
		newVersionCmd(o),
	)
	return root
}

// loadConfig returns the loaded config with command line overrides applied.
// The cached config is copied, never modified.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	loaded, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg := *loaded
	if len(o.aliasFiles) > 0 {
		cfg.Alias.Files = append([]string(nil), o.aliasFiles...)
	}
	return &cfg, nil
}

// openService opens the store and prints any recovery warnings to stderr
func (o *rootOptions) openService(cmd *cobra.Command) (*core.Service, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts := o.openOpts
	if opts.Logger == nil {
		opts.Logger = logger.ChildLogger(logger.ComponentLogger("core"), logger.FieldOperation, cmd.Name())
	}
	svc, err := core.Open(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range svc.Warnings() {
		display.Warning(cmd.ErrOrStderr(), w)
	}
	return svc, cfg, nil
}

// closeService saves state; a failed save replaces a nil command error
func closeService(svc *core.Service, err *error) {
	if cerr := svc.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// PrintError writes err and its hints for the user
func PrintError(w io.Writer, err error) {
	fmt.Fprint(w, pterm.Error.Sprintln(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		for _, line := range strings.Split(hint, "\n") {
			fmt.Fprintf(w, "  hint: %s\n", line)
		}
	}
}

// joinArgs rebuilds a command line split by the shell
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
