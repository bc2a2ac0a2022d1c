package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/alman/display"
	"github.com/teranos/alman/errors"
)

func newAddCmd(o *rootOptions) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:   "add <alias> -c <command>",
		Short: "Create an alias and stop suggesting its command",
		Long: `Append an alias to the primary alias file. The command is no longer
suggested until the alias is removed.

Examples:
  alman add gs -c "git status"
  alman add k kubectl            # command may follow the alias`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if command == "" {
				command = joinArgs(args[1:])
			} else if len(args) > 1 {
				return errors.NewInvalidRequestError("give the command either with -c or after the alias, not both")
			}
			if command == "" {
				return errors.WithHint(
					errors.NewInvalidRequestError("no command given for alias %q", args[0]),
					fmt.Sprintf("alman add %s -c \"<command>\"", args[0]))
			}

			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			if err := svc.AddAlias(args[0], command); err != nil {
				return err
			}
			return report(cmd, map[string]string{"alias": args[0], "command": command, "file": svc.AliasFiles()[0]},
				fmt.Sprintf("alias %s='%s' added to %s (open a new shell or re-source it)", args[0], command, svc.AliasFiles()[0]))
		},
	}
	cmd.Flags().StringVarP(&command, "command", "c", "", "Command the alias expands to")
	return cmd
}

func newRemoveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <alias>",
		Aliases: []string{"rm"},
		Short:   "Remove an alias and resume suggesting its command",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			removed, err := svc.RemoveAlias(args[0])
			if err != nil {
				return err
			}
			return report(cmd, removed, fmt.Sprintf("alias %s removed from %s", removed.Name, removed.File))
		},
	}
}

func newChangeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "change <old> <new> [command...]",
		Short: "Rename an alias, optionally pointing it at a new command",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			if err := svc.ChangeAlias(args[0], args[1], joinArgs(args[2:])); err != nil {
				return err
			}
			return report(cmd, map[string]string{"old": args[0], "new": args[1]},
				fmt.Sprintf("alias %s is now %s", args[0], args[1]))
		},
	}
}

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "aliases"},
		Short:   "List aliases in the alias files",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			aliases, err := svc.Aliases()
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), aliases)
			}
			return display.Aliases(cmd.OutOrStdout(), aliases)
		},
	}
}

func newDeleteSuggestionCmd(o *rootOptions) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:     "delete-suggestion <command...>",
		Aliases: []string{"forget"},
		Short:   "Stop tracking a command without creating an alias",
		Args: func(cmd *cobra.Command, args []string) error {
			if !list && len(args) == 0 {
				return errors.NewInvalidRequestError("no command given")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			if list {
				forgotten := svc.Forgotten()
				if display.ShouldOutputJSON(cmd) {
					return display.OutputJSON(cmd.OutOrStdout(), forgotten)
				}
				for _, text := range forgotten {
					fmt.Fprintln(cmd.OutOrStdout(), text)
				}
				return nil
			}

			text := joinArgs(args)
			dropped := svc.DeleteSuggestion(text)
			msg := fmt.Sprintf("%q will no longer be suggested", text)
			if !dropped {
				msg = fmt.Sprintf("%q was not tracked; it will be ignored from now on", text)
			}
			return report(cmd, map[string]interface{}{"command": text, "was_tracked": dropped}, msg)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List commands that are no longer suggested")
	return cmd
}

func newImportCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [history-file...]",
		Short: "Record every command from shell history files",
		Long: `Import bash, zsh or plain history files. Without arguments the files in
history.files are used, falling back to $HISTFILE, ~/.zsh_history and
~/.bash_history.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			n, err := svc.Import(args...)
			if err != nil {
				return err
			}
			return report(cmd, map[string]int{"imported": n}, fmt.Sprintf("imported %d commands", n))
		},
	}
}

// report prints v as JSON or msg as a success line
func report(cmd *cobra.Command, v interface{}, msg string) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), v)
	}
	display.Success(cmd.OutOrStdout(), msg)
	return nil
}
