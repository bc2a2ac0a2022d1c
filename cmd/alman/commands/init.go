package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/alman/shellinit"
)

func newInitCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init <shell>",
		Short: "Print the shell hook that records commands",
		Long: fmt.Sprintf(`Print shell code that records every command with 'alman record' and
loads your alias file. Supported shells: %s.

Examples:
  eval "$(alman init zsh)"        # ~/.zshrc
  eval "$(alman init bash)"       # ~/.bashrc
  alman init fish | source        # ~/.config/fish/config.fish`, strings.Join(shellinit.Shells(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: shellinit.Shells(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			bin, err := os.Executable()
			if err != nil {
				bin = "alman"
			}
			script, err := shellinit.Render(args[0], shellinit.Options{
				Bin:       bin,
				DataDir:   cfg.DataDir(),
				AliasFile: cfg.PrimaryAliasFile(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}
}
