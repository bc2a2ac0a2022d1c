package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/alman/display"
)

func newSuggestCmd(o *rootOptions) *cobra.Command {
	var (
		limit      int
		perCommand int
	)
	cmd := &cobra.Command{
		Use:   "suggest [command...]",
		Short: "Suggest aliases for your top commands, or for a given command",
		Long: `Without arguments, suggest aliases for the highest ranked commands.
With a command, list every free alias candidate for it.

Examples:
  alman suggest                  # Top commands with their best aliases
  alman suggest -n 10 --all      # Ten commands, every candidate
  alman suggest git status       # Candidates for one command`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, cfg, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				text := joinArgs(args)
				cands, err := svc.SuggestFor(cmd.Context(), text)
				if err != nil {
					return err
				}
				if display.ShouldOutputJSON(cmd) {
					return display.OutputJSON(out, cands)
				}
				return display.Candidates(out, text, cands)
			}

			if !cmd.Flags().Changed("limit") {
				limit = cfg.Store.DefaultTop
			}
			if limit <= 0 {
				limit = svc.Store().Len()
			}
			sugg, err := svc.Suggestions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(out, sugg)
			}
			if all, _ := cmd.Flags().GetBool("all"); all {
				perCommand = 0
			}
			return display.Suggestions(out, sugg, perCommand)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of commands to consider (default store.default_top, 0 = all)")
	cmd.Flags().IntVar(&perCommand, "per-command", 3, "Candidates shown per command")
	cmd.Flags().Bool("all", false, "Show every candidate")
	return cmd
}
