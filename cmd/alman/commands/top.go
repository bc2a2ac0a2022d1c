package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/alman/display"
	"github.com/teranos/alman/errors"
)

func newTopCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "top [n]",
		Short: "Show the highest ranked commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, cfg, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			n, err := countArg(args, cfg.Store.DefaultTop)
			if err != nil {
				return err
			}
			if n == 0 {
				n = svc.Store().Len()
			}
			entries := svc.Top(n)
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), entries)
			}
			return display.Top(cmd.OutOrStdout(), entries, time.Now())
		},
	}
}

// countArg parses an optional count; 0 means all
func countArg(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, errors.WithHint(
			errors.NewInvalidRequestError("count must be a non-negative number, got %q", args[0]),
			"0 lists every command")
	}
	return n, nil
}
