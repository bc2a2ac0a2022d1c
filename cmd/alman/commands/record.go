package commands

import (
	"github.com/spf13/cobra"
)

func newRecordCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "record -- <command line>",
		Short: "Record a command you just ran",
		Long: `Record a command line. The shell hook installed by 'alman init' calls
this after every command; it prints nothing on success.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			svc.Record(joinArgs(args))
			return nil
		},
	}
}
