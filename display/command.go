// Package display renders command results for a terminal or for scripts.
package display

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/alman/errors"
)

// OutputEnv selects JSON output when no --json flag is given
const OutputEnv = "ALMAN_OUTPUT"

// ShouldOutputJSON determines if a command should output JSON.
// An explicit --json flag wins, then the global flag, then ALMAN_OUTPUT=json.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return jsonFromEnv()
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return jsonFromEnv()
}

func jsonFromEnv() bool {
	return strings.EqualFold(os.Getenv(OutputEnv), "json")
}

// OutputJSON writes v to w, indented for terminals and compact otherwise
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v, IsTerminal(w))
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
