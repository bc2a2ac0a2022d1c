package display

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/alman/aliasfile"
	"github.com/teranos/alman/core"
	"github.com/teranos/alman/frecency"
	"github.com/teranos/alman/suggest"
)

// render writes a table with a header row
func render(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Top prints ranked commands.
func Top(w io.Writer, entries []frecency.Entry, now time.Time) error {
	if len(entries) == 0 {
		Info(w, "No commands recorded yet. Run `alman init <shell>` to start tracking.")
		return nil
	}
	max := Width(w) / 2
	data := pterm.TableData{{"#", "Command", "Uses", "Score", "Last used"}}
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncate(e.Text, max),
			strconv.FormatInt(e.Frequency, 10),
			strconv.FormatInt(e.Score, 10),
			Ago(now, time.Unix(e.LastAccess, 0)),
		})
	}
	return render(w, data)
}

// Suggestions prints up to perCommand candidates for each ranked command.
// perCommand <= 0 prints them all.
func Suggestions(w io.Writer, suggestions []core.Suggestion, perCommand int) error {
	if len(suggestions) == 0 {
		Info(w, "Nothing to suggest yet.")
		return nil
	}
	max := Width(w) / 2
	data := pterm.TableData{{"Command", "Alias", "Kind", "Why"}}
	for _, s := range suggestions {
		cands := s.Candidates
		if perCommand > 0 && len(cands) > perCommand {
			cands = cands[:perCommand]
		}
		if len(cands) == 0 {
			data = append(data, []string{truncate(s.Entry.Text, max), "-", "", "no free alias"})
			continue
		}
		for i, c := range cands {
			cmd := ""
			if i == 0 {
				cmd = truncate(s.Entry.Text, max)
			}
			data = append(data, []string{cmd, c.Alias, string(c.Category), c.Reason})
		}
	}
	return render(w, data)
}

// Candidates prints alias candidates for a single command
func Candidates(w io.Writer, command string, cands []suggest.Candidate) error {
	if len(cands) == 0 {
		Warning(w, fmt.Sprintf("No free alias for %q", command))
		return nil
	}
	data := pterm.TableData{{"Alias", "Kind", "Priority", "Why"}}
	for _, c := range cands {
		data = append(data, []string{c.Alias, string(c.Category), strconv.Itoa(c.Priority), c.Reason})
	}
	return render(w, data)
}

// Aliases prints the aliases alman manages
func Aliases(w io.Writer, aliases []aliasfile.Alias) error {
	if len(aliases) == 0 {
		Info(w, "No aliases defined.")
		return nil
	}
	data := pterm.TableData{{"Alias", "Command", "File"}}
	for _, a := range aliases {
		data = append(data, []string{a.Name, truncate(a.Command, Width(w)/2), a.File})
	}
	return render(w, data)
}

// Info prints an informational line
func Info(w io.Writer, msg string) {
	fmt.Fprint(w, pterm.Info.Sprintln(msg))
}

// Success prints a success line
func Success(w io.Writer, msg string) {
	fmt.Fprint(w, pterm.Success.Sprintln(msg))
}

// Warning prints a warning line
func Warning(w io.Writer, msg string) {
	fmt.Fprint(w, pterm.Warning.Sprintln(msg))
}

// Ago formats the time between then and now in the largest whole unit.
func Ago(now, then time.Time) string {
	d := now.Sub(then)
	switch {
	case then.IsZero() || then.Unix() <= 0:
		return "never"
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	}
}

func truncate(s string, max int) string {
	if max < 8 {
		max = 8
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
