// Package aliasfile reads and edits shell alias files.
//
// An alias file holds lines of the form
//
//	alias NAME='COMMAND'
//
// Values are unquoted with POSIX shell rules. Lines that are not aliases
// (comments, exports, blank lines) are kept untouched when a file is rewritten.
package aliasfile

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/internal/util"
)

const filePerm = 0o644

// Alias is one alias definition and the file it came from.
type Alias struct {
	Name    string `json:"alias"`
	Command string `json:"command"`
	File    string `json:"file,omitempty"`
}

// ParseLine parses an `alias NAME=VALUE` line.
func ParseLine(line string) (Alias, bool) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, "alias ")
	if !ok {
		return Alias{}, false
	}
	name, value, ok := strings.Cut(strings.TrimSpace(rest), "=")
	if !ok {
		return Alias{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Alias{}, false
	}
	return Alias{Name: name, Command: unquote(strings.TrimSpace(value))}, true
}

func unquote(value string) string {
	words, err := shellquote.Split(value)
	if err != nil {
		// Unbalanced quotes: strip a matching outer pair and keep the rest
		if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
			return value[1 : len(value)-1]
		}
		return value
	}
	return strings.Join(words, " ")
}

// FormatLine renders an alias definition, always single-quoting the command.
func FormatLine(name, command string) string {
	return "alias " + name + "='" + strings.ReplaceAll(command, "'", `'\''`) + "'"
}

// invalidNameChars are rejected in alias names by POSIX shells.
const invalidNameChars = " \t\n=/'\"$`\\;|&<>()"

// ValidName reports whether a shell accepts name as an alias.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, invalidNameChars)
}

// ValidateName is ValidName with an error for the user.
func ValidateName(name string) error {
	if name == "" {
		return errors.NewInvalidRequestError("alias name is empty")
	}
	if !ValidName(name) {
		return errors.NewInvalidRequestError("alias name %q contains characters a shell cannot use", name)
	}
	return nil
}

// Read returns the aliases in path in file order. A missing file reads as empty.
func Read(path string) ([]Alias, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	var out []Alias
	for _, line := range lines {
		if a, ok := ParseLine(line); ok {
			a.File = path
			out = append(out, a)
		}
	}
	return out, nil
}

// ReadAll concatenates Read over paths.
func ReadAll(paths []string) ([]Alias, error) {
	var out []Alias
	for _, p := range paths {
		aliases, err := Read(p)
		if err != nil {
			return nil, err
		}
		out = append(out, aliases...)
	}
	return out, nil
}

// Names returns the alias names defined across paths.
func Names(paths []string) ([]string, error) {
	aliases, err := ReadAll(paths)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(aliases))
	for i, a := range aliases {
		names[i] = a.Name
	}
	return names, nil
}

// Lookup finds the first definition of name across paths.
func Lookup(paths []string, name string) (Alias, bool, error) {
	for _, p := range paths {
		aliases, err := Read(p)
		if err != nil {
			return Alias{}, false, err
		}
		for _, a := range aliases {
			if a.Name == name {
				return a, true, nil
			}
		}
	}
	return Alias{}, false, nil
}

// Add appends the alias to the first path. It fails with ErrConflict if any
// file already defines name.
func Add(paths []string, name, command string) error {
	if len(paths) == 0 {
		return errors.NewInvalidRequestError("no alias file configured")
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return errors.NewInvalidRequestError("alias %q has an empty command", name)
	}

	existing, found, err := Lookup(paths, name)
	if err != nil {
		return err
	}
	if found {
		return errors.WithHintf(
			errors.NewConflictError("alias %q already exists in %s", name, existing.File),
			"remove it first with: alman remove %s", name)
	}

	primary := paths[0]
	lines, err := readLines(primary)
	if err != nil {
		return err
	}
	lines = append(lines, FormatLine(name, command))
	return writeLines(primary, lines)
}

// Remove deletes every definition of name from the first file that has one
// and returns the removed alias. ErrNotFound if no file defines it.
func Remove(paths []string, name string) (Alias, error) {
	for _, p := range paths {
		lines, err := readLines(p)
		if err != nil {
			return Alias{}, err
		}

		var removed *Alias
		kept := lines[:0:0]
		for _, line := range lines {
			if a, ok := ParseLine(line); ok && a.Name == name {
				if removed == nil {
					a.File = p
					removed = &a
				}
				continue
			}
			kept = append(kept, line)
		}
		if removed == nil {
			continue
		}
		if err := writeLines(p, kept); err != nil {
			return Alias{}, err
		}
		return *removed, nil
	}
	return Alias{}, errors.NewNotFoundError("alias %q not found", name)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read alias file %s", path)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan alias file %s", path)
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), filePerm); err != nil {
		return errors.Wrap(err, "write alias file")
	}
	return nil
}
