// Package history reads shell history files and follows them as they grow.
package history

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/teranos/alman/errors"
)

// Format is a history file dialect.
type Format int

const (
	FormatPlain Format = iota
	// FormatBash is bash history, possibly with "#<epoch>" timestamp lines.
	FormatBash
	// FormatZsh is zsh history, extended (": <epoch>:<duration>;cmd") or not.
	FormatZsh
)

func (f Format) String() string {
	switch f {
	case FormatBash:
		return "bash"
	case FormatZsh:
		return "zsh"
	}
	return "plain"
}

var (
	zshExtended  = regexp.MustCompile(`^: *\d+:\d+;(.*)$`)
	bashTimeLine = regexp.MustCompile(`^#\d+$`)
)

// ParseLine extracts the command from one history line.
// It returns false for blank lines and bash timestamp lines.
func ParseLine(line string, format Format) (string, bool) {
	line = strings.TrimRight(line, "\r")
	switch format {
	case FormatZsh:
		line = unmetafy(line)
		if m := zshExtended.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
	case FormatBash:
		if bashTimeLine.MatchString(strings.TrimSpace(line)) {
			return "", false
		}
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// zsh stores bytes >= 0x83 as 0x83 followed by the byte xor 32.
func unmetafy(s string) string {
	if strings.IndexByte(s, 0x83) < 0 {
		return s
	}
	b := []byte(s)
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == 0x83 && i+1 < len(b) {
			i++
			out = append(out, b[i]^32)
			continue
		}
		out = append(out, b[i])
	}
	return string(out)
}

// DetectFormat guesses the dialect from the file name, then from the first line.
func DetectFormat(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "zsh") || base == ".histfile":
		return FormatZsh
	case strings.Contains(base, "bash"):
		return FormatBash
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatPlain
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case zshExtended.MatchString(line):
			return FormatZsh
		case bashTimeLine.MatchString(line):
			return FormatBash
		}
		break
	}
	return FormatPlain
}

// Read parses every command in r. zsh lines ending in a backslash continue
// on the next line and are joined with a space.
func Read(r io.Reader, format Format) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		out     []string
		pending strings.Builder
	)
	for sc.Scan() {
		line := sc.Text()
		if format == FormatZsh && strings.HasSuffix(line, `\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))
			pending.WriteByte(' ')
			continue
		}
		if pending.Len() > 0 {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
		}
		if cmd, ok := ParseLine(line, format); ok {
			out = append(out, cmd)
		}
	}
	if err := sc.Err(); err != nil {
		return out, errors.Wrap(err, "scan history")
	}
	if pending.Len() > 0 {
		if cmd, ok := ParseLine(pending.String(), format); ok {
			out = append(out, cmd)
		}
	}
	return out, nil
}

// ReadFile parses a whole history file, detecting its format.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open history file %s", path)
	}
	defer f.Close()

	cmds, err := Read(f, DetectFormat(path))
	if err != nil {
		return cmds, errors.Wrapf(err, "read history file %s", path)
	}
	return cmds, nil
}
