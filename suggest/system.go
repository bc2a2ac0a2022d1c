package suggest

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/alman/logger"
)

// DiscoverOptions controls system command discovery.
type DiscoverOptions struct {
	PathEnv      string        // defaults to $PATH
	Shell        string        // defaults to $SHELL
	ShellAliases bool          // ask the shell for its aliases
	Timeout      time.Duration // bound on the shell invocation
	Logger       *zap.SugaredLogger
}

// DiscoverSystemCommands lists executable names on PATH and, when enabled,
// the aliases the user's interactive shell defines.
// Failures are logged and degrade to whatever was found.
func DiscoverSystemCommands(ctx context.Context, opts DiscoverOptions) []string {
	log := logger.OrNop(opts.Logger)
	pathEnv := opts.PathEnv
	if pathEnv == "" {
		pathEnv = os.Getenv("PATH")
	}

	names := make(map[string]struct{})
	for _, name := range scanPath(pathEnv, log) {
		names[name] = struct{}{}
	}

	if opts.ShellAliases {
		shell := opts.Shell
		if shell == "" {
			shell = os.Getenv("SHELL")
		}
		aliases, err := shellAliases(ctx, shell, opts.Timeout)
		if err != nil {
			log.Debugw("Could not read shell aliases", logger.FieldShell, shell, logger.FieldError, err)
		}
		for _, a := range aliases {
			names[a] = struct{}{}
		}
	}

	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	log.Debugw("Discovered system commands", logger.FieldCount, len(out))
	return out
}

// scanPath returns executable regular files (symlinks followed) in each PATH directory.
func scanPath(pathEnv string, log *zap.SugaredLogger) []string {
	var out []string
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Debugw("Skipping PATH directory", logger.FieldPath, dir, logger.FieldError, err)
			continue
		}
		for _, entry := range entries {
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
				continue
			}
			out = append(out, entry.Name())
		}
	}
	return out
}

// shellAliases runs `$SHELL -i -c alias` and parses alias names from its output.
func shellAliases(ctx context.Context, shell string, timeout time.Duration) ([]string, error) {
	if shell == "" {
		return nil, nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, shell, "-i", "-c", "alias")
	cmd.WaitDelay = 200 * time.Millisecond
	out, err := cmd.Output()
	// Interactive shells often exit non-zero after printing aliases
	return ParseAliasOutput(string(out)), err
}

// ParseAliasOutput extracts alias names from the output of the `alias` builtin.
// It accepts bash/zsh ("alias ll='ls -l'", "ll='ls -l'") and fish ("alias ll 'ls -l'") forms.
func ParseAliasOutput(output string) []string {
	var names []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.TrimPrefix(line, "alias ")
		name, _, _ := strings.Cut(line, "=")
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
