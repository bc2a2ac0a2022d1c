package suggest

import (
	"fmt"
	"strings"
)

type subcommandAlias struct {
	alias  string
	reason string
}

var dockerAliases = map[string]subcommandAlias{
	"ps":    {"dps", "Docker ps"},
	"run":   {"dr", "Docker run"},
	"build": {"db", "Docker build"},
	"exec":  {"de", "Docker exec"},
	"rm":    {"drm", "Docker rm"},
	"rmi":   {"drmi", "Docker rmi"},
}

var npmAliases = map[string]subcommandAlias{
	"install": {"ni", "NPM install"},
	"run":     {"nr", "NPM run"},
	"start":   {"ns", "NPM start"},
	"test":    {"nt", "NPM test"},
	"publish": {"np", "NPM publish"},
}

// semanticAliases proposes well-known aliases for common tools, plus the
// generic first-letter-of-tool + subcommand form.
func semanticAliases(command string) []Candidate {
	words := strings.Fields(command)
	if len(words) == 0 {
		return nil
	}
	tool, args := words[0], words[1:]

	if isRelativePath(tool) {
		return relativePathAliases(command, tool, args)
	}

	var out []Candidate
	if c, ok := toolAlias(tool, args); ok {
		out = append(out, c)
	}
	if len(args) > 0 {
		out = append(out, Candidate{
			Alias:    firstRune(tool) + args[0],
			Command:  command,
			Reason:   fmt.Sprintf("%s-%s combination", tool, args[0]),
			Category: CategoryCombination,
		})
	}
	return out
}

func toolAlias(tool string, args []string) (Candidate, bool) {
	if len(args) == 0 {
		return Candidate{}, false
	}
	sub, rest := args[0], args[1:]

	switch tool {
	case "git":
		return gitAlias(sub, rest)
	case "docker":
		return tableAlias(dockerAliases, tool, sub)
	case "npm":
		return tableAlias(npmAliases, tool, sub)
	case "ssh":
		host := strings.SplitN(sub, ".", 2)[0]
		if runeLen(host) < 2 {
			return Candidate{}, false
		}
		return semantic(host, "ssh "+sub, "SSH to "+sub), true
	}
	return Candidate{}, false
}

func tableAlias(table map[string]subcommandAlias, tool, sub string) (Candidate, bool) {
	a, ok := table[sub]
	if !ok {
		return Candidate{}, false
	}
	return semantic(a.alias, tool+" "+sub, a.reason), true
}

func gitAlias(sub string, rest []string) (Candidate, bool) {
	switch sub {
	case "status":
		return semantic("gs", "git status", "Git status"), true
	case "add":
		if len(rest) > 0 && rest[0] == "." {
			return semantic("gaa", "git add .", "Git add all"), true
		}
		return semantic("ga", "git add", "Git add"), true
	case "commit":
		// The message is left to the caller: gcm "msg"
		if len(rest) >= 1 && rest[0] == "-m" {
			return semantic("gcm", "git commit -m", "Git commit with message"), true
		}
		return semantic("gc", "git commit", "Git commit"), true
	case "checkout":
		if len(rest) >= 2 && rest[0] == "-b" {
			return semantic("gcb", "git checkout -b "+rest[1], "Git checkout new branch"), true
		}
		return semantic("gco", "git checkout", "Git checkout"), true
	case "push":
		return semantic("gp", "git push", "Git push"), true
	case "pull":
		return semantic("gl", "git pull", "Git pull"), true
	case "log":
		return semantic("glg", "git log", "Git log"), true
	case "branch":
		return semantic("gb", "git branch", "Git branch"), true
	}
	return Candidate{}, false
}

func semantic(alias, command, reason string) Candidate {
	return Candidate{Alias: alias, Command: command, Reason: reason, Category: CategorySemantic}
}

// relativePathAliases names ./build/app style commands after their executable.
func relativePathAliases(command, tool string, args []string) []Candidate {
	exe := tool[strings.LastIndex(tool, "/")+1:]
	name := strings.TrimSuffix(exe, ".exe")

	out := []Candidate{{
		Alias:    name,
		Command:  command,
		Reason:   "Executable name",
		Category: CategoryOther,
	}}
	if runeLen(exe) > 2 {
		out = append(out, Candidate{
			Alias:    takeRunes(exe, 3),
			Command:  command,
			Reason:   "Executable abbreviation",
			Category: CategorySingleWord,
		})
	}
	if len(args) > 0 {
		out = append(out, Candidate{
			Alias:    firstRune(exe) + args[0],
			Command:  command,
			Reason:   fmt.Sprintf("%s-%s combination", exe, args[0]),
			Category: CategoryCombination,
		})
	}
	return out
}

func isRelativePath(word string) bool {
	return strings.HasPrefix(word, "./") || strings.HasPrefix(word, "../")
}
