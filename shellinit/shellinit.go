// Package shellinit renders the snippet users add to their shell rc file.
package shellinit

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/alman/errors"
)

// Options are the values baked into the snippet.
type Options struct {
	Bin       string // path to the alman executable
	DataDir   string
	AliasFile string
}

var templates = map[string]*template.Template{}

func register(name, body string, aliases ...string) {
	t := template.Must(template.New(name).Funcs(template.FuncMap{
		"q": func(s string) string { return shellquote.Join(s) },
	}).Parse(body))
	templates[name] = t
	for _, a := range aliases {
		templates[a] = t
	}
}

func init() {
	register("bash", bashInit)
	register("zsh", zshInit)
	register("fish", fishInit)
	register("posix", posixInit, "ksh", "sh", "dash")
}

// Shells lists the accepted shell names.
func Shells() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render returns the init snippet for shell.
func Render(shell string, opts Options) (string, error) {
	t, ok := templates[strings.ToLower(strings.TrimSpace(shell))]
	if !ok {
		return "", errors.WithHintf(
			errors.NewInvalidRequestError("unsupported shell %q", shell),
			"supported shells: %s", strings.Join(Shells(), ", "))
	}
	if opts.Bin == "" {
		opts.Bin = "alman"
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, opts); err != nil {
		return "", errors.Wrapf(err, "render %s init", shell)
	}
	return buf.String(), nil
}

const bashInit = `# alman shell integration for bash
# Add to ~/.bashrc:  eval "$(alman init bash)"

export ALMAN_DATA_DIR={{q .DataDir}}
export ALMAN_ALIAS_FILE={{q .AliasFile}}
export ALMAN_BIN={{q .Bin}}

__alman_record() {
    local line
    line=$(HISTTIMEFORMAT= builtin history 1 | sed 's/^ *[0-9]* *//')
    if [ -n "$line" ] && [ "$line" != "$__alman_last" ]; then
        __alman_last=$line
        "$ALMAN_BIN" record -- "$line" 2>/dev/null
    fi
}

case ";${PROMPT_COMMAND:-};" in
    *";__alman_record;"*) ;;
    *) PROMPT_COMMAND="__alman_record${PROMPT_COMMAND:+;$PROMPT_COMMAND}" ;;
esac

[ -f "$ALMAN_ALIAS_FILE" ] && . "$ALMAN_ALIAS_FILE"
`

const zshInit = `# alman shell integration for zsh
# Add to ~/.zshrc:  eval "$(alman init zsh)"

export ALMAN_DATA_DIR={{q .DataDir}}
export ALMAN_ALIAS_FILE={{q .AliasFile}}
export ALMAN_BIN={{q .Bin}}

__alman_preexec() {
    [ -n "$1" ] && "$ALMAN_BIN" record -- "$1" 2>/dev/null
}

autoload -Uz add-zsh-hook
add-zsh-hook preexec __alman_preexec

[ -f "$ALMAN_ALIAS_FILE" ] && source "$ALMAN_ALIAS_FILE"
`

const fishInit = `# alman shell integration for fish
# Add to ~/.config/fish/config.fish:  alman init fish | source

set -gx ALMAN_DATA_DIR {{q .DataDir}}
set -gx ALMAN_ALIAS_FILE {{q .AliasFile}}
set -gx ALMAN_BIN {{q .Bin}}

function __alman_preexec --on-event fish_preexec
    if test -n "$argv[1]"
        $ALMAN_BIN record -- "$argv[1]" 2>/dev/null
    end
end

if test -f "$ALMAN_ALIAS_FILE"
    source "$ALMAN_ALIAS_FILE"
end
`

const posixInit = `# alman shell integration for POSIX shells (ksh, dash, sh)
# Add to ~/.profile or ~/.kshrc:  eval "$(alman init posix)"

export ALMAN_DATA_DIR={{q .DataDir}}
export ALMAN_ALIAS_FILE={{q .AliasFile}}
export ALMAN_BIN={{q .Bin}}

# POSIX shells have no pre-exec hook; record from the prompt instead, e.g.
#   PS1='$(__alman_record)$ '
__alman_record() {
    line=$(fc -ln -1 2>/dev/null | sed 's/^[[:space:]]*//')
    if [ -n "$line" ] && [ "$line" != "${__alman_last:-}" ]; then
        __alman_last=$line
        "$ALMAN_BIN" record -- "$line" >/dev/null 2>&1
    fi
}

[ -f "$ALMAN_ALIAS_FILE" ] && . "$ALMAN_ALIAS_FILE"
`
