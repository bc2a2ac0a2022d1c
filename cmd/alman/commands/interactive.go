package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/alman/config"
	"github.com/teranos/alman/core"
	"github.com/teranos/alman/display"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/logger"
)

const sessionHelp = `Commands:
  top [n]                  ranked commands
  suggest [command...]     alias ideas for the top commands, or for one command
  add <alias> <command...> create an alias
  rm <alias>               remove an alias
  forget <command...>      stop suggesting a command
  aliases                  list aliases
  help                     this text
  quit                     leave (Ctrl+D also works)
Arguments follow shell quoting: add gcm "git commit -m"`

func newInteractiveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"tui"},
		Short:   "Browse rankings and manage aliases in a prompt",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, cfg, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			historyFile := cfg.InteractiveHistoryFile()
			if err := os.MkdirAll(filepath.Dir(historyFile), config.DefaultDirPermissions); err != nil {
				return errors.Wrap(err, "failed to create data directory")
			}

			s := &session{svc: svc, cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:            cfg.Interactive.Prompt,
				HistoryFile:       historyFile,
				InterruptPrompt:   "^C",
				EOFPrompt:         "quit",
				HistorySearchFold: true,
				AutoComplete:      s.completer(),
			})
			if err != nil {
				return errors.Wrap(err, "failed to start prompt")
			}
			defer rl.Close()

			fmt.Fprintln(s.out, "alman interactive - type help for commands")
			return s.loop(cmd.Context(), rl)
		},
	}
}

// lineReader is the part of readline the session loop uses
type lineReader interface {
	Readline() (string, error)
}

type session struct {
	svc    *core.Service
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
}

func (s *session) loop(ctx context.Context, rl lineReader) error {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read input")
		}

		quit, err := s.exec(ctx, line)
		if err != nil {
			PrintError(s.errOut, err)
		}
		if quit {
			return nil
		}
		if err := s.svc.Save(); err != nil {
			logger.Warnw("Save failed", logger.FieldError, err)
		}
	}
}

// exec runs one session command
func (s *session) exec(ctx context.Context, line string) (quit bool, err error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return false, errors.WithHint(
			errors.NewInvalidRequestError("cannot parse input: %v", err),
			"check for an unbalanced quote")
	}
	if len(words) == 0 {
		return false, nil
	}
	name, args := words[0], words[1:]

	switch name {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
		return false, nil

	case "top":
		n := s.cfg.Store.DefaultTop
		if len(args) > 0 {
			if n, err = strconv.Atoi(args[0]); err != nil || n < 0 {
				return false, errors.NewInvalidRequestError("top takes a number, got %q", args[0])
			}
			if n == 0 {
				n = s.svc.Store().Len()
			}
		}
		return false, display.Top(s.out, s.svc.Top(n), time.Now())

	case "suggest":
		if len(args) == 0 {
			sugg, err := s.svc.Suggestions(ctx, s.cfg.Store.DefaultTop)
			if err != nil {
				return false, err
			}
			return false, display.Suggestions(s.out, sugg, 3)
		}
		text := joinArgs(args)
		cands, err := s.svc.SuggestFor(ctx, text)
		if err != nil {
			return false, err
		}
		return false, display.Candidates(s.out, text, cands)

	case "add":
		if len(args) < 2 {
			return false, errors.NewInvalidRequestError("usage: add <alias> <command...>")
		}
		command := joinArgs(args[1:])
		if err := s.svc.AddAlias(args[0], command); err != nil {
			return false, err
		}
		display.Success(s.out, fmt.Sprintf("alias %s='%s' added", args[0], command))
		return false, nil

	case "rm", "remove":
		if len(args) != 1 {
			return false, errors.NewInvalidRequestError("usage: rm <alias>")
		}
		removed, err := s.svc.RemoveAlias(args[0])
		if err != nil {
			return false, err
		}
		display.Success(s.out, fmt.Sprintf("alias %s removed (%s)", removed.Name, removed.Command))
		return false, nil

	case "forget":
		if len(args) == 0 {
			return false, errors.NewInvalidRequestError("usage: forget <command...>")
		}
		text := joinArgs(args)
		s.svc.DeleteSuggestion(text)
		display.Success(s.out, fmt.Sprintf("%q will no longer be suggested", text))
		return false, nil

	case "aliases", "list":
		aliases, err := s.svc.Aliases()
		if err != nil {
			return false, err
		}
		return false, display.Aliases(s.out, aliases)

	default:
		return false, errors.WithHint(
			errors.NewInvalidRequestError("unknown command %q", name),
			"type help for the list of commands")
	}
}

func (s *session) completer() *readline.PrefixCompleter {
	aliasNames := func(string) []string {
		aliases, err := s.svc.Aliases()
		if err != nil {
			return nil
		}
		names := make([]string, len(aliases))
		for i, a := range aliases {
			names[i] = a.Name
		}
		return names
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("top"),
		readline.PcItem("suggest"),
		readline.PcItem("add"),
		readline.PcItem("rm", readline.PcItemDynamic(aliasNames)),
		readline.PcItem("forget"),
		readline.PcItem("aliases"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
