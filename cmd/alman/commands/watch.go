package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/alman/config"
	"github.com/teranos/alman/core"
	"github.com/teranos/alman/display"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/history"
	"github.com/teranos/alman/logger"
)

const defaultSaveInterval = 30 * time.Second

func newWatchCmd(o *rootOptions) *cobra.Command {
	var saveInterval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow shell history files and record new commands",
		Long: `Follow history files and record commands as they are appended, for
shells where the 'alman init' hook is not installed. State is saved
periodically and on exit. Edits to ~/.alman/config.toml are applied
without restarting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, cfg, err := o.openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(svc, &err)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths := cfg.HistoryFiles()
			if len(paths) == 0 {
				return errors.WithHint(
					errors.NewNotFoundError("no history file to watch"),
					"set history.files: alman config set history.files ~/.zsh_history")
			}
			display.Info(cmd.ErrOrStderr(), "Watching "+joinArgs(paths)+" (Ctrl+C to stop)")
			return watch(ctx, svc, cfg, paths, saveInterval)
		},
	}
	cmd.Flags().DurationVar(&saveInterval, "save-interval", defaultSaveInterval, "How often recorded commands are saved")
	return cmd
}

// watch records appended history lines until ctx is done
func watch(ctx context.Context, svc *core.Service, cfg *config.Config, paths []string, saveInterval time.Duration) error {
	log := logger.ComponentLogger("watch")

	hw, err := history.NewWatcher(paths, time.Duration(cfg.History.DebounceMS)*time.Millisecond,
		func(path string, cmds []string) {
			n := svc.RecordAll(cmds)
			log.Infow("Recorded history lines", logger.FieldFile, path, logger.FieldLines, len(cmds), logger.FieldCount, n)
		},
		history.WithWatcherLogger(log.Named("history")))
	if err != nil {
		return err
	}
	hw.Start()
	defer hw.Stop()

	if cw, err := config.NewWatcher(config.UserConfigPath(), time.Duration(cfg.History.DebounceMS)*time.Millisecond); err != nil {
		log.Warnw("Config changes will need a restart", logger.FieldError, err)
	} else {
		cw.OnReload(func(next *config.Config) error {
			svc.Reconfigure(next)
			return nil
		})
		config.SetGlobalWatcher(cw)
		defer config.SetGlobalWatcher(nil)
		cw.Start()
		defer cw.Stop()
	}

	if saveInterval <= 0 {
		saveInterval = defaultSaveInterval
	}
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			hw.Sync()
			return nil
		case <-ticker.C:
			if err := svc.Save(); err != nil {
				log.Warnw("Periodic save failed", logger.FieldError, err)
			}
		}
	}
}
