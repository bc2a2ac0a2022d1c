// Package core is the application service behind every alman command.
//
// A Service owns the frecency store for one invocation: it loads state
// through the configured backend, applies user operations, and saves the
// result. Alias files are read on demand so edits made by hand are seen.
package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/alman/aliasfile"
	"github.com/teranos/alman/config"
	"github.com/teranos/alman/errors"
	"github.com/teranos/alman/frecency"
	"github.com/teranos/alman/history"
	"github.com/teranos/alman/ingest"
	"github.com/teranos/alman/logger"
	"github.com/teranos/alman/persist"
	"github.com/teranos/alman/suggest"
)

// SystemCommandsFunc lists names an alias must not shadow.
type SystemCommandsFunc func(ctx context.Context) []string

// Options override collaborators, mostly for tests.
type Options struct {
	Logger         *zap.SugaredLogger
	Clock          func() time.Time
	Backend        persist.Backend    // default: persist.New(cfg)
	SystemCommands SystemCommandsFunc // default: PATH scan plus shell aliases
	SelfName       string             // default: ingest.SelfName()
}

// Suggestion is a ranked command with its alias candidates.
type Suggestion struct {
	Entry      frecency.Entry      `json:"entry"`
	Candidates []suggest.Candidate `json:"candidates"`
}

// Service coordinates the store, persistence and alias files.
type Service struct {
	mu         sync.Mutex
	cfg        *config.Config
	store      *frecency.Store
	backend    persist.Backend
	pipeline   *ingest.Pipeline
	aliasFiles []string
	warnings   []string
	dirty      bool
	refresh    atomic.Bool
	logger     *zap.SugaredLogger

	systemFn   SystemCommandsFunc
	systemOnce sync.Once
	system     []string
}

// Open loads state for cfg. Unreadable state is moved aside and replaced by
// an empty store; the move is reported through Warnings.
func Open(cfg *config.Config, opts Options) (*Service, error) {
	if cfg == nil {
		return nil, errors.NewInvalidRequestError("nil config")
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("core")
	}

	backend := opts.Backend
	if backend == nil {
		b, err := persist.New(cfg, log.Named("persist"))
		if err != nil {
			return nil, err
		}
		backend = b
	}

	s := &Service{
		cfg:        cfg,
		backend:    backend,
		aliasFiles: cfg.AliasFiles(),
		logger:     log,
		systemFn:   opts.SystemCommands,
	}
	if s.systemFn == nil {
		s.systemFn = s.discoverSystemCommands
	}
	s.refresh.Store(cfg.Store.RefreshOnRead)

	snap, err := backend.Load()
	if err != nil {
		if !errors.IsCorruptStateError(err) {
			backend.Close()
			return nil, errors.Wrapf(err, "load %s state", backend.Name())
		}
		moved, qerr := backend.Quarantine()
		if qerr != nil {
			backend.Close()
			return nil, errors.CombineErrors(err, qerr)
		}
		msg := fmt.Sprintf("stored command history was unreadable (%v); moved to %v and started empty", err, moved)
		s.warnings = append(s.warnings, msg)
		log.Warnw("Recovered from corrupt state",
			logger.FieldBackend, backend.Name(),
			"moved", moved,
			logger.FieldError, err)
		snap = nil
		s.dirty = true
	}

	storeOpts := []frecency.Option{
		frecency.WithThreshold(cfg.Store.RescaleThreshold),
		frecency.WithMinLength(cfg.Store.MinCommandLength),
		frecency.WithRescaleFactor(cfg.Store.RescaleFactor),
		frecency.WithDefaultTop(cfg.Store.DefaultTop),
		frecency.WithLogger(log.Named("store")),
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, frecency.WithClock(opts.Clock))
	}
	s.store = frecency.NewFromSnapshot(snap, storeOpts...)

	pipeOpts := []ingest.Option{ingest.WithLogger(log.Named("ingest"))}
	if opts.SelfName != "" {
		pipeOpts = append(pipeOpts, ingest.WithSelfName(opts.SelfName))
	}
	s.pipeline = ingest.New(s.store, pipeOpts...)

	log.Debugw("Service ready",
		logger.FieldBackend, backend.Name(),
		logger.FieldEntries, s.store.Len(),
		"alias_files", s.aliasFiles)
	return s, nil
}

// Warnings returns problems recovered from while opening.
func (s *Service) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// AliasFiles returns the alias files in use, primary first.
func (s *Service) AliasFiles() []string {
	return append([]string(nil), s.aliasFiles...)
}

// Record ingests one command line.
func (s *Service) Record(line string) bool {
	ok := s.pipeline.Insert(line)
	if ok {
		s.markDirty()
	}
	return ok
}

// RecordAll ingests lines and returns how many were accepted.
func (s *Service) RecordAll(lines []string) int {
	n := s.pipeline.InsertAll(lines)
	if n > 0 {
		s.markDirty()
	}
	return n
}

// Top returns the n best-ranked commands, refreshing scores first when
// store.refresh_on_read is set.
func (s *Service) Top(n int) []frecency.Entry {
	if s.refresh.Load() {
		s.store.RefreshAll()
		s.markDirty()
	}
	return s.store.Top(n)
}

// Suggestions pairs the top n commands with their alias candidates.
// Commands with no usable candidate are still listed.
func (s *Service) Suggestions(ctx context.Context, n int) ([]Suggestion, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}
	top := s.Top(n)
	out := make([]Suggestion, 0, len(top))
	for _, e := range top {
		out = append(out, Suggestion{Entry: e, Candidates: engine.Suggest(e.Text)})
	}
	return out, nil
}

// SuggestFor returns alias candidates for an arbitrary command.
func (s *Service) SuggestFor(ctx context.Context, command string) ([]suggest.Candidate, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Suggest(command), nil
}

func (s *Service) engine(ctx context.Context) (*suggest.Engine, error) {
	existing, err := aliasfile.Names(s.aliasFiles)
	if err != nil {
		return nil, errors.Wrap(err, "read existing aliases")
	}
	return suggest.NewEngine(existing, s.systemCommands(ctx)), nil
}

func (s *Service) systemCommands(ctx context.Context) []string {
	s.systemOnce.Do(func() {
		s.system = s.systemFn(ctx)
	})
	return s.system
}

func (s *Service) discoverSystemCommands(ctx context.Context) []string {
	return suggest.DiscoverSystemCommands(ctx, suggest.DiscoverOptions{
		ShellAliases: s.cfg.Suggest.ShellAliases,
		Timeout:      time.Duration(s.cfg.Suggest.ShellTimeoutSeconds) * time.Second,
		Logger:       s.logger.Named("suggest"),
	})
}

// Aliases lists every alias across the alias files.
func (s *Service) Aliases() ([]aliasfile.Alias, error) {
	return aliasfile.ReadAll(s.aliasFiles)
}

// AddAlias writes alias to the primary alias file and stops suggesting command.
func (s *Service) AddAlias(alias, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	command = frecency.Normalize(command)
	if err := aliasfile.Add(s.aliasFiles, alias, command); err != nil {
		return err
	}
	s.store.Remove(command)
	s.dirty = true
	s.logger.Infow("Added alias", logger.FieldAlias, alias, logger.FieldCommand, command)
	return nil
}

// RemoveAlias deletes alias and lets its command be suggested again.
func (s *Service) RemoveAlias(alias string) (aliasfile.Alias, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAliasLocked(alias)
}

func (s *Service) removeAliasLocked(alias string) (aliasfile.Alias, error) {
	removed, err := aliasfile.Remove(s.aliasFiles, alias)
	if err != nil {
		return aliasfile.Alias{}, err
	}
	s.store.Restore(frecency.Normalize(removed.Command))
	s.dirty = true
	s.logger.Infow("Removed alias", logger.FieldAlias, alias, logger.FieldCommand, removed.Command)
	return removed, nil
}

// ChangeAlias replaces oldAlias with newAlias. An empty command keeps the old one.
// If the new alias cannot be written the old one is put back.
func (s *Service) ChangeAlias(oldAlias, newAlias, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := aliasfile.ValidateName(newAlias); err != nil {
		return err
	}
	removed, err := s.removeAliasLocked(oldAlias)
	if err != nil {
		return err
	}
	if command == "" {
		command = removed.Command
	}
	command = frecency.Normalize(command)

	if err := aliasfile.Add(s.aliasFiles, newAlias, command); err != nil {
		if restoreErr := aliasfile.Add(s.aliasFiles, oldAlias, removed.Command); restoreErr != nil {
			return errors.CombineErrors(err, errors.Wrap(restoreErr, "restore previous alias"))
		}
		s.store.Remove(frecency.Normalize(removed.Command))
		return err
	}
	s.store.Remove(command)
	return nil
}

// DeleteSuggestion stops tracking command without creating an alias.
// Deleting an unknown or already deleted command is not an error.
func (s *Service) DeleteSuggestion(command string) bool {
	command = frecency.Normalize(command)
	dropped := s.store.Remove(command)
	s.markDirty()
	return dropped
}

// Forgotten lists commands that are no longer suggested.
func (s *Service) Forgotten() []string {
	return s.store.Tombstones()
}

// Import records every command from the given history files, or the
// configured ones when paths is empty. It returns the number of accepted lines.
func (s *Service) Import(paths ...string) (int, error) {
	if len(paths) == 0 {
		paths = s.cfg.HistoryFiles()
	}
	if len(paths) == 0 {
		return 0, errors.WithHint(
			errors.NewNotFoundError("no history file found"),
			"pass a file: alman import ~/.zsh_history, or set history.files")
	}

	total := 0
	for _, p := range paths {
		start := time.Now()
		cmds, err := history.ReadFile(p)
		if err != nil {
			return total, err
		}
		n := s.RecordAll(cmds)
		total += n
		s.logger.Infow("Imported history",
			logger.FieldFile, p,
			logger.FieldLines, len(cmds),
			logger.FieldCount, n,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	return total, nil
}

// Reconfigure applies store settings from a reloaded config.
func (s *Service) Reconfigure(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetThreshold(cfg.Store.RescaleThreshold)
	s.store.SetMinLength(cfg.Store.MinCommandLength)
	s.refresh.Store(cfg.Store.RefreshOnRead)
	s.logger.Infow("Applied new store settings",
		logger.FieldThreshold, cfg.Store.RescaleThreshold,
		"min_command_length", cfg.Store.MinCommandLength)
}

// Store exposes the underlying store for read-only inspection.
func (s *Service) Store() *frecency.Store {
	return s.store
}

func (s *Service) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Save persists the store if anything changed since the last save.
func (s *Service) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := s.backend.Save(s.store.Snapshot()); err != nil {
		return errors.Wrapf(err, "save %s state", s.backend.Name())
	}
	s.dirty = false
	return nil
}

// Close saves pending changes and releases the backend.
func (s *Service) Close() error {
	saveErr := s.Save()
	closeErr := s.backend.Close()
	return errors.CombineErrors(saveErr, closeErr)
}
