// Package ingest turns raw command lines into frecency store updates.
package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/alman/logger"
)

// Adder is the part of the store ingestion writes to.
type Adder interface {
	Add(text string)
}

// Pipeline feeds every word prefix of a command line into a store.
// "git add ." records "git", "git add" and "git add ." once each.
type Pipeline struct {
	store    Adder
	selfName string
	logger   *zap.SugaredLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSelfName sets the program name whose own invocations are skipped.
func WithSelfName(name string) Option {
	return func(p *Pipeline) { p.selfName = name }
}

// WithLogger sets the pipeline's logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.logger = logger.OrNop(l) }
}

// New returns a pipeline writing to store.
// By default the running binary's base name is skipped.
func New(store Adder, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:    store,
		selfName: SelfName(),
		logger:   logger.ComponentLogger("ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SelfName returns the base name the current process was invoked as.
func SelfName() string {
	if len(os.Args) == 0 {
		return ""
	}
	return filepath.Base(os.Args[0])
}

// Insert records line. It reports whether the line was accepted.
func (p *Pipeline) Insert(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	if p.selfName != "" && words[0] == p.selfName {
		p.logger.Debugw("Skipping own invocation", logger.FieldCommand, line)
		return false
	}

	for i := range words {
		p.store.Add(strings.Join(words[:i+1], " "))
	}

	p.logger.Debugw("Recorded command",
		logger.FieldCommand, strings.Join(words, " "),
		"prefixes", len(words))
	return true
}

// InsertAll records each line and returns how many were accepted.
func (p *Pipeline) InsertAll(lines []string) int {
	accepted := 0
	for _, line := range lines {
		if p.Insert(line) {
			accepted++
		}
	}
	return accepted
}
