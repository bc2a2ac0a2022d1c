// Package suggest proposes short alias names for shell commands.
//
// An Engine runs a fixed list of heuristic generators over a command,
// drops aliases that would shadow an existing alias or a command on the
// system, and ranks what remains.
package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/teranos/alman/aliasfile"
)

// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	existing   map[string]struct{}
	system     map[string]struct{}
	generators []Generator
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGenerators replaces the default generator list.
func WithGenerators(gens ...Generator) EngineOption {
	return func(e *Engine) { e.generators = gens }
}

// NewEngine snapshots the given alias and system command names.
// Later changes to the caller's slices are not seen.
func NewEngine(existingAliases, systemCommands []string, opts ...EngineOption) *Engine {
	e := &Engine{
		existing:   toSet(existingAliases),
		system:     toSet(systemCommands),
		generators: DefaultGenerators(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Conflicts reports whether alias is unusable: shorter than two
// characters, not a valid alias name, already an alias or a system command.
func (e *Engine) Conflicts(alias string) bool {
	if utf8.RuneCountInString(alias) < 2 || !aliasfile.ValidName(alias) {
		return true
	}
	if _, ok := e.existing[alias]; ok {
		return true
	}
	_, ok := e.system[alias]
	return ok
}

// Suggest returns ranked alias candidates for command.
// Each alias appears once; the highest priority comes first.
func (e *Engine) Suggest(command string) []Candidate {
	command = strings.Join(strings.Fields(command), " ")
	if command == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Candidate
	for _, gen := range e.generators {
		for _, c := range gen(command) {
			if e.Conflicts(c.Alias) {
				continue
			}
			if _, dup := seen[c.Alias]; dup {
				continue
			}
			seen[c.Alias] = struct{}{}
			c.Priority = priority(c)
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
