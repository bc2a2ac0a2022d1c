package suggest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseAliasOutput(t *testing.T) {
	out := "alias ll='ls -l'\n" +
		"gs='git status'\n" +
		"alias la 'ls -A'\n" +
		"\n" +
		"alias \"weird\"='x'\n"
	assert.Equal(t, []string{"ll", "gs", "la", "weird"}, ParseAliasOutput(out))
	assert.Empty(t, ParseAliasOutput(""))
}

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
	require.NoError(t, os.Chmod(path, mode))
}

func TestScanPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bits are not meaningful on windows")
	}
	bin := t.TempDir()
	other := t.TempDir()

	writeFile(t, filepath.Join(bin, "tool"), 0o755)
	writeFile(t, filepath.Join(bin, "notes.txt"), 0o644)
	require.NoError(t, os.Mkdir(filepath.Join(bin, "subdir"), 0o755))
	writeFile(t, filepath.Join(other, "target"), 0o755)
	require.NoError(t, os.Symlink(filepath.Join(other, "target"), filepath.Join(bin, "linked")))
	require.NoError(t, os.Symlink(filepath.Join(other, "missing"), filepath.Join(bin, "dangling")))

	log := zaptest.NewLogger(t).Sugar()
	pathEnv := bin + string(os.PathListSeparator) + filepath.Join(bin, "does-not-exist")
	got := scanPath(pathEnv, log)

	assert.ElementsMatch(t, []string{"tool", "linked"}, got)
}

func TestDiscoverSystemCommands(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bits are not meaningful on windows")
	}
	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(a, "zeta"), 0o755)
	writeFile(t, filepath.Join(a, "alpha"), 0o755)
	writeFile(t, filepath.Join(b, "alpha"), 0o755)

	got := DiscoverSystemCommands(context.Background(), DiscoverOptions{
		PathEnv: a + string(os.PathListSeparator) + b,
		Logger:  zaptest.NewLogger(t).Sugar(),
	})
	assert.Equal(t, []string{"alpha", "zeta"}, got, "sorted and unique")
}

func TestDiscoverSystemCommands_ShellFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tool"), 0o755)

	got := DiscoverSystemCommands(context.Background(), DiscoverOptions{
		PathEnv:      dir,
		Shell:        filepath.Join(dir, "no-such-shell"),
		ShellAliases: true,
		Logger:       zaptest.NewLogger(t).Sugar(),
	})
	assert.Equal(t, []string{"tool"}, got)
}
