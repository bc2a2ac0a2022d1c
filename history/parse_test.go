package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		format Format
		want   string
		wantOK bool
	}{
		{"zsh extended", ": 1700000000:0;git status", FormatZsh, "git status", true},
		{"zsh extended with duration", ": 1700000000:12;make test  ", FormatZsh, "make test", true},
		{"zsh without timestamps", "ls -la", FormatZsh, "ls -la", true},
		{"zsh keeps semicolons in command", ": 1:0;cd /tmp; ls", FormatZsh, "cd /tmp; ls", true},
		{"bash timestamp line", "#1700000000", FormatBash, "", false},
		{"bash command", "docker ps -a", FormatBash, "docker ps -a", true},
		{"bash comment is a command", "# not a timestamp", FormatBash, "# not a timestamp", true},
		{"plain trims", "  npm run dev\r", FormatPlain, "npm run dev", true},
		{"blank", "   ", FormatPlain, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line, tt.format)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_ZshMetafied(t *testing.T) {
	// "é" is 0xC3 0xA9; zsh metafies 0xC3 and 0xA9 as 0x83 0xE3, 0x83 0x89
	line := ": 1:0;echo caf" + string([]byte{0x83, 0xC3 ^ 32, 0x83, 0xA9 ^ 32})
	got, ok := ParseLine(line, FormatZsh)
	require.True(t, ok)
	assert.Equal(t, "echo café", got)
}

func TestRead_ZshContinuation(t *testing.T) {
	in := ": 1:0;docker run \\\n  --rm nginx\n: 2:0;git status\n"
	cmds, err := Read(strings.NewReader(in), FormatZsh)
	require.NoError(t, err)
	assert.Equal(t, []string{"docker run    --rm nginx", "git status"}, cmds)
}

func TestRead_Bash(t *testing.T) {
	in := "#1700000000\ngit status\n#1700000001\nmake build\n\n"
	cmds, err := Read(strings.NewReader(in), FormatBash)
	require.NoError(t, err)
	assert.Equal(t, []string{"git status", "make build"}, cmds)
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	assert.Equal(t, FormatZsh, DetectFormat(filepath.Join(dir, ".zsh_history")))
	assert.Equal(t, FormatBash, DetectFormat(filepath.Join(dir, ".bash_history")))
	assert.Equal(t, FormatZsh, DetectFormat(write("hist-a", "\n: 1700000000:0;ls\n")))
	assert.Equal(t, FormatBash, DetectFormat(write("hist-b", "#1700000000\nls\n")))
	assert.Equal(t, FormatPlain, DetectFormat(write("hist-c", "ls\n")))
	assert.Equal(t, FormatPlain, DetectFormat(filepath.Join(dir, "missing")))
	assert.Equal(t, "zsh", FormatZsh.String())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zsh_history")
	require.NoError(t, os.WriteFile(path, []byte(": 1:0;git add .\n: 2:0;git commit -m wip\n"), 0o600))

	cmds, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"git add .", "git commit -m wip"}, cmds)

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
