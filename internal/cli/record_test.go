package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minutemic/internal/domain"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line    string
		action  keyAction
		command domain.Command
	}{
		{"n", keyCommand, domain.CommandStart},
		{" P ", keyCommand, domain.CommandPause},
		{"resume", keyCommand, domain.CommandResume},
		{"s", keyCommand, domain.CommandStop},
		{"d", keyCommand, domain.CommandDiscard},
		{"w", keySave, ""},
		{"q", keyQuit, ""},
		{"x", keyUnknown, ""},
		{"", keyUnknown, ""},
	}
	for _, tc := range cases {
		action, command := parseKey(tc.line)
		if action != tc.action || command != tc.command {
			t.Fatalf("parseKey(%q) = %v %q, want %v %q", tc.line, action, command, tc.action, tc.command)
		}
	}
}

func TestReadText(t *testing.T) {
	t.Parallel()

	got, err := readText(strings.NewReader("from stdin"), "-")
	if err != nil || got != "from stdin" {
		t.Fatalf("unexpected stdin read: %q %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = readText(strings.NewReader("ignored"), path)
	if err != nil || got != "from file" {
		t.Fatalf("unexpected file read: %q %v", got, err)
	}

	if _, err := readText(nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestRootRegistersCommands(t *testing.T) {
	t.Parallel()

	root := NewRootCmd(&Dependencies{})
	for _, name := range []string{"record", "transcribe", "summarize", "summarize-audio", "status", "prefs"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("missing command %q: %v", name, err)
		}
	}
	if f := root.PersistentFlags().Lookup("verbose"); f == nil {
		t.Fatalf("missing verbose flag")
	}
}
