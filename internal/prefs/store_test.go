package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minutemic/internal/domain"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "preferences.toml"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !got.UseDefaultCredential || got.CustomCredential != "" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "preferences.toml")
	store := NewFileStore(path)

	if err := store.Save(domain.Preferences{UseDefaultCredential: false, CustomCredential: "  sk-test  "}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `custom_credential = "sk-test"`) {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %o", info.Mode().Perm())
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.UseDefaultCredential || got.CustomCredential != "sk-test" {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.toml")
	if err := os.WriteFile(path, []byte("custom_credential = \"abc\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !got.UseDefaultCredential || got.CustomCredential != "abc" {
		t.Fatalf("unexpected prefs: %+v", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.toml")
	if err := os.WriteFile(path, []byte("use_default_credential = maybe"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFileStore(path).Load()
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !got.UseDefaultCredential {
		t.Fatalf("expected defaults alongside the error")
	}
}
