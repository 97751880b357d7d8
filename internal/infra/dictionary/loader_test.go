//go:build !integration

package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"quantum-oracle-bot/internal/domain"
)

func TestLoad_Default(t *testing.T) {
	dict, err := Load("")
	if err != nil {
		t.Fatalf("bundled dictionary failed to load: %v", err)
	}
	if dict.Len() == 0 {
		t.Fatal("bundled dictionary is empty")
	}
	key, words := dict.Candidates(0)
	if key != "3" || len(words) == 0 {
		t.Errorf("expected the lowest gematria value first, got %q %v", key, words)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	if err := os.WriteFile(path, []byte(`{"10":["י"],"2":["ב"],"alef":[],"1":["א"]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	dict, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "2", "10", "alef"}, dict.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	if _, words := dict.Candidates(3); len(words) != 0 {
		t.Errorf("empty categories are kept as empty, got %v", words)
	}
}

func TestLoad_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json":   {Data: []byte(`["not", "an", "object"]`)},
		"empty.json": {Data: []byte(`{}`)},
	}
	for _, name := range []string{"bad.json", "empty.json"} {
		if _, err := LoadFS(fsys, name); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}
	if _, err := LoadFS(fsys, "missing.json"); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing path")
	}
}
