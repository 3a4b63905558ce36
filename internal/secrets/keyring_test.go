package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newKeyring(t *testing.T) *Keyring {
	t.Helper()
	k := NewKeyring(filepath.Join(t.TempDir(), ".age-key"))
	if err := k.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	return k
}

func TestEnsureCreatesPrivateKeyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", ".age-key")
	k := NewKeyring(path)

	if err := k.Ensure(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}

	before, _ := os.ReadFile(path)
	if err := k.Ensure(); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("Ensure must not replace an existing key")
	}
}

func TestSealOpen(t *testing.T) {
	k := newKeyring(t)

	sealed, err := k.Seal("sk-test-123")
	if err != nil {
		t.Fatal(err)
	}
	if !IsSealed(sealed) || strings.Contains(sealed, "sk-test-123") {
		t.Fatalf("unexpected sealed value %q", sealed)
	}

	got, err := k.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if got != "sk-test-123" {
		t.Errorf("Open = %q", got)
	}
}

func TestOpenPlainPassthrough(t *testing.T) {
	k := NewKeyring(filepath.Join(t.TempDir(), "missing"))
	got, err := k.Open("plain-key")
	if err != nil || got != "plain-key" {
		t.Errorf("Open = %q, %v", got, err)
	}
}

func TestOpenWithoutKey(t *testing.T) {
	k := NewKeyring(filepath.Join(t.TempDir(), "missing"))
	if _, err := k.Open("ENC[age:AAAA]"); !errors.Is(err, ErrNoKey) {
		t.Errorf("expected ErrNoKey, got %v", err)
	}
}

func TestOpenWrongKey(t *testing.T) {
	sealed, err := newKeyring(t).Seal("secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newKeyring(t).Open(sealed); err == nil {
		t.Error("expected decrypt failure with another key")
	}
}

func TestIsSealed(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ENC[age:abc]", true},
		{"ENC[age:abc", false},
		{"sk-123", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSealed(tt.in); got != tt.want {
			t.Errorf("IsSealed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
