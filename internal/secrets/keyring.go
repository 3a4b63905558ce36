// Package secrets seals provider API keys with age so they can sit in the
// .env file as ENC[age:...] values.
package secrets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"

	"github.com/dohr-michael/promptdna/internal/config"
)

const (
	sealedPrefix = "ENC[age:"
	sealedSuffix = "]"
)

// ErrNoKey is returned when a sealed value is found but no key file exists.
var ErrNoKey = errors.New("no age key: run `promptdna secret set` first")

// KeyPath returns the default key file: $PROMPTDNA_PATH/.age-key.
func KeyPath() string {
	return filepath.Join(config.DataPath(), ".age-key")
}

// IsSealed reports whether s is an ENC[age:...] value.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, sealedPrefix) && strings.HasSuffix(s, sealedSuffix)
}

// Keyring seals and opens values with the X25519 identity stored at a path.
// The identity is read once.
type Keyring struct {
	path string

	once sync.Once
	id   *age.X25519Identity
	err  error
}

// NewKeyring returns a keyring backed by the key file at path.
func NewKeyring(path string) *Keyring {
	return &Keyring{path: path}
}

// Ensure creates the key file (0600) unless it already exists.
func (k *Keyring) Ensure() error {
	if _, err := os.Stat(k.path); err == nil {
		return nil
	}

	id, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generate age identity: %w", err)
	}
	content := fmt.Sprintf("# promptdna secrets key\n# public key: %s\n%s\n", id.Recipient(), id)

	if err := os.MkdirAll(filepath.Dir(k.path), 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(k.path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write age key: %w", err)
	}
	return nil
}

func (k *Keyring) identity() (*age.X25519Identity, error) {
	k.once.Do(func() {
		f, err := os.Open(k.path)
		if errors.Is(err, os.ErrNotExist) {
			k.err = ErrNoKey
			return
		}
		if err != nil {
			k.err = fmt.Errorf("open age key: %w", err)
			return
		}
		defer f.Close()

		ids, err := age.ParseIdentities(f)
		if err != nil {
			k.err = fmt.Errorf("parse age key: %w", err)
			return
		}
		for _, id := range ids {
			if x, ok := id.(*age.X25519Identity); ok {
				k.id = x
				return
			}
		}
		k.err = fmt.Errorf("no X25519 identity in %s", k.path)
	})
	return k.id, k.err
}

// Seal encrypts plaintext to the keyring's own recipient.
func (k *Keyring) Seal(plaintext string) (string, error) {
	id, err := k.identity()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, id.Recipient())
	if err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()) + sealedSuffix, nil
}

// Open decrypts a sealed value. Plain values are returned unchanged.
func (k *Keyring) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	id, err := k.identity()
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(value[len(sealedPrefix) : len(value)-len(sealedSuffix)])
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(raw), id)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	return string(plain), nil
}

var (
	defaultOnce    sync.Once
	defaultKeyring *Keyring
)

// Default returns the keyring at KeyPath.
func Default() *Keyring {
	defaultOnce.Do(func() { defaultKeyring = NewKeyring(KeyPath()) })
	return defaultKeyring
}
