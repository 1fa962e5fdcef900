package vault

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const encSuffix = ".enc"

// Vault encrypts and decrypts files in place with XChaCha20-Poly1305.
// Encrypted files carry a random nonce prefix and an .enc suffix.
type Vault struct {
	key    []byte
	logger *slog.Logger
}

// GenerateKey writes a fresh random key to path with owner-only
// permissions. It refuses to overwrite an existing key.
func GenerateKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return &KeyExistsError{Path: path}
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return fmt.Errorf("failed to write key file %q: %w", path, err)
	}
	return nil
}

// Open loads the key at keyPath.
func Open(keyPath string, logger *slog.Logger) (*Vault, error) {
	if logger == nil {
		logger = slog.Default()
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &KeyNotFoundError{Path: keyPath}
		}
		return nil, fmt.Errorf("failed to read key file %q: %w", keyPath, err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("key file %q has %d bytes, want %d", keyPath, len(key), chacha20poly1305.KeySize)
	}

	return &Vault{key: key, logger: logger.With("component", "vault")}, nil
}

// Encrypt seals path into path.enc and removes the plaintext. It
// returns the encrypted path.
func (v *Vault) Encrypt(path string) (string, error) {
	if strings.HasSuffix(path, encSuffix) {
		return "", fmt.Errorf("%q is already encrypted", path)
	}

	plain, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plain, nil)
	out := path + encSuffix
	if err := os.WriteFile(out, sealed, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", out, err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove plaintext %q: %w", path, err)
	}

	v.logger.Info("encrypted file", "path", path)
	return out, nil
}

// Decrypt opens path (which must end in .enc), restores the original
// file and removes the ciphertext. It returns the decrypted path.
func (v *Vault) Decrypt(path string) (string, error) {
	if !strings.HasSuffix(path, encSuffix) {
		return "", fmt.Errorf("%q is not an encrypted file", path)
	}

	sealed, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return "", &CorruptFileError{Path: path}
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", &CorruptFileError{Path: path}
	}

	out := strings.TrimSuffix(path, encSuffix)
	if err := os.WriteFile(out, plain, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", out, err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove ciphertext %q: %w", path, err)
	}

	v.logger.Info("decrypted file", "path", out)
	return out, nil
}
