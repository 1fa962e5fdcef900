package vault

import "fmt"

// KeyExistsError is returned when key generation would overwrite an
// existing key.
type KeyExistsError struct {
	Path string
}

func (e *KeyExistsError) Error() string {
	return fmt.Sprintf("key file %q already exists", e.Path)
}

// KeyNotFoundError is returned when the configured key file is
// missing.
type KeyNotFoundError struct {
	Path string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key file %q not found", e.Path)
}

// CorruptFileError is returned when an encrypted file fails
// authentication, either because it was damaged or because the wrong
// key was used.
type CorruptFileError struct {
	Path string
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("encrypted file %q is corrupt or the key is wrong", e.Path)
}
