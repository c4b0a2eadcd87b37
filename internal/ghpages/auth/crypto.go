package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Decrypter reveals secrets stored in the settings file.
type Decrypter interface {
	Decrypt(value string) (string, error)
}

// ErrNoMasterPassword is returned when an encrypted value is found but no
// master password was supplied.
var ErrNoMasterPassword = errors.New("encrypted value found but no master password is set")

// SecretCipher encrypts and decrypts settings values with a master password.
// Encrypted values are written as "{base64(salt|nonce|box)}"; anything not
// wrapped in braces is treated as plain text.
type SecretCipher struct {
	MasterPassword string
}

// IsEncrypted reports whether value uses the "{...}" form.
func IsEncrypted(value string) bool {
	return len(value) > 2 && strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}")
}

func deriveKey(password string, salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}

// Encrypt seals plain with the master password.
func (c SecretCipher) Encrypt(plain string) (string, error) {
	if c.MasterPassword == "" {
		return "", ErrNoMasterPassword
	}

	var salt [saltSize]byte
	var nonce [nonceSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return "", err
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	key, err := deriveKey(c.MasterPassword, salt[:])
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, []byte(plain), &nonce, key)
	return "{" + base64.StdEncoding.EncodeToString(out) + "}", nil
}

// Decrypt opens an encrypted value. Plain values are returned unchanged.
func (c SecretCipher) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	if c.MasterPassword == "" {
		return "", ErrNoMasterPassword
	}

	raw, err := base64.StdEncoding.DecodeString(value[1 : len(value)-1])
	if err != nil {
		return "", fmt.Errorf("malformed encrypted value: %w", err)
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return "", errors.New("malformed encrypted value: too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])
	key, err := deriveKey(c.MasterPassword, raw[:saltSize])
	if err != nil {
		return "", err
	}
	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return "", errors.New("wrong master password or corrupted value")
	}
	return string(plain), nil
}
