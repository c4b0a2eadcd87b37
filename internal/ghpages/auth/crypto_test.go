package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretCipher(t *testing.T) {
	cipher := SecretCipher{MasterPassword: "master"}

	t.Run("round trip", func(t *testing.T) {
		encrypted, err := cipher.Encrypt("s3cr3t")
		require.NoError(t, err)
		assert.True(t, IsEncrypted(encrypted))
		assert.NotContains(t, encrypted, "s3cr3t")

		plain, err := cipher.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", plain)
	})

	t.Run("fresh salt every time", func(t *testing.T) {
		first, err := cipher.Encrypt("same")
		require.NoError(t, err)
		second, err := cipher.Encrypt("same")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("plain values pass through", func(t *testing.T) {
		plain, err := SecretCipher{}.Decrypt("not-encrypted")
		require.NoError(t, err)
		assert.Equal(t, "not-encrypted", plain)
	})

	t.Run("wrong master password", func(t *testing.T) {
		encrypted, err := cipher.Encrypt("s3cr3t")
		require.NoError(t, err)
		_, err = SecretCipher{MasterPassword: "other"}.Decrypt(encrypted)
		assert.Error(t, err)
	})

	t.Run("no master password", func(t *testing.T) {
		_, err := SecretCipher{}.Encrypt("s3cr3t")
		assert.True(t, errors.Is(err, ErrNoMasterPassword))
		_, err = SecretCipher{}.Decrypt("{AAAA}")
		assert.True(t, errors.Is(err, ErrNoMasterPassword))
	})

	t.Run("malformed values", func(t *testing.T) {
		_, err := cipher.Decrypt("{not base64!}")
		assert.Error(t, err)
		_, err = cipher.Decrypt("{AAAA}")
		assert.Error(t, err)
	})
}

func TestIsEncrypted(t *testing.T) {
	assert.True(t, IsEncrypted("{abc}"))
	assert.False(t, IsEncrypted("{}"))
	assert.False(t, IsEncrypted("abc"))
	assert.False(t, IsEncrypted("{abc"))
}
