package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/bja1701/life-os/internal/shared/infrastructure/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestNewAESGCMFromBase64Key_RejectsEmptyKey(t *testing.T) {
	_, err := crypto.NewAESGCMFromBase64Key("")
	require.Error(t, err)
}

func TestNewAESGCMFromBase64Key_RejectsWrongLength(t *testing.T) {
	shortKey := base64.StdEncoding.EncodeToString(make([]byte, 16))
	_, err := crypto.NewAESGCMFromBase64Key(shortKey)
	require.Error(t, err)
}

func TestNewAESGCMFromBase64Key_RejectsInvalidBase64(t *testing.T) {
	_, err := crypto.NewAESGCMFromBase64Key("not-base64!!!")
	require.Error(t, err)
}

func TestEncryptDecrypt_RoundTrips(t *testing.T) {
	enc, err := crypto.NewAESGCMFromBase64Key(validKey())
	require.NoError(t, err)

	plaintext := []byte("super-secret-oauth-token")
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_NonceDiffersEachCall(t *testing.T) {
	enc, err := crypto.NewAESGCMFromBase64Key(validKey())
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecrypt_RejectsTruncatedCiphertext(t *testing.T) {
	enc, err := crypto.NewAESGCMFromBase64Key(validKey())
	require.NoError(t, err)

	_, err = enc.Decrypt([]byte("too short"))
	assert.Error(t, err)
}
