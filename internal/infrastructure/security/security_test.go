package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateSecureKey(64)
	require.NoError(t, err)

	encrypted, err := Encrypt("cms-api-token-value", key)
	require.NoError(t, err)
	assert.NotEqual(t, "cms-api-token-value", encrypted)

	decrypted, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, "cms-api-token-value", decrypted)
}

func TestEncryptRejectsBadKey(t *testing.T) {
	_, err := Encrypt("data", "")
	assert.Error(t, err)

	_, err = Encrypt("data", "short")
	assert.Error(t, err)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	secret, err := GenerateSecureKey(64)
	require.NoError(t, err)

	token, err := GenerateAdminToken("default", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.True(t, IsAdminClaims(claims, "default"))
	assert.False(t, IsAdminClaims(claims, "other-project"))
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("default", "0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "fedcba9876543210fedcba9876543210")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestGenerateULIDUnique(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
