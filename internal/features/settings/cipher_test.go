package settings

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey(1))
	require.NoError(t, err)

	enc, err := c.Encrypt(42, FieldAccessToken, "EAAG-secret-token")
	require.NoError(t, err)
	assert.NotContains(t, enc, "secret")

	plain, err := c.Decrypt(42, FieldAccessToken, enc)
	require.NoError(t, err)
	assert.Equal(t, "EAAG-secret-token", plain)
}

func TestCipher_NonceIsRandom(t *testing.T) {
	c, err := NewCipher(testKey(1))
	require.NoError(t, err)

	a, err := c.Encrypt(1, FieldAppSecret, "same")
	require.NoError(t, err)
	b, err := c.Encrypt(1, FieldAppSecret, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipher_EmptyValue(t *testing.T) {
	c, err := NewCipher(testKey(1))
	require.NoError(t, err)

	enc, err := c.Encrypt(1, FieldAppSecret, "")
	require.NoError(t, err)
	assert.Empty(t, enc)

	plain, err := c.Decrypt(1, FieldAppSecret, "")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestCipher_BoundToUserAndField(t *testing.T) {
	c, err := NewCipher(testKey(1))
	require.NoError(t, err)
	enc, err := c.Encrypt(1, FieldAppSecret, "value")
	require.NoError(t, err)

	_, err = c.Decrypt(2, FieldAppSecret, enc)
	assert.ErrorIs(t, err, common.ErrDecrypt)

	_, err = c.Decrypt(1, FieldAccessToken, enc)
	assert.ErrorIs(t, err, common.ErrDecrypt)
}

func TestCipher_WrongKeyAndGarbage(t *testing.T) {
	c1, err := NewCipher(testKey(1))
	require.NoError(t, err)
	c2, err := NewCipher(testKey(2))
	require.NoError(t, err)

	enc, err := c1.Encrypt(1, FieldAppSecret, "value")
	require.NoError(t, err)

	_, err = c2.Decrypt(1, FieldAppSecret, enc)
	assert.ErrorIs(t, err, common.ErrDecrypt)

	_, err = c1.Decrypt(1, FieldAppSecret, "not base64!")
	assert.ErrorIs(t, err, common.ErrDecrypt)

	_, err = c1.Decrypt(1, FieldAppSecret, "AAAA")
	assert.ErrorIs(t, err, common.ErrDecrypt)
}

func TestNewCipher_BadKey(t *testing.T) {
	_, err := NewCipher([]byte("short"))
	assert.Error(t, err)
}
