// Package settings — cipher.go шифрует секреты XChaCha20-Poly1305.
// Формат: base64(nonce || ciphertext). Пустая строка остаётся пустой.
package settings

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"

	"golang.org/x/crypto/chacha20poly1305"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

// Cipher шифрует значения полей. Associated data — user_id и имя поля,
// поэтому шифртекст нельзя перенести в чужую строку или другое поле.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher создаёт шифратор из 32-байтного ключа.
func NewCipher(key []byte) (*Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации шифра: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt шифрует значение поля пользователя.
func (c *Cipher) Encrypt(userID int64, field, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), additionalData(userID, field))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt расшифровывает значение. Ошибки оборачивают common.ErrDecrypt.
func (c *Cipher) Decrypt(userID int64, field, encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", common.ErrDecrypt, field, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: %s: слишком короткий шифртекст", common.ErrDecrypt, field)
	}
	nonce, ct := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ct, additionalData(userID, field))
	if err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrDecrypt, field)
	}
	return string(plain), nil
}

func additionalData(userID int64, field string) []byte {
	return []byte(strconv.FormatInt(userID, 10) + ":" + field)
}
