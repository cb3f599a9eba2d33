//go:build ignore

// generate_key.go — генерирует ключ шифрования настроек.
// Запуск: go run scripts/generate_key.go
//
// Результат вставьте в .env как SETTINGS_ENCRYPTION_KEY.
// Сменили ключ — сохранённые секреты придётся задать заново.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

func main() {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		fmt.Printf("Ошибка генерации ключа: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SETTINGS_ENCRYPTION_KEY=" + base64.StdEncoding.EncodeToString(key))
}
