package lib

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var ErrSealKeyLength = errors.New("session key must be 32 bytes for AES-256")

// Seal encrypts payload with AES-GCM and returns nonce+ciphertext as base64.
func Seal(payload []byte, key string) (string, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aesGCM.Seal(nonce, nonce, payload, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func Open(sealed string, key string) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("sealed payload too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return aesGCM.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key string) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, ErrSealKeyLength
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
