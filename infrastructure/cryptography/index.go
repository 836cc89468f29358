package cryptography

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// TemplateCipher seals biometric template payloads with AES-256-GCM. The
// nonce is prepended to the ciphertext; authentication failure on open means
// the record was corrupted or written under a rotated key.
type TemplateCipher struct {
	aead cipher.AEAD
}

func NewTemplateCipher(key []byte) (*TemplateCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("template cipher requires a 32-byte key, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &TemplateCipher{aead: aead}, nil
}

func (tc *TemplateCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, tc.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return tc.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (tc *TemplateCipher) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < tc.aead.NonceSize() {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	nonce, ciphertext := sealed[:tc.aead.NonceSize()], sealed[tc.aead.NonceSize():]
	return tc.aead.Open(nil, nonce, ciphertext, nil)
}
