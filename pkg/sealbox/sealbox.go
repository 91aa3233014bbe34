// Package sealbox encrypts small sensitive fields (bank account numbers)
// before they are written to the database.
package sealbox

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aead/chacha20poly1305"
)

const prefix = "xc1:"

var ErrMalformed = errors.New("sealed value is malformed")

type Box struct {
	aead cipher.AEAD
}

// New returns a Box for a 32-byte key. A nil key yields a pass-through box.
func New(key []byte) (*Box, error) {
	if len(key) == 0 {
		return &Box{}, nil
	}
	aead, err := chacha20poly1305.NewXCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	return &Box{aead: aead}, nil
}

func (b *Box) Configured() bool {
	return b != nil && b.aead != nil
}

func (b *Box) Seal(plain string) (string, error) {
	if plain == "" || !b.Configured() || strings.HasPrefix(plain, prefix) {
		return plain, nil
	}
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to read nonce: %w", err)
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plain), nil)
	return prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the sealed prefix are returned unchanged.
func (b *Box) Open(value string) (string, error) {
	if !strings.HasPrefix(value, prefix) {
		return value, nil
	}
	if !b.Configured() {
		return "", errors.New("sealed value found but no encryption key is configured")
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", ErrMalformed
	}
	size := b.aead.NonceSize()
	if len(raw) < size {
		return "", ErrMalformed
	}
	plain, err := b.aead.Open(nil, raw[:size], raw[size:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed value: %w", err)
	}
	return string(plain), nil
}
