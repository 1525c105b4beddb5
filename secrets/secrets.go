package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealedPrefix marks a configuration value as sealed.
const SealedPrefix = "enc:"

// Service seals and opens secret values using ChaCha20-Poly1305.
// This is a modern AEAD cipher that performs well on CPUs without AES
// hardware acceleration.
type Service struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

// New creates a sealing service. The key is hashed with SHA-256 to
// produce a consistent 32-byte cipher key.
func New(key string) (*Service, error) {
	if key == "" {
		return nil, fmt.Errorf("sealing key must not be empty")
	}

	hasher := sha256.New()
	hasher.Write([]byte(key))
	keyBytes := hasher.Sum(nil)

	aead, err := chacha20poly1305.New(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create chacha20: %w", err)
	}

	return &Service{aead: aead}, nil
}

// Seal encrypts a plaintext value and returns it with the sealed prefix.
func (s *Service) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return SealedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a sealed value. The value may carry the sealed prefix.
func (s *Service) Open(sealed string) (string, error) {
	sealed = strings.TrimPrefix(sealed, SealedPrefix)

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("sealed value too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}

	return string(plaintext), nil
}

// IsSealed reports whether a configuration value is sealed.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, SealedPrefix)
}

// Resolve returns the plaintext for a configuration value, opening it
// only when sealed. A nil service with a sealed value is an error.
func Resolve(s *Service, value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if s == nil {
		return "", fmt.Errorf("sealed value present but no sealing key configured")
	}
	return s.Open(value)
}
