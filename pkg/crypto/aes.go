// Package crypto seals patient identifiers at rest and derives lookup
// fingerprints for them.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes")
	ErrMalformedSealed   = errors.New("sealed value is malformed")
	ErrUnsupportedFormat = errors.New("sealed value has an unknown format version")
)

// sealedPrefix versions the stored format.
const sealedPrefix = "v1."

var b64 = base64.RawURLEncoding

// KeyFromHex decodes a 64-char hex string into a 32-byte AES-256 key.
func KeyFromHex(hexKey string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("crypto: key is not hex: %w", err)
	}
	if len(b) != 32 {
		return nil, ErrInvalidKey
	}
	return b, nil
}

// Sealer encrypts with AES-256-GCM and fingerprints with HMAC-SHA256, each
// under its own HKDF subkey of the master key.
type Sealer struct {
	aead   cipher.AEAD
	macKey []byte
}

func NewSealer(hexKey string) (*Sealer, error) {
	master, err := KeyFromHex(hexKey)
	if err != nil {
		return nil, err
	}
	encKey, err := subkey(master, "klinik/seal")
	if err != nil {
		return nil, err
	}
	macKey, err := subkey(master, "klinik/fingerprint")
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return &Sealer{aead: aead, macKey: macKey}, nil
}

func subkey(master []byte, info string) ([]byte, error) {
	k := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), k); err != nil {
		return nil, fmt.Errorf("crypto: derive %s: %w", info, err)
	}
	return k, nil
}

// Seal returns "v1." + base64url(nonce || ciphertext). A fresh nonce is drawn
// per call.
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypto: nonce: %w", err)
	}
	return sealedPrefix + b64.EncodeToString(s.aead.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	body, found := strings.CutPrefix(sealed, sealedPrefix)
	if !found {
		return "", ErrUnsupportedFormat
	}
	raw, err := b64.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSealed, err)
	}
	n := s.aead.NonceSize()
	if len(raw) < n+s.aead.Overhead() {
		return "", ErrMalformedSealed
	}
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("crypto: open: %w", err)
	}
	return string(plain), nil
}

// Fingerprint is deterministic for a given key, for equality lookups.
func (s *Sealer) Fingerprint(value string) string {
	mac := hmac.New(sha256.New, s.macKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
