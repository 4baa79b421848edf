package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"

	"github.com/Alijeyrad/klinik_backend/config"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, encrypted with a shared key
	ModePublic Mode = "public" // v4.public, signed
)

// Keys holds the key material for one Mode. In public mode a verify-only
// deployment carries Public without Secret and cannot issue.
type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

// KeysFromConfig decodes the hex keys in the authentication.paseto section.
func KeysFromConfig(c config.PasetoConfig) (Keys, error) {
	switch Mode(c.Mode) {
	case ModeLocal:
		return localKeys(strings.TrimSpace(c.LocalKeyHex))
	case ModePublic:
		return publicKeys(strings.TrimSpace(c.SecretKeyHex), strings.TrimSpace(c.PublicKeyHex))
	default:
		return Keys{}, ErrConfig{Msg: "unknown mode " + c.Mode + " (use local|public)"}
	}
}

func localKeys(symHex string) (Keys, error) {
	if symHex == "" {
		return Keys{}, ErrConfig{Msg: "local mode requires local_key_hex"}
	}
	k, err := paseto.V4SymmetricKeyFromHex(symHex)
	if err != nil {
		return Keys{}, ErrConfig{Msg: "invalid local key: " + err.Error()}
	}
	return Keys{Mode: ModeLocal, Symmetric: &k}, nil
}

func publicKeys(secretHex, publicHex string) (Keys, error) {
	if secretHex == "" && publicHex == "" {
		return Keys{}, ErrConfig{Msg: "public mode requires secret_key_hex or public_key_hex"}
	}
	out := Keys{Mode: ModePublic}
	if secretHex != "" {
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secretHex)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid secret key: " + err.Error()}
		}
		pk := sk.Public()
		out.Secret, out.Public = &sk, &pk
	}
	// An explicit public key wins over the derived one.
	if publicHex != "" {
		pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(publicHex)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid public key: " + err.Error()}
		}
		out.Public = &pk
	}
	return out, nil
}

// NewLocalKeys generates a fresh symmetric key, for tests and dev tokens.
func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
