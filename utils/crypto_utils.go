package utils

import (
	"crypto/ed25519"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/Luismorlan/utxo_signer/model"
)

// SecretSize is the width of the secret every scheme signs with.
const SecretSize = 32

// Scheme is a signature algorithm whose nonce is derived from the key and
// the message, never from external randomness.
type Scheme interface {
	// Name identifies the scheme in configuration and key derivation.
	Name() string
	// PublicKey derives the public key of secret.
	PublicKey(secret []byte) (model.PublicKey, error)
	// Sign fails with ErrInvalidKeyMaterial if secret is not usable on the curve.
	Sign(secret []byte, msg []byte) (model.Signature, error)
	// Verify returns false for any malformed key or signature.
	Verify(pub model.PublicKey, msg []byte, sig []byte) bool
}

var (
	// Ed25519 signs per RFC 8032.
	Ed25519 Scheme = ed25519Scheme{}
	// Schnorr signs BLAKE2b-256 of the message per BIP-340 over secp256k1.
	Schnorr Scheme = schnorrScheme{}
)

// SchemeByName resolves a configured scheme name, case insensitive.
func SchemeByName(name string) (Scheme, error) {
	for _, s := range []Scheme{Ed25519, Schnorr} {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return nil, errors.Errorf("unknown signature scheme %q", name)
}

// Hash message using BLAKE2b-256.
func Hash(msg []byte) [32]byte {
	return blake2b.Sum256(msg)
}

// Sign msg with the secret of the given scheme.
func Sign(scheme Scheme, secret []byte, msg []byte) (model.Signature, error) {
	return scheme.Sign(secret, msg)
}

// Verify the given signature matches the message.
func Verify(scheme Scheme, pub model.PublicKey, msg []byte, sig []byte) bool {
	return scheme.Verify(pub, msg, sig)
}

type ed25519Scheme struct{}

func (ed25519Scheme) Name() string {
	return "ed25519"
}

func (s ed25519Scheme) privateKey(secret []byte) (ed25519.PrivateKey, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, errors.Wrapf(model.ErrInvalidKeyMaterial, "ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(secret))
	}
	return ed25519.NewKeyFromSeed(secret), nil
}

func (s ed25519Scheme) PublicKey(secret []byte) (model.PublicKey, error) {
	sk, err := s.privateKey(secret)
	if err != nil {
		return model.PublicKey{}, err
	}
	return model.PublicKeyFromBytes(sk.Public().(ed25519.PublicKey))
}

func (s ed25519Scheme) Sign(secret []byte, msg []byte) (model.Signature, error) {
	sk, err := s.privateKey(secret)
	if err != nil {
		return model.Signature{}, err
	}
	return model.SignatureFromBytes(ed25519.Sign(sk, msg))
}

func (ed25519Scheme) Verify(pub model.PublicKey, msg []byte, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub[:], msg, sig)
}

type schnorrScheme struct{}

func (schnorrScheme) Name() string {
	return "schnorr"
}

// privateKey rejects secrets that are zero or not below the group order
// instead of letting them be silently reduced.
func (schnorrScheme) privateKey(secret []byte) (*btcec.PrivateKey, error) {
	if len(secret) != SecretSize {
		return nil, errors.Wrapf(model.ErrInvalidKeyMaterial, "secp256k1 secret must be %d bytes, got %d", SecretSize, len(secret))
	}
	var k btcec.ModNScalar
	if overflow := k.SetByteSlice(secret); overflow || k.IsZero() {
		return nil, errors.Wrap(model.ErrInvalidKeyMaterial, "secret is not a valid secp256k1 scalar")
	}
	sk, _ := btcec.PrivKeyFromBytes(secret)
	return sk, nil
}

func (s schnorrScheme) PublicKey(secret []byte) (model.PublicKey, error) {
	sk, err := s.privateKey(secret)
	if err != nil {
		return model.PublicKey{}, err
	}
	return model.PublicKeyFromBytes(schnorr.SerializePubKey(sk.PubKey()))
}

func (s schnorrScheme) Sign(secret []byte, msg []byte) (model.Signature, error) {
	sk, err := s.privateKey(secret)
	if err != nil {
		return model.Signature{}, err
	}
	hash := Hash(msg)
	sig, err := schnorr.Sign(sk, hash[:])
	if err != nil {
		return model.Signature{}, errors.WithStack(err)
	}
	return model.SignatureFromBytes(sig.Serialize())
}

func (schnorrScheme) Verify(pub model.PublicKey, msg []byte, sig []byte) bool {
	pk, err := schnorr.ParsePubKey(pub[:])
	if err != nil {
		return false
	}
	s, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}
	hash := Hash(msg)
	return s.Verify(hash[:], pk)
}
