package utils

import (
	"crypto/sha512"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"github.com/Luismorlan/utxo_signer/model"
)

// DevPhrase is the well-known development phrase the named test identities derive from.
const DevPhrase = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

const (
	seedIterations = 2048
	chainCodeSize  = 32
)

// KeyPair holds a secret and its public key. The secret never leaves the key pair.
type KeyPair struct {
	scheme Scheme
	secret []byte
	public model.PublicKey
}

// NewKeyPair validates secret for the scheme and derives its public key.
func NewKeyPair(scheme Scheme, secret []byte) (*KeyPair, error) {
	pub, err := scheme.PublicKey(secret)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		scheme: scheme,
		secret: append([]byte(nil), secret...),
		public: pub,
	}, nil
}

func (k *KeyPair) Scheme() Scheme {
	return k.scheme
}

func (k *KeyPair) Public() model.PublicKey {
	return k.public
}

func (k *KeyPair) Sign(msg []byte) (model.Signature, error) {
	return k.scheme.Sign(k.secret, msg)
}

func (k *KeyPair) Verify(msg []byte, sig []byte) bool {
	return k.scheme.Verify(k.public, msg, sig)
}

// DevKeyPair derives the named test identity, e.g. "Alice" or "Bob".
func DevKeyPair(scheme Scheme, name string) (*KeyPair, error) {
	return DeriveKeyPair(scheme, "//"+name)
}

// DeriveKeyPair derives a key pair from a secret URI:
//
//	<phrase | 0x-hex-seed>[//hard junction]...[///password]
//
// An empty phrase stands for DevPhrase. Soft junctions (a single slash) are
// not supported by either scheme.
func DeriveKeyPair(scheme Scheme, uri string) (*KeyPair, error) {
	phrase, junctions, password, err := parseSecretURI(uri)
	if err != nil {
		return nil, err
	}

	seed, err := seedFromPhrase(phrase, password)
	if err != nil {
		return nil, err
	}
	for _, j := range junctions {
		seed = deriveHard(scheme, seed, j)
	}
	return NewKeyPair(scheme, seed)
}

func parseSecretURI(uri string) (string, []string, string, error) {
	var password string
	if i := strings.Index(uri, "///"); i >= 0 {
		uri, password = uri[:i], uri[i+3:]
	}

	phrase, path := uri, ""
	if i := strings.Index(uri, "/"); i >= 0 {
		phrase, path = uri[:i], uri[i:]
	}

	var junctions []string
	for path != "" {
		if !strings.HasPrefix(path, "//") {
			return "", nil, "", errors.Wrapf(model.ErrInvalidKeyMaterial, "soft derivation in %q is not supported", path)
		}
		path = path[2:]
		name := path
		if i := strings.Index(path, "/"); i >= 0 {
			name, path = path[:i], path[i:]
		} else {
			path = ""
		}
		if name == "" {
			return "", nil, "", errors.Wrap(model.ErrInvalidKeyMaterial, "empty derivation junction")
		}
		junctions = append(junctions, name)
	}

	phrase = strings.Join(strings.Fields(phrase), " ")
	if phrase == "" {
		phrase = DevPhrase
	}
	return phrase, junctions, password, nil
}

func seedFromPhrase(phrase, password string) ([]byte, error) {
	if strings.HasPrefix(phrase, "0x") {
		seed, err := HexToBytes(phrase)
		if err != nil || len(seed) != SecretSize {
			return nil, errors.Wrapf(model.ErrInvalidKeyMaterial, "hex seed must be %d bytes", SecretSize)
		}
		return seed, nil
	}
	return pbkdf2.Key([]byte(phrase), []byte("mnemonic"+password), seedIterations, sha512.Size, sha512.New)[:SecretSize], nil
}

// deriveHard replaces seed by BLAKE2b-256(label ++ seed ++ chain code).
func deriveHard(scheme Scheme, seed []byte, junction string) []byte {
	label := hdkdLabel(scheme)
	data := make([]byte, 0, 1+len(label)+len(seed)+chainCodeSize)
	data = append(data, compactLength(len(label))...)
	data = append(data, label...)
	data = append(data, seed...)
	cc := chainCode(junction)
	data = append(data, cc[:]...)
	h := Hash(data)
	return h[:]
}

func hdkdLabel(scheme Scheme) string {
	if scheme.Name() == Schnorr.Name() {
		return "Secp256k1HDKD"
	}
	return "Ed25519HDKD"
}

// chainCode encodes a numeric junction as a little-endian uint64 and any
// other junction as length-prefixed text, hashed when longer than 32 bytes.
func chainCode(junction string) [chainCodeSize]byte {
	var encoded []byte
	if n, err := strconv.ParseUint(junction, 10, 64); err == nil {
		encoded = Uint64ToBytes(n)
	} else {
		encoded = append(compactLength(len(junction)), junction...)
	}

	var cc [chainCodeSize]byte
	if len(encoded) > chainCodeSize {
		return Hash(encoded)
	}
	copy(cc[:], encoded)
	return cc
}
