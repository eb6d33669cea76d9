package identity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// SecretSize is the length of a serialized secret in bytes.
const SecretSize = 32

var (
	ErrSecretLength = fmt.Errorf("secret must be %d bytes", SecretSize)
	ErrSecretRange  = errors.New("secret is zero or not below the curve order")
)

// Secret is a secp256k1 private scalar from which the node identity is
// derived. On disk it is the lowercase hex of its 32 big-endian bytes, in a
// file named "key".
type Secret struct {
	scalar secp256k1.ModNScalar
}

// GenerateSecret returns a new random secret.
func GenerateSecret() (Secret, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return Secret{}, err
	}
	return Secret{scalar: priv.Key}, nil
}

// SecretFromBytes validates b as a 32-byte big-endian scalar in [1, N-1].
func SecretFromBytes(b []byte) (Secret, error) {
	if len(b) != SecretSize {
		return Secret{}, ErrSecretLength
	}
	var s Secret
	if overflow := s.scalar.SetByteSlice(b); overflow || s.scalar.IsZero() {
		return Secret{}, ErrSecretRange
	}
	return s, nil
}

// ParseSecret decodes a hex secret. Surrounding whitespace and a 0x prefix are
// accepted.
func ParseSecret(str string) (Secret, error) {
	str = strings.TrimSpace(str)
	str = strings.TrimPrefix(strings.TrimPrefix(str, "0x"), "0X")
	b, err := hex.DecodeString(str)
	if err != nil {
		return Secret{}, fmt.Errorf("invalid secret hex: %w", err)
	}
	return SecretFromBytes(b)
}

func (Secret) FileName() string    { return "key" }
func (Secret) Description() string { return "key file" }

// Encode returns the lowercase hex form of the secret.
func (s Secret) Encode() string {
	b := s.scalar.Bytes()
	return hex.EncodeToString(b[:])
}

// Decode accepts exactly what Encode produces: 64 hex digits and nothing
// else. ParseSecret is the forgiving form for keys typed by hand.
func (s *Secret) Decode(str string) error {
	if len(str) != 2*SecretSize {
		return ErrSecretLength
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return fmt.Errorf("invalid secret hex: %w", err)
	}
	parsed, err := SecretFromBytes(b)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Valid reports whether s holds a usable key. The zero Secret is not valid.
func (s Secret) Valid() bool {
	return !s.scalar.IsZero()
}

func (s Secret) Bytes() [SecretSize]byte {
	return s.scalar.Bytes()
}

func (s Secret) Equal(o Secret) bool {
	return s.scalar.Equals(&o.scalar)
}

// PrivKey converts the secret into a libp2p private key.
func (s Secret) PrivKey() crypto.PrivKey {
	return (*crypto.Secp256k1PrivateKey)(secp256k1.NewPrivateKey(&s.scalar))
}

// PeerID derives the libp2p peer ID of the node owning s.
func (s Secret) PeerID() (peer.ID, error) {
	return peer.IDFromPrivateKey(s.PrivKey())
}

// NodeID is the hex of the 64-byte uncompressed public key without its prefix
// byte, the form used in enode URLs.
func (s Secret) NodeID() string {
	pub := secp256k1.NewPrivateKey(&s.scalar).PubKey().SerializeUncompressed()
	return hex.EncodeToString(pub[1:])
}

// String never prints key material.
func (s Secret) String() string {
	if !s.Valid() {
		return "Secret(invalid)"
	}
	id := s.NodeID()
	return "Secret(node " + id[:8] + "…)"
}
