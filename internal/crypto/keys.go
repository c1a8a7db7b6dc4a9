package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

const (
	PrivateKeySize      = 32
	PublicKeySize       = 33
	UncompressedKeySize = 65
	SignatureSize       = 64
)

var ErrInvalidPrivateKey = errors.New("invalid private key")

// PrivateKey is a secp256r1 private key.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// PublicKey is a secp256r1 public key.
type PublicKey struct {
	ecdsa.PublicKey
}

func NewPrivateKey() (*PrivateKey, error) {
	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &PrivateKey{PrivateKey: *k}, nil
}

func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(b))
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	x, y := curve.ScalarBaseMult(b)
	return &PrivateKey{PrivateKey: ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         d,
	}}, nil
}

func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return NewPrivateKeyFromBytes(b)
}

// Bytes returns the 32-byte big-endian scalar.
func (k *PrivateKey) Bytes() []byte {
	return k.D.FillBytes(make([]byte, PrivateKeySize))
}

func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{PublicKey: k.PrivateKey.PublicKey}
}

// Sign returns a 64-byte r||s signature over SHA-256(data).
func (k *PrivateKey) Sign(data []byte) ([]byte, error) {
	digest := Sha256(data)
	r, s, err := ecdsa.Sign(rand.Reader, &k.PrivateKey, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	sig := make([]byte, SignatureSize)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

// NewPublicKeyFromBytes accepts compressed and uncompressed encodings.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	curve := elliptic.P256()
	var x, y *big.Int
	switch {
	case len(b) == PublicKeySize && (b[0] == 0x02 || b[0] == 0x03):
		x, y = elliptic.UnmarshalCompressed(curve, b)
	case len(b) == UncompressedKeySize && b[0] == 0x04:
		x, y = elliptic.Unmarshal(curve, b) //nolint:staticcheck // point validation is what we need here.
	default:
		return nil, fmt.Errorf("invalid public key encoding of %d bytes", len(b))
	}
	if x == nil {
		return nil, errors.New("public key is not on the curve")
	}
	return &PublicKey{PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y}}, nil
}

func NewPublicKeyFromHex(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	return NewPublicKeyFromBytes(b)
}

// Bytes returns the compressed encoding.
func (p *PublicKey) Bytes() []byte {
	return elliptic.MarshalCompressed(p.Curve, p.X, p.Y)
}

func (p *PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// Cmp orders keys by X then Y coordinate, the order used in multi-signature scripts.
func (p *PublicKey) Cmp(other *PublicKey) int {
	if c := p.X.Cmp(other.X); c != 0 {
		return c
	}
	return p.Y.Cmp(other.Y)
}

// Verify checks a 64-byte r||s signature over SHA-256(data).
func (p *PublicKey) Verify(sig, data []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	return ecdsa.Verify(&p.PublicKey, Sha256(data), r, s)
}
