package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
)

const (
	Uint160Size = 20
	Uint256Size = 32
)

// Uint160 is a script hash. Bytes are stored in little-endian order, the
// order they appear in on the wire; String returns the big-endian hex form.
type Uint160 [Uint160Size]byte

// Uint256 is a transaction or block hash, stored little-endian.
type Uint256 [Uint256Size]byte

func Uint160FromBytesLE(b []byte) (Uint160, error) {
	var u Uint160
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

func Uint160FromBytesBE(b []byte) (Uint160, error) {
	return Uint160FromBytesLE(reversed(b))
}

// Uint160DecodeString parses big-endian hex with an optional 0x prefix.
func Uint160DecodeString(s string) (Uint160, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Uint160{}, fmt.Errorf("invalid script hash %q: %w", s, err)
	}
	return Uint160FromBytesBE(b)
}

func (u Uint160) BytesLE() []byte {
	return slices.Clone(u[:])
}

func (u Uint160) BytesBE() []byte {
	return reversed(u[:])
}

func (u Uint160) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE returns the little-endian hex form.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u[:])
}

func (u Uint160) IsZero() bool {
	return u == Uint160{}
}

// Less orders hashes by their big-endian value.
func (u Uint160) Less(other Uint160) bool {
	for i := Uint160Size - 1; i >= 0; i-- {
		if u[i] != other[i] {
			return u[i] < other[i]
		}
	}
	return false
}

func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Uint160DecodeString(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u *Uint160) EncodeBinary(w *codec.BinWriter) {
	w.WriteBytes(u[:])
}

func (u *Uint160) DecodeBinary(r *codec.BinReader) {
	copy(u[:], r.ReadBytes(Uint160Size))
}

func Uint256FromBytesLE(b []byte) (Uint256, error) {
	var u Uint256
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

func Uint256FromBytesBE(b []byte) (Uint256, error) {
	return Uint256FromBytesLE(reversed(b))
}

// Uint256DecodeString parses big-endian hex with an optional 0x prefix.
func Uint256DecodeString(s string) (Uint256, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Uint256{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return Uint256FromBytesBE(b)
}

func (u Uint256) BytesLE() []byte {
	return slices.Clone(u[:])
}

func (u Uint256) BytesBE() []byte {
	return reversed(u[:])
}

func (u Uint256) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE returns the little-endian hex form.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u[:])
}

func (u Uint256) IsZero() bool {
	return u == Uint256{}
}

func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Uint256DecodeString(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u *Uint256) EncodeBinary(w *codec.BinWriter) {
	w.WriteBytes(u[:])
}

func (u *Uint256) DecodeBinary(r *codec.BinReader) {
	copy(u[:], r.ReadBytes(Uint256Size))
}

func reversed(b []byte) []byte {
	out := slices.Clone(b)
	slices.Reverse(out)
	return out
}
