package types

import (
	"errors"
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
)

// AddressVersion is the version byte prepended to script hashes in addresses.
const AddressVersion byte = 0x35

var ErrInvalidAddress = errors.New("invalid address")

// Address returns the base58check address of the script hash.
func (u Uint160) Address() string {
	buf := make([]byte, 0, 1+Uint160Size)
	buf = append(buf, AddressVersion)
	buf = append(buf, u[:]...)
	return crypto.Base58CheckEncode(buf)
}

// AddressToScriptHash decodes a base58check address.
func AddressToScriptHash(address string) (Uint160, error) {
	data, err := crypto.Base58CheckDecode(address)
	if err != nil {
		return Uint160{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(data) != 1+Uint160Size {
		return Uint160{}, fmt.Errorf("%w: unexpected length %d", ErrInvalidAddress, len(data))
	}
	if data[0] != AddressVersion {
		return Uint160{}, fmt.Errorf("%w: unexpected version %#x", ErrInvalidAddress, data[0])
	}
	return Uint160FromBytesLE(data[1:])
}

// ParseAccount accepts either an address or a big-endian script hash.
func ParseAccount(s string) (Uint160, error) {
	if u, err := AddressToScriptHash(s); err == nil {
		return u, nil
	}
	u, err := Uint160DecodeString(s)
	if err != nil {
		return Uint160{}, fmt.Errorf("%q is neither an address nor a script hash", s)
	}
	return u, nil
}

// ScriptHashOf returns the script hash of a VM script.
func ScriptHashOf(script []byte) Uint160 {
	var u Uint160
	copy(u[:], crypto.Hash160(script))
	return u
}
