package crypto

import (
	"errors"
	"fmt"
)

const (
	wifVersion    = 0x80
	wifCompressed = 0x01
	wifPayloadLen = 1 + PrivateKeySize + 1
)

var ErrInvalidWIF = errors.New("invalid WIF")

// WIF encodes the key in Wallet Import Format (compressed).
func (k *PrivateKey) WIF() string {
	buf := make([]byte, 0, wifPayloadLen)
	buf = append(buf, wifVersion)
	buf = append(buf, k.Bytes()...)
	buf = append(buf, wifCompressed)
	return Base58CheckEncode(buf)
}

func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	data, err := Base58CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWIF, err)
	}
	if len(data) != wifPayloadLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidWIF, wifPayloadLen, len(data))
	}
	if data[0] != wifVersion {
		return nil, fmt.Errorf("%w: unexpected version byte %#x", ErrInvalidWIF, data[0])
	}
	if data[len(data)-1] != wifCompressed {
		return nil, fmt.Errorf("%w: missing compression flag", ErrInvalidWIF)
	}
	return NewPrivateKeyFromBytes(data[1 : 1+PrivateKeySize])
}
