package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

var ErrInvalidChecksum = errors.New("invalid base58 checksum")

// Base58CheckEncode appends a four byte checksum to data and base58 encodes it.
func Base58CheckEncode(data []byte) string {
	buf := make([]byte, 0, len(data)+4)
	buf = append(buf, data...)
	buf = append(buf, Checksum(data)...)
	return base58.Encode(buf)
}

// Base58CheckDecode decodes s and verifies its trailing checksum.
func Base58CheckDecode(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58: %w", err)
	}
	if len(raw) < 5 {
		return nil, fmt.Errorf("base58 payload too short: %d bytes", len(raw))
	}
	data, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(sum, Checksum(data)) {
		return nil, ErrInvalidChecksum
	}
	return data, nil
}
