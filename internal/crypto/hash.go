package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is part of the address format.
)

func Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Hash256 is a double SHA-256.
func Hash256(data []byte) []byte {
	return Sha256(Sha256(data))
}

func RipeMD160(data []byte) []byte {
	h := ripemd160.New()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// Hash160 is RIPEMD-160 over SHA-256, used for script hashes.
func Hash160(data []byte) []byte {
	return RipeMD160(Sha256(data))
}

// Checksum returns the first four bytes of Hash256(data).
func Checksum(data []byte) []byte {
	return Hash256(data)[:4]
}
