package types

import (
	"math/big"
	"slices"
)

// IntToBytes returns the minimal little-endian two's complement form of n.
// Zero encodes to an empty slice.
func IntToBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{}
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		slices.Reverse(b)
		return b
	}

	// Two's complement of a negative value over the smallest byte width
	// that keeps the sign bit set.
	abs := new(big.Int).Neg(n)
	size := (abs.BitLen() + 7) / 8
	if size == 0 {
		size = 1
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	v := new(big.Int).Sub(mod, abs)
	b := v.FillBytes(make([]byte, size))
	if b[0]&0x80 == 0 {
		b = append([]byte{0xff}, b...)
	}
	slices.Reverse(b)
	return b
}

// BytesToInt decodes a little-endian two's complement integer.
func BytesToInt(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	be := slices.Clone(b)
	slices.Reverse(be)
	n := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8)))
	}
	return n
}
