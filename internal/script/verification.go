package script

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
)

// MaxMultiSigKeys bounds the number of keys in a multi-signature script.
const MaxMultiSigKeys = 1024

var ErrInvalidMultiSig = errors.New("invalid multi-signature configuration")

// SingleSigVerification returns the standard verification script of a single key.
func SingleSigVerification(pub *crypto.PublicKey) []byte {
	script, _ := NewBuilder().
		EmitPushData(pub.Bytes()).
		EmitSyscall(SystemCryptoCheckSig).
		Bytes()
	return script
}

// MultiSigVerification returns an m-out-of-n verification script. Keys are
// emitted in ascending order regardless of the order given.
func MultiSigVerification(m int, pubs []*crypto.PublicKey) ([]byte, error) {
	n := len(pubs)
	if n == 0 || n > MaxMultiSigKeys {
		return nil, fmt.Errorf("%w: %d keys", ErrInvalidMultiSig, n)
	}
	if m < 1 || m > n {
		return nil, fmt.Errorf("%w: threshold %d of %d", ErrInvalidMultiSig, m, n)
	}

	sorted := slices.Clone(pubs)
	slices.SortFunc(sorted, func(a, b *crypto.PublicKey) int { return a.Cmp(b) })

	b := NewBuilder().EmitPushInt64(int64(m))
	for _, pub := range sorted {
		b.EmitPushData(pub.Bytes())
	}
	b.EmitPushInt64(int64(n)).EmitSyscall(SystemCryptoCheckMultisig)
	return b.Bytes()
}

// InvocationScript pushes a signature for a verification script.
func InvocationScript(signature []byte) []byte {
	script, _ := NewBuilder().EmitPushData(signature).Bytes()
	return script
}

// IsSingleSig reports whether script is a standard single-key verification script.
func IsSingleSig(script []byte) bool {
	return len(script) == 40 &&
		script[0] == byte(PUSHDATA1) &&
		script[1] == crypto.PublicKeySize &&
		script[35] == byte(SYSCALL) &&
		bytes.Equal(script[36:], interopBytes(SystemCryptoCheckSig))
}

// ParseSingleSig returns the key of a single-key verification script.
func ParseSingleSig(script []byte) ([]byte, bool) {
	if !IsSingleSig(script) {
		return nil, false
	}
	return slices.Clone(script[2:35]), true
}

// IsMultiSig reports whether script is a standard multi-signature verification script.
func IsMultiSig(script []byte) bool {
	_, _, ok := ParseMultiSig(script)
	return ok
}

// ParseMultiSig returns the threshold and keys of a standard multi-signature
// verification script.
func ParseMultiSig(script []byte) (int, [][]byte, bool) {
	m, pos, ok := readSmallInt(script, 0)
	if !ok || m < 1 {
		return 0, nil, false
	}

	var pubs [][]byte
	for pos+2+crypto.PublicKeySize <= len(script) &&
		script[pos] == byte(PUSHDATA1) && script[pos+1] == crypto.PublicKeySize {
		pubs = append(pubs, slices.Clone(script[pos+2:pos+2+crypto.PublicKeySize]))
		pos += 2 + crypto.PublicKeySize
	}

	n, pos, ok := readSmallInt(script, pos)
	if !ok || n != len(pubs) || m > n {
		return 0, nil, false
	}
	if len(script) != pos+5 || script[pos] != byte(SYSCALL) ||
		!bytes.Equal(script[pos+1:], interopBytes(SystemCryptoCheckMultisig)) {
		return 0, nil, false
	}
	return m, pubs, true
}

// readSmallInt reads a PUSH0..PUSH16, PUSHINT8 or PUSHINT16 operand.
func readSmallInt(script []byte, pos int) (int, int, bool) {
	if pos >= len(script) {
		return 0, pos, false
	}
	op := Opcode(script[pos])
	switch {
	case op >= PUSH0 && op <= PUSH16:
		return int(op - PUSH0), pos + 1, true
	case op == PUSHINT8 && pos+1 < len(script):
		return int(int8(script[pos+1])), pos + 2, true
	case op == PUSHINT16 && pos+2 < len(script):
		return int(int16(uint16(script[pos+1]) | uint16(script[pos+2])<<8)), pos + 3, true
	}
	return 0, pos, false
}
