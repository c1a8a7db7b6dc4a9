package script

import (
	"encoding/binary"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
)

// Interop service names used by this toolkit.
const (
	SystemCryptoCheckSig      = "System.Crypto.CheckSig"
	SystemCryptoCheckMultisig = "System.Crypto.CheckMultisig"
	SystemContractCall        = "System.Contract.Call"
	SystemRuntimeCheckWitness = "System.Runtime.CheckWitness"
)

// CallFlags restrict what a called contract may do.
type CallFlags byte

const (
	NoneFlag    CallFlags = 0x00
	ReadStates  CallFlags = 0x01
	WriteStates CallFlags = 0x02
	AllowCall   CallFlags = 0x04
	AllowNotify CallFlags = 0x08

	States   = ReadStates | WriteStates
	ReadOnly = ReadStates | AllowCall
	All      = States | AllowCall | AllowNotify
)

// InteropHash returns the syscall identifier of an interop service: the
// first four bytes of SHA-256 over its name, read as little-endian.
func InteropHash(name string) uint32 {
	return binary.LittleEndian.Uint32(crypto.Sha256([]byte(name))[:4])
}

func interopBytes(name string) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], InteropHash(name))
	return b[:]
}
