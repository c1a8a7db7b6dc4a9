package transaction

import (
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/script"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// MaxWitnessScriptSize bounds invocation and verification scripts.
const MaxWitnessScriptSize = 1024

// Witness proves a signer approved the transaction.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// ContractWitness is the witness of a deployed contract account. The
// invocation script pushes the arguments of the contract's verify method and
// the verification script is empty, so the node calls verify on the signer's
// contract.
func ContractWitness(verifyParams ...types.ContractParameter) (Witness, error) {
	b := script.NewBuilder()
	for _, p := range verifyParams {
		b.EmitPushParam(p)
	}
	invocation, err := b.Bytes()
	if err != nil {
		return Witness{}, fmt.Errorf("failed to build contract invocation script: %w", err)
	}
	return Witness{InvocationScript: invocation, VerificationScript: []byte{}}, nil
}

// ScriptHash returns the hash of the account the witness belongs to.
func (w *Witness) ScriptHash() types.Uint160 {
	return types.ScriptHashOf(w.VerificationScript)
}

func (w *Witness) EncodeBinary(bw *codec.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

func (w *Witness) DecodeBinary(r *codec.BinReader) {
	w.InvocationScript = r.ReadVarBytes(MaxWitnessScriptSize)
	w.VerificationScript = r.ReadVarBytes(MaxWitnessScriptSize)
}
