package transaction

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

const (
	MaxTransactionSize = 102400
	MaxSubitems        = 16
	MaxSigners         = 16
	MaxAttributes      = 16
	MaxScriptSize      = 0xffff
)

var (
	ErrNoSigners           = errors.New("transaction has no signers")
	ErrTooManySigners      = errors.New("too many signers")
	ErrDuplicateSigner     = errors.New("duplicate signer")
	ErrTooManyAttributes   = errors.New("too many attributes")
	ErrEmptyScript         = errors.New("transaction script is empty")
	ErrTooLarge            = errors.New("transaction exceeds maximum size")
	ErrGlobalScopeCombined = errors.New("global scope cannot be combined with other scopes")
	ErrTooManySubitems     = errors.New("too many signer subitems")
	ErrWitnessCount        = errors.New("witness count does not match signer count")
)

// Transaction is a chain transaction. Scripts holds one witness per signer,
// in signer order.
type Transaction struct {
	Version         uint8
	Nonce           uint32
	SystemFee       int64
	NetworkFee      int64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      []Attribute
	Script          []byte
	Scripts         []Witness
}

func (t *Transaction) encodeUnsigned(w *codec.BinWriter) {
	w.WriteU8(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteI64LE(t.SystemFee)
	w.WriteI64LE(t.NetworkFee)
	w.WriteU32LE(t.ValidUntilBlock)
	w.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(w)
	}
	w.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(w)
	}
	w.WriteVarBytes(t.Script)
}

func (t *Transaction) EncodeBinary(w *codec.BinWriter) {
	t.encodeUnsigned(w)
	w.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(w)
	}
}

// DecodeBinary reads a transaction. The witness list may be absent, which is
// how unsigned transactions are exchanged.
func (t *Transaction) DecodeBinary(r *codec.BinReader) {
	t.Version = r.ReadU8()
	if r.Err == nil && t.Version != 0 {
		r.SetErr(fmt.Errorf("unsupported transaction version %d", t.Version))
		return
	}
	t.Nonce = r.ReadU32LE()
	t.SystemFee = r.ReadI64LE()
	t.NetworkFee = r.ReadI64LE()
	t.ValidUntilBlock = r.ReadU32LE()

	signers := codec.ReadArray(r, MaxSigners, func() *Signer { return new(Signer) })
	if r.Err != nil {
		return
	}
	t.Signers = make([]Signer, 0, len(signers))
	for _, s := range signers {
		t.Signers = append(t.Signers, *s)
	}

	attrs := codec.ReadArray(r, MaxAttributes, func() *Attribute { return new(Attribute) })
	if r.Err != nil {
		return
	}
	t.Attributes = nil
	for _, a := range attrs {
		t.Attributes = append(t.Attributes, *a)
	}

	t.Script = r.ReadVarBytes(MaxScriptSize)
	if r.Err != nil {
		return
	}
	if err := t.validateShape(); err != nil {
		r.SetErr(err)
		return
	}

	t.Scripts = nil
	if r.Len() == 0 {
		return
	}
	witnesses := codec.ReadArray(r, MaxSigners, func() *Witness { return new(Witness) })
	if r.Err != nil {
		return
	}
	if len(witnesses) != len(t.Signers) {
		r.SetErr(fmt.Errorf("%w: %d witnesses, %d signers", ErrWitnessCount, len(witnesses), len(t.Signers)))
		return
	}
	for _, w := range witnesses {
		t.Scripts = append(t.Scripts, *w)
	}
}

func (t *Transaction) validateShape() error {
	if len(t.Signers) == 0 {
		return ErrNoSigners
	}
	if len(t.Signers) > MaxSigners {
		return ErrTooManySigners
	}
	seen := make(map[types.Uint160]struct{}, len(t.Signers))
	for i := range t.Signers {
		if _, ok := seen[t.Signers[i].Account]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSigner, t.Signers[i].Account)
		}
		seen[t.Signers[i].Account] = struct{}{}
		if err := t.Signers[i].Validate(); err != nil {
			return err
		}
	}
	if len(t.Attributes) > MaxAttributes {
		return ErrTooManyAttributes
	}
	if len(t.Script) == 0 {
		return ErrEmptyScript
	}
	return nil
}

// Validate checks the structural limits a node enforces before accepting a
// transaction.
func (t *Transaction) Validate() error {
	if err := t.validateShape(); err != nil {
		return err
	}
	if len(t.Scripts) != 0 && len(t.Scripts) != len(t.Signers) {
		return ErrWitnessCount
	}
	size, err := t.Size()
	if err != nil {
		return err
	}
	if size > MaxTransactionSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return nil
}

// Hash is the SHA-256 of the unsigned serialization, so witnesses never
// change it.
func (t *Transaction) Hash() (types.Uint256, error) {
	w := codec.NewBinWriter()
	t.encodeUnsigned(w)
	if w.Err != nil {
		return types.Uint256{}, w.Err
	}
	return types.Uint256FromBytesLE(crypto.Sha256(w.Bytes()))
}

// SignedData is the message every witness signs on the given network.
func (t *Transaction) SignedData(magic uint32) ([]byte, error) {
	h, err := t.Hash()
	if err != nil {
		return nil, err
	}
	w := codec.NewBinWriter()
	w.WriteU32LE(magic)
	w.WriteBytes(h[:])
	return w.Bytes(), nil
}

func (t *Transaction) Size() (int, error) {
	b, err := codec.ToBytes(t)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// Sender is the first signer, which pays the fees.
func (t *Transaction) Sender() (types.Uint160, error) {
	if len(t.Signers) == 0 {
		return types.Uint160{}, ErrNoSigners
	}
	return t.Signers[0].Account, nil
}

func (t *Transaction) Bytes() ([]byte, error) {
	return codec.ToBytes(t)
}

// Base64 is the encoding sendrawtransaction expects.
func (t *Transaction) Base64() (string, error) {
	b, err := t.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// FromBytes decodes a serialized transaction.
func FromBytes(data []byte) (*Transaction, error) {
	tx := new(Transaction)
	if err := codec.FromBytes(data, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
