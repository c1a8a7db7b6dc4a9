package transaction

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/script"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

const (
	// DefaultBlockTime is the block interval in milliseconds.
	DefaultBlockTime = 15000
	// MaxValidUntilBlockIncrement is how far ahead a transaction may expire:
	// one day of blocks.
	MaxValidUntilBlockIncrement = 86400000 / DefaultBlockTime
)

var (
	ErrNoAccount       = errors.New("no account registered for signer")
	ErrMultiSigAccount = errors.New("multi-signature accounts cannot be signed automatically")
	ErrAccountLocked   = errors.New("account private key is not available")
	ErrInvocationFault = errors.New("script invocation faulted")
)

// Node is the subset of the RPC API needed to complete a transaction.
type Node interface {
	GetBlockCount(ctx context.Context) (uint32, error)
	InvokeScript(ctx context.Context, script []byte, signers []Signer) (*types.InvocationResult, error)
	CalculateNetworkFee(ctx context.Context, tx []byte) (int64, error)
	Network(ctx context.Context) (uint32, error)
}

// Account supplies the verification script and, when unlocked, the key of a
// signer.
type Account interface {
	ScriptHash() types.Uint160
	VerificationScript() []byte
	PrivateKey() *crypto.PrivateKey
}

// Builder assembles a transaction, fetching fees and expiry from a node.
type Builder struct {
	node                 Node
	script               []byte
	signers              []Signer
	attributes           []Attribute
	accounts             map[types.Uint160]Account
	contracts            map[types.Uint160][]types.ContractParameter
	nonce                *uint32
	validUntilBlock      *uint32
	additionalSystemFee  int64
	additionalNetworkFee int64
	allowFault           bool
}

func NewBuilder(node Node) *Builder {
	return &Builder{
		node:      node,
		accounts:  make(map[types.Uint160]Account),
		contracts: make(map[types.Uint160][]types.ContractParameter),
	}
}

func (b *Builder) Script(s []byte) *Builder {
	b.script = slices.Clone(s)
	return b
}

func (b *Builder) Signers(signers ...Signer) *Builder {
	b.signers = slices.Clone(signers)
	return b
}

func (b *Builder) Attributes(attrs ...Attribute) *Builder {
	b.attributes = append(b.attributes, attrs...)
	return b
}

// Accounts registers the accounts used to compute fees and sign.
func (b *Builder) Accounts(accounts ...Account) *Builder {
	for _, a := range accounts {
		b.accounts[a.ScriptHash()] = a
	}
	return b
}

// ContractAccount marks the signer with the given contract hash as a deployed
// contract account. Its witness is produced by the contract's verify method
// called with verifyParams instead of by a key.
func (b *Builder) ContractAccount(hash types.Uint160, verifyParams ...types.ContractParameter) *Builder {
	b.contracts[hash] = slices.Clone(verifyParams)
	return b
}

func (b *Builder) Nonce(n uint32) *Builder {
	b.nonce = &n
	return b
}

func (b *Builder) ValidUntilBlock(height uint32) *Builder {
	b.validUntilBlock = &height
	return b
}

func (b *Builder) AdditionalSystemFee(fee int64) *Builder {
	b.additionalSystemFee = fee
	return b
}

func (b *Builder) AdditionalNetworkFee(fee int64) *Builder {
	b.additionalNetworkFee = fee
	return b
}

// AllowTransmissionOnFault keeps building when the test invocation faults.
func (b *Builder) AllowTransmissionOnFault() *Builder {
	b.allowFault = true
	return b
}

// FirstSigner moves the signer for account to the front so it pays the fees.
func (b *Builder) FirstSigner(account types.Uint160) error {
	i := slices.IndexFunc(b.signers, func(s Signer) bool { return s.Account == account })
	if i < 0 {
		return fmt.Errorf("account %s is not a signer", account)
	}
	if b.signers[i].Scopes == None {
		return fmt.Errorf("fee paying signer %s cannot have scope None", account)
	}
	s := b.signers[i]
	b.signers = slices.Delete(b.signers, i, i+1)
	b.signers = slices.Insert(b.signers, 0, s)
	return nil
}

// GetUnsignedTx validates the inputs, then fills in nonce, expiry and fees.
func (b *Builder) GetUnsignedTx(ctx context.Context) (*Transaction, error) {
	tx := &Transaction{
		Signers:    slices.Clone(b.signers),
		Attributes: slices.Clone(b.attributes),
		Script:     slices.Clone(b.script),
	}
	if err := tx.validateShape(); err != nil {
		return nil, err
	}

	if b.nonce != nil {
		tx.Nonce = *b.nonce
	} else {
		n, err := randomNonce()
		if err != nil {
			return nil, err
		}
		tx.Nonce = n
	}

	if b.validUntilBlock != nil {
		if *b.validUntilBlock == 0 {
			return nil, errors.New("valid until block must be greater than zero")
		}
		tx.ValidUntilBlock = *b.validUntilBlock
	} else {
		count, err := b.node.GetBlockCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get block count: %w", err)
		}
		tx.ValidUntilBlock = count + MaxValidUntilBlockIncrement - 1
	}

	res, err := b.node.InvokeScript(ctx, tx.Script, tx.Signers)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke script: %w", err)
	}
	if res.HasFault() && !b.allowFault {
		exc := ""
		if res.Exception != nil {
			exc = *res.Exception
		}
		return nil, fmt.Errorf("%w: %s", ErrInvocationFault, exc)
	}
	gas, err := res.GasConsumedInt()
	if err != nil {
		return nil, err
	}
	tx.SystemFee = gas + b.additionalSystemFee

	netFee, err := b.networkFee(ctx, tx)
	if err != nil {
		return nil, err
	}
	tx.NetworkFee = netFee + b.additionalNetworkFee

	slog.Debug("Built unsigned transaction",
		"nonce", tx.Nonce, "validUntilBlock", tx.ValidUntilBlock,
		"systemFee", tx.SystemFee, "networkFee", tx.NetworkFee)
	return tx, nil
}

// networkFee asks the node to price a copy of tx carrying verification-only
// witnesses.
func (b *Builder) networkFee(ctx context.Context, tx *Transaction) (int64, error) {
	probe := *tx
	probe.Scripts = make([]Witness, len(tx.Signers))
	for i, s := range tx.Signers {
		if params, ok := b.contracts[s.Account]; ok {
			w, err := ContractWitness(params...)
			if err != nil {
				return 0, err
			}
			probe.Scripts[i] = w
			continue
		}
		if acc, ok := b.accounts[s.Account]; ok {
			probe.Scripts[i].VerificationScript = acc.VerificationScript()
		}
	}
	raw, err := probe.Bytes()
	if err != nil {
		return 0, err
	}
	fee, err := b.node.CalculateNetworkFee(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate network fee: %w", err)
	}
	return fee, nil
}

// Sign builds the transaction and adds a witness for every signer, signing
// with the registered account's key or, for contract accounts, pushing the
// verify arguments.
func (b *Builder) Sign(ctx context.Context) (*Transaction, error) {
	tx, err := b.GetUnsignedTx(ctx)
	if err != nil {
		return nil, err
	}
	magic, err := b.node.Network(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network magic: %w", err)
	}
	data, err := tx.SignedData(magic)
	if err != nil {
		return nil, err
	}

	tx.Scripts = make([]Witness, 0, len(tx.Signers))
	for _, s := range tx.Signers {
		if params, ok := b.contracts[s.Account]; ok {
			w, err := ContractWitness(params...)
			if err != nil {
				return nil, err
			}
			tx.Scripts = append(tx.Scripts, w)
			continue
		}
		acc, ok := b.accounts[s.Account]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoAccount, s.Account)
		}
		verification := acc.VerificationScript()
		if script.IsMultiSig(verification) {
			return nil, fmt.Errorf("%w: %s", ErrMultiSigAccount, s.Account)
		}
		key := acc.PrivateKey()
		if key == nil {
			return nil, fmt.Errorf("%w: %s", ErrAccountLocked, s.Account)
		}
		sig, err := key.Sign(data)
		if err != nil {
			return nil, err
		}
		tx.Scripts = append(tx.Scripts, Witness{
			InvocationScript:   script.InvocationScript(sig),
			VerificationScript: verification,
		})
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

func randomNonce() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
