package wallet

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/script"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

var (
	ErrNoPrivateKey = errors.New("account has no private key")
	ErrNoEncrypted  = errors.New("account has no encrypted key")
)

// Account is a NEP-6 wallet account. The private key is only held in memory
// after Decrypt or when the account was created from a key.
type Account struct {
	Address      string
	Label        string
	IsDefault    bool
	Lock         bool
	EncryptedKey string
	Contract     *Contract
	Extra        json.RawMessage

	scriptHash types.Uint160
	privateKey *crypto.PrivateKey
}

// Contract is the verification contract of an account.
type Contract struct {
	Script     []byte          `json:"script"`
	Parameters []ContractParam `json:"parameters"`
	Deployed   bool            `json:"deployed"`
}

type ContractParam struct {
	Name string          `json:"name"`
	Type types.ParamType `json:"type"`
}

// NewAccount generates a fresh single-signature account.
func NewAccount() (*Account, error) {
	key, err := crypto.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(key), nil
}

func NewAccountFromPrivateKey(key *crypto.PrivateKey) *Account {
	verification := script.SingleSigVerification(key.PublicKey())
	hash := types.ScriptHashOf(verification)
	return &Account{
		Address: hash.Address(),
		Contract: &Contract{
			Script:     verification,
			Parameters: []ContractParam{{Name: "signature", Type: types.SignatureType}},
		},
		scriptHash: hash,
		privateKey: key,
	}
}

func NewAccountFromWIF(wif string) (*Account, error) {
	key, err := crypto.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(key), nil
}

// NewAccountFromNEP2 decrypts nep2 and keeps the encrypted form.
func NewAccountFromNEP2(nep2, passphrase string, params ScryptParams) (*Account, error) {
	key, err := NEP2Decrypt(nep2, passphrase, params)
	if err != nil {
		return nil, err
	}
	acc := NewAccountFromPrivateKey(key)
	acc.EncryptedKey = nep2
	return acc, nil
}

// NewMultiSigAccount creates an m-out-of-n account. It holds no key.
func NewMultiSigAccount(m int, pubs []*crypto.PublicKey) (*Account, error) {
	verification, err := script.MultiSigVerification(m, pubs)
	if err != nil {
		return nil, err
	}
	params := make([]ContractParam, m)
	for i := range params {
		params[i] = ContractParam{Name: fmt.Sprintf("signature%d", i), Type: types.SignatureType}
	}
	hash := types.ScriptHashOf(verification)
	return &Account{
		Address:    hash.Address(),
		Contract:   &Contract{Script: verification, Parameters: params},
		scriptHash: hash,
	}, nil
}

func (a *Account) ScriptHash() types.Uint160 {
	return a.scriptHash
}

func (a *Account) VerificationScript() []byte {
	if a.Contract == nil {
		return nil
	}
	return a.Contract.Script
}

// PrivateKey returns the decrypted key or nil.
func (a *Account) PrivateKey() *crypto.PrivateKey {
	return a.privateKey
}

func (a *Account) IsMultiSig() bool {
	return script.IsMultiSig(a.VerificationScript())
}

// Encrypt stores the key in NEP-2 form and drops the plain key.
func (a *Account) Encrypt(passphrase string, params ScryptParams) error {
	if a.privateKey == nil {
		return ErrNoPrivateKey
	}
	enc, err := NEP2Encrypt(a.privateKey, passphrase, params)
	if err != nil {
		return err
	}
	a.EncryptedKey = enc
	a.privateKey = nil
	return nil
}

// Decrypt unlocks the NEP-2 key. It is a no-op for unlocked accounts.
func (a *Account) Decrypt(passphrase string, params ScryptParams) error {
	if a.privateKey != nil {
		return nil
	}
	if a.EncryptedKey == "" {
		return ErrNoEncrypted
	}
	key, err := NEP2Decrypt(a.EncryptedKey, passphrase, params)
	if err != nil {
		return err
	}
	if a.Contract != nil && !a.IsMultiSig() {
		if hash := types.ScriptHashOf(script.SingleSigVerification(key.PublicKey())); hash != a.scriptHash {
			return fmt.Errorf("decrypted key does not belong to account %s", a.Address)
		}
	}
	a.privateKey = key
	return nil
}

type accountJSON struct {
	Address   string          `json:"address"`
	Label     *string         `json:"label"`
	IsDefault bool            `json:"isDefault"`
	Lock      bool            `json:"lock"`
	Key       *string         `json:"key"`
	Contract  *Contract       `json:"contract"`
	Extra     json.RawMessage `json:"extra"`
}

func (a *Account) MarshalJSON() ([]byte, error) {
	out := accountJSON{
		Address:   a.Address,
		IsDefault: a.IsDefault,
		Lock:      a.Lock,
		Contract:  a.Contract,
		Extra:     a.Extra,
	}
	if a.Label != "" {
		out.Label = &a.Label
	}
	if a.EncryptedKey != "" {
		out.Key = &a.EncryptedKey
	}
	if out.Extra == nil {
		out.Extra = json.RawMessage("null")
	}
	return json.Marshal(out)
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var raw accountJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	hash, err := types.AddressToScriptHash(raw.Address)
	if err != nil {
		return err
	}
	*a = Account{
		Address:    raw.Address,
		IsDefault:  raw.IsDefault,
		Lock:       raw.Lock,
		Contract:   raw.Contract,
		Extra:      raw.Extra,
		scriptHash: hash,
	}
	if raw.Label != nil {
		a.Label = *raw.Label
	}
	if raw.Key != nil {
		a.EncryptedKey = *raw.Key
	}
	return nil
}
