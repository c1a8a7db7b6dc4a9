package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/epicchainlabs/epicchain-go/internal/types"
)

const Version = "1.0"

var (
	ErrAccountExists      = errors.New("account already exists in wallet")
	ErrAccountNotFound    = errors.New("account not found in wallet")
	ErrUnencryptedKey     = errors.New("account key must be encrypted before saving")
	ErrPassphraseMismatch = errors.New("passphrase does not unlock the existing accounts")
)

// Wallet is a NEP-6 wallet.
type Wallet struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Scrypt   ScryptParams    `json:"scrypt"`
	Accounts []*Account      `json:"accounts"`
	Extra    json.RawMessage `json:"extra"`
}

func New(name string) *Wallet {
	return &Wallet{
		Name:     name,
		Version:  Version,
		Scrypt:   DefaultScryptParams(),
		Accounts: []*Account{},
		Extra:    json.RawMessage("null"),
	}
}

// Open reads a wallet file. Keys stay encrypted until DecryptAll.
func Open(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}
	var w Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse wallet %s: %w", path, err)
	}
	if w.Version != Version {
		return nil, fmt.Errorf("unsupported wallet version %q", w.Version)
	}
	if w.Accounts == nil {
		w.Accounts = []*Account{}
	}
	return &w, nil
}

// Save writes the wallet with owner-only permissions. Every account holding a
// key must have been encrypted first.
func (w *Wallet) Save(path string) error {
	for _, a := range w.Accounts {
		if a.privateKey != nil && a.EncryptedKey == "" {
			return fmt.Errorf("%w: %s", ErrUnencryptedKey, a.Address)
		}
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create wallet directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write wallet: %w", err)
	}
	return nil
}

// AddAccount appends acc. The first account becomes the default.
func (w *Wallet) AddAccount(acc *Account) error {
	if w.GetAccount(acc.ScriptHash()) != nil {
		return fmt.Errorf("%w: %s", ErrAccountExists, acc.Address)
	}
	if len(w.Accounts) == 0 {
		acc.IsDefault = true
	}
	w.Accounts = append(w.Accounts, acc)
	return nil
}

// RemoveAccount deletes the account. If it was the default, the first
// remaining account takes over.
func (w *Wallet) RemoveAccount(hash types.Uint160) error {
	i := slices.IndexFunc(w.Accounts, func(a *Account) bool { return a.ScriptHash() == hash })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, hash.Address())
	}
	wasDefault := w.Accounts[i].IsDefault
	w.Accounts = slices.Delete(w.Accounts, i, i+1)
	if wasDefault && len(w.Accounts) > 0 {
		w.Accounts[0].IsDefault = true
	}
	return nil
}

func (w *Wallet) GetAccount(hash types.Uint160) *Account {
	for _, a := range w.Accounts {
		if a.ScriptHash() == hash {
			return a
		}
	}
	return nil
}

// DefaultAccount returns the account flagged as default, falling back to the
// first one.
func (w *Wallet) DefaultAccount() *Account {
	for _, a := range w.Accounts {
		if a.IsDefault {
			return a
		}
	}
	if len(w.Accounts) > 0 {
		return w.Accounts[0]
	}
	return nil
}

func (w *Wallet) SetDefault(hash types.Uint160) error {
	acc := w.GetAccount(hash)
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, hash.Address())
	}
	for _, a := range w.Accounts {
		a.IsDefault = false
	}
	acc.IsDefault = true
	return nil
}

// EncryptAll encrypts every account that holds a key. It fails without
// changing anything when passphrase does not unlock the accounts that are
// already locked, so a wallet never ends up with mixed passphrases.
func (w *Wallet) EncryptAll(passphrase string) error {
	if err := w.CheckPassphrase(passphrase); err != nil {
		return err
	}
	for _, a := range w.Accounts {
		if a.privateKey == nil {
			continue
		}
		if err := a.Encrypt(passphrase, w.Scrypt); err != nil {
			return fmt.Errorf("account %s: %w", a.Address, err)
		}
	}
	return nil
}

// DecryptAll unlocks every account that has an encrypted key.
func (w *Wallet) DecryptAll(passphrase string) error {
	for _, a := range w.Accounts {
		if a.EncryptedKey == "" {
			continue
		}
		if err := a.Decrypt(passphrase, w.Scrypt); err != nil {
			return fmt.Errorf("account %s: %w", a.Address, err)
		}
	}
	return nil
}

// CheckPassphrase verifies passphrase against every locked account without
// unlocking it.
func (w *Wallet) CheckPassphrase(passphrase string) error {
	for _, a := range w.Accounts {
		if a.privateKey != nil || a.EncryptedKey == "" {
			continue
		}
		if _, err := NEP2Decrypt(a.EncryptedKey, passphrase, w.Scrypt); err != nil {
			if errors.Is(err, ErrWrongPassphrase) {
				return fmt.Errorf("%w: %s", ErrPassphraseMismatch, a.Address)
			}
			return fmt.Errorf("account %s: %w", a.Address, err)
		}
	}
	return nil
}
