package transaction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// Signer is an account whose witness the transaction carries, together with
// the scope that witness is valid in.
type Signer struct {
	Account          types.Uint160
	Scopes           WitnessScope
	AllowedContracts []types.Uint160
	AllowedGroups    []*crypto.PublicKey
	Rules            []WitnessRule
}

func NewSigner(account types.Uint160, scopes WitnessScope) Signer {
	return Signer{Account: account, Scopes: scopes}
}

// CalledByEntrySigner is the default signer used for simple transfers.
func CalledByEntrySigner(account types.Uint160) Signer {
	return NewSigner(account, CalledByEntry)
}

func GlobalSigner(account types.Uint160) Signer {
	return NewSigner(account, Global)
}

// AllowContracts restricts the witness to calls made by the given contracts.
func (s *Signer) AllowContracts(hashes ...types.Uint160) error {
	if s.Scopes.Has(Global) {
		return fmt.Errorf("%w: cannot allow contracts", ErrGlobalScopeCombined)
	}
	if len(s.AllowedContracts)+len(hashes) > MaxSubitems {
		return fmt.Errorf("%w: allowed contracts", ErrTooManySubitems)
	}
	s.AllowedContracts = append(s.AllowedContracts, hashes...)
	s.Scopes |= CustomContracts
	return nil
}

// AllowGroups restricts the witness to contracts in the given groups.
func (s *Signer) AllowGroups(groups ...*crypto.PublicKey) error {
	if s.Scopes.Has(Global) {
		return fmt.Errorf("%w: cannot allow groups", ErrGlobalScopeCombined)
	}
	if len(s.AllowedGroups)+len(groups) > MaxSubitems {
		return fmt.Errorf("%w: allowed groups", ErrTooManySubitems)
	}
	s.AllowedGroups = append(s.AllowedGroups, groups...)
	s.Scopes |= CustomGroups
	return nil
}

func (s *Signer) AddRules(rules ...WitnessRule) error {
	if s.Scopes.Has(Global) {
		return fmt.Errorf("%w: cannot add rules", ErrGlobalScopeCombined)
	}
	if len(s.Rules)+len(rules) > MaxSubitems {
		return fmt.Errorf("%w: rules", ErrTooManySubitems)
	}
	for _, r := range rules {
		if r.Condition.Depth() > MaxConditionNesting {
			return ErrConditionTooDeep
		}
	}
	s.Rules = append(s.Rules, rules...)
	s.Scopes |= WitnessRules
	return nil
}

// Validate checks scope combinations and list sizes.
func (s *Signer) Validate() error {
	if s.Scopes&^validScopes != 0 {
		return fmt.Errorf("invalid witness scope 0x%02x", byte(s.Scopes))
	}
	if s.Scopes.Has(Global) && s.Scopes != Global {
		return ErrGlobalScopeCombined
	}
	if len(s.AllowedContracts) > MaxSubitems || len(s.AllowedGroups) > MaxSubitems || len(s.Rules) > MaxSubitems {
		return ErrTooManySubitems
	}
	if s.Scopes.Has(CustomContracts) != (len(s.AllowedContracts) > 0) {
		return fmt.Errorf("scope %s does not match %d allowed contracts", s.Scopes, len(s.AllowedContracts))
	}
	if s.Scopes.Has(CustomGroups) != (len(s.AllowedGroups) > 0) {
		return fmt.Errorf("scope %s does not match %d allowed groups", s.Scopes, len(s.AllowedGroups))
	}
	if s.Scopes.Has(WitnessRules) != (len(s.Rules) > 0) {
		return fmt.Errorf("scope %s does not match %d rules", s.Scopes, len(s.Rules))
	}
	return nil
}

func (s *Signer) EncodeBinary(w *codec.BinWriter) {
	w.WriteBytes(s.Account[:])
	w.WriteU8(byte(s.Scopes))
	if s.Scopes.Has(CustomContracts) {
		w.WriteVarUint(uint64(len(s.AllowedContracts)))
		for _, h := range s.AllowedContracts {
			w.WriteBytes(h[:])
		}
	}
	if s.Scopes.Has(CustomGroups) {
		w.WriteVarUint(uint64(len(s.AllowedGroups)))
		for _, g := range s.AllowedGroups {
			w.WriteBytes(g.Bytes())
		}
	}
	if s.Scopes.Has(WitnessRules) {
		w.WriteVarUint(uint64(len(s.Rules)))
		for i := range s.Rules {
			s.Rules[i].EncodeBinary(w)
		}
	}
}

func (s *Signer) DecodeBinary(r *codec.BinReader) {
	s.Account.DecodeBinary(r)
	s.Scopes = WitnessScope(r.ReadU8())
	if r.Err != nil {
		return
	}
	if s.Scopes&^validScopes != 0 {
		r.SetErr(fmt.Errorf("invalid witness scope 0x%02x", byte(s.Scopes)))
		return
	}
	if s.Scopes.Has(Global) && s.Scopes != Global {
		r.SetErr(ErrGlobalScopeCombined)
		return
	}
	if s.Scopes.Has(CustomContracts) {
		hashes := codec.ReadArray(r, MaxSubitems, func() *types.Uint160 { return new(types.Uint160) })
		for _, h := range hashes {
			s.AllowedContracts = append(s.AllowedContracts, *h)
		}
	}
	if s.Scopes.Has(CustomGroups) {
		n := r.ReadVarUint()
		if r.Err == nil && n > MaxSubitems {
			r.SetErr(fmt.Errorf("%w: %d allowed groups", ErrTooManySubitems, n))
		}
		for i := uint64(0); i < n && r.Err == nil; i++ {
			pub, err := crypto.NewPublicKeyFromBytes(r.ReadBytes(crypto.PublicKeySize))
			if r.Err != nil {
				return
			}
			if err != nil {
				r.SetErr(err)
				return
			}
			s.AllowedGroups = append(s.AllowedGroups, pub)
		}
	}
	if s.Scopes.Has(WitnessRules) {
		rules := codec.ReadArray(r, MaxSubitems, func() *WitnessRule { return new(WitnessRule) })
		for _, rule := range rules {
			s.Rules = append(s.Rules, *rule)
		}
	}
}

type signerJSON struct {
	Account          types.Uint160   `json:"account"`
	Scopes           WitnessScope    `json:"scopes"`
	AllowedContracts []types.Uint160 `json:"allowedcontracts,omitempty"`
	AllowedGroups    []string        `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule   `json:"rules,omitempty"`
}

// MarshalJSON produces the signer form accepted by invocation RPC methods.
func (s Signer) MarshalJSON() ([]byte, error) {
	out := signerJSON{
		Account:          s.Account,
		Scopes:           s.Scopes,
		AllowedContracts: s.AllowedContracts,
		Rules:            s.Rules,
	}
	for _, g := range s.AllowedGroups {
		out.AllowedGroups = append(out.AllowedGroups, g.String())
	}
	return json.Marshal(out)
}

func (s *Signer) UnmarshalJSON(data []byte) error {
	var raw signerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Signer{
		Account:          raw.Account,
		Scopes:           raw.Scopes,
		AllowedContracts: raw.AllowedContracts,
		Rules:            raw.Rules,
	}
	for _, g := range raw.AllowedGroups {
		b, err := hex.DecodeString(g)
		if err != nil {
			return err
		}
		pub, err := crypto.NewPublicKeyFromBytes(b)
		if err != nil {
			return err
		}
		s.AllowedGroups = append(s.AllowedGroups, pub)
	}
	return nil
}
