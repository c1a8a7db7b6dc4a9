package contract

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/epicchainlabs/epicchain-go/internal/script"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// FungibleToken is a NEP-17 token contract.
type FungibleToken struct {
	Hash    types.Uint160
	Invoker Invoker

	mu       sync.Mutex
	decimals *int
	symbol   string
}

func NewFungibleToken(hash types.Uint160, inv Invoker) *FungibleToken {
	return &FungibleToken{Hash: hash, Invoker: inv}
}

// Symbol is fetched once and cached.
func (t *FungibleToken) Symbol(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.symbol != "" {
		return t.symbol, nil
	}
	s, err := callString(ctx, t.Invoker, t.Hash, "symbol")
	if err != nil {
		return "", err
	}
	t.symbol = s
	return s, nil
}

// Decimals is fetched once and cached.
func (t *FungibleToken) Decimals(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.decimals != nil {
		return *t.decimals, nil
	}
	n, err := callInt(ctx, t.Invoker, t.Hash, "decimals")
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() || n.Int64() < 0 || n.Int64() > 255 {
		return 0, fmt.Errorf("invalid decimals %s", n)
	}
	d := int(n.Int64())
	t.decimals = &d
	return d, nil
}

func (t *FungibleToken) TotalSupply(ctx context.Context) (*big.Int, error) {
	return callInt(ctx, t.Invoker, t.Hash, "totalSupply")
}

// BalanceOf returns the balance of account in fractions.
func (t *FungibleToken) BalanceOf(ctx context.Context, account types.Uint160) (*big.Int, error) {
	return callInt(ctx, t.Invoker, t.Hash, "balanceOf", types.NewHash160Parameter(account))
}

// TransferScript builds a script calling transfer and asserting its result.
func (t *FungibleToken) TransferScript(from, to types.Uint160, amount *big.Int, data *types.ContractParameter) ([]byte, error) {
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative transfer amount %s", amount)
	}
	payload := types.NewAnyParameter()
	if data != nil {
		payload = *data
	}
	return script.NewBuilder().
		EmitContractCall(t.Hash, "transfer", script.All,
			types.NewHash160Parameter(from),
			types.NewHash160Parameter(to),
			types.NewIntegerParameter(amount),
			payload).
		EmitOpcode(script.ASSERT).
		Bytes()
}
