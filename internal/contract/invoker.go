package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/epicchainlabs/epicchain-go/internal/transaction"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// Invoker runs read-only contract calls. *client.Client implements it.
type Invoker interface {
	InvokeFunction(ctx context.Context, contract types.Uint160, method string, params []types.ContractParameter, signers []transaction.Signer) (*types.InvocationResult, error)
}

func callItem(ctx context.Context, inv Invoker, hash types.Uint160, method string, params ...types.ContractParameter) (types.StackItem, error) {
	res, err := inv.InvokeFunction(ctx, hash, method, params, nil)
	if err != nil {
		return types.StackItem{}, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	item, err := res.First()
	if err != nil {
		return types.StackItem{}, fmt.Errorf("%s: %w", method, err)
	}
	return item, nil
}

func callInt(ctx context.Context, inv Invoker, hash types.Uint160, method string, params ...types.ContractParameter) (*big.Int, error) {
	item, err := callItem(ctx, inv, hash, method, params...)
	if err != nil {
		return nil, err
	}
	return item.Int()
}

func callBool(ctx context.Context, inv Invoker, hash types.Uint160, method string, params ...types.ContractParameter) (bool, error) {
	item, err := callItem(ctx, inv, hash, method, params...)
	if err != nil {
		return false, err
	}
	return item.Bool()
}

func callString(ctx context.Context, inv Invoker, hash types.Uint160, method string, params ...types.ContractParameter) (string, error) {
	item, err := callItem(ctx, inv, hash, method, params...)
	if err != nil {
		return "", err
	}
	return item.Text()
}
