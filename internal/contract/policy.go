package contract

import (
	"context"

	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// PolicyContract reads the network fee policy.
type PolicyContract struct {
	Invoker Invoker
}

func NewPolicyContract(inv Invoker) *PolicyContract {
	return &PolicyContract{Invoker: inv}
}

func (p *PolicyContract) FeePerByte(ctx context.Context) (int64, error) {
	return p.int64(ctx, "getFeePerByte")
}

func (p *PolicyContract) ExecFeeFactor(ctx context.Context) (int64, error) {
	return p.int64(ctx, "getExecFeeFactor")
}

func (p *PolicyContract) StoragePrice(ctx context.Context) (int64, error) {
	return p.int64(ctx, "getStoragePrice")
}

func (p *PolicyContract) IsBlocked(ctx context.Context, account types.Uint160) (bool, error) {
	return callBool(ctx, p.Invoker, Policy, "isBlocked", types.NewHash160Parameter(account))
}

func (p *PolicyContract) int64(ctx context.Context, method string) (int64, error) {
	n, err := callInt(ctx, p.Invoker, Policy, method)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
