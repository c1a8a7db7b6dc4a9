package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/epicchainlabs/epicchain-go/internal/transaction"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// Error codes the node uses for objects it does not know yet.
const (
	UnknownBlockCode       = -101
	UnknownTransactionCode = -100
	UnknownScriptCode      = -102
)

func (c *Client) GetVersion(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.Call(ctx, "getversion", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Network returns the network magic, fetched once and cached.
func (c *Client) Network(ctx context.Context) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.network != nil {
		return *c.network, nil
	}
	v, err := c.GetVersion(ctx)
	if err != nil {
		return 0, err
	}
	magic := v.Protocol.Network
	c.network = &magic
	return magic, nil
}

func (c *Client) GetBlockCount(ctx context.Context) (uint32, error) {
	var n uint32
	err := c.Call(ctx, "getblockcount", nil, &n)
	return n, err
}

func (c *Client) GetBestBlockHash(ctx context.Context) (types.Uint256, error) {
	var h types.Uint256
	err := c.Call(ctx, "getbestblockhash", nil, &h)
	return h, err
}

func (c *Client) GetBlockHash(ctx context.Context, index uint32) (types.Uint256, error) {
	var h types.Uint256
	err := c.Call(ctx, "getblockhash", []any{index}, &h)
	return h, err
}

// GetBlock fetches a block with its transactions in verbose form.
func (c *Client) GetBlock(ctx context.Context, index uint32) (*Block, error) {
	var b Block
	if err := c.Call(ctx, "getblock", []any{index, true}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) GetRawTransaction(ctx context.Context, hash types.Uint256) (*TransactionResult, error) {
	var tx TransactionResult
	if err := c.Call(ctx, "getrawtransaction", []any{hash, true}, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) GetTransactionHeight(ctx context.Context, hash types.Uint256) (uint32, error) {
	var h uint32
	err := c.Call(ctx, "gettransactionheight", []any{hash}, &h)
	return h, err
}

// SendRawTransaction broadcasts a signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, tx *transaction.Transaction) (types.Uint256, error) {
	raw, err := tx.Base64()
	if err != nil {
		return types.Uint256{}, err
	}
	var res sendResult
	if err := c.Call(ctx, "sendrawtransaction", []any{raw}, &res); err != nil {
		return types.Uint256{}, err
	}
	return res.Hash, nil
}

func (c *Client) InvokeFunction(ctx context.Context, contract types.Uint160, method string, params []types.ContractParameter, signers []transaction.Signer) (*types.InvocationResult, error) {
	if params == nil {
		params = []types.ContractParameter{}
	}
	args := []any{contract, method, params}
	if len(signers) > 0 {
		args = append(args, signers)
	}
	var res types.InvocationResult
	if err := c.Call(ctx, "invokefunction", args, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*types.InvocationResult, error) {
	args := []any{base64.StdEncoding.EncodeToString(script)}
	if len(signers) > 0 {
		args = append(args, signers)
	}
	var res types.InvocationResult
	if err := c.Call(ctx, "invokescript", args, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CalculateNetworkFee prices a serialized transaction.
func (c *Client) CalculateNetworkFee(ctx context.Context, tx []byte) (int64, error) {
	var res networkFeeResult
	if err := c.Call(ctx, "calculatenetworkfee", []any{base64.StdEncoding.EncodeToString(tx)}, &res); err != nil {
		return 0, err
	}
	fee, err := res.NetworkFee.Int64()
	if err != nil {
		return 0, fmt.Errorf("invalid network fee %q: %w", res.NetworkFee, err)
	}
	return fee, nil
}

func (c *Client) GetApplicationLog(ctx context.Context, hash types.Uint256) (*ApplicationLog, error) {
	var log ApplicationLog
	if err := c.Call(ctx, "getapplicationlog", []any{hash}, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (c *Client) GetNep17Balances(ctx context.Context, account types.Uint160) (*Nep17Balances, error) {
	var b Nep17Balances
	if err := c.Call(ctx, "getnep17balances", []any{account.Address()}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetCommittee returns the committee public keys in hex.
func (c *Client) GetCommittee(ctx context.Context) ([]string, error) {
	var keys []string
	err := c.Call(ctx, "getcommittee", nil, &keys)
	return keys, err
}

func (c *Client) ValidateAddress(ctx context.Context, address string) (*ValidateAddress, error) {
	var v ValidateAddress
	if err := c.Call(ctx, "validateaddress", []any{address}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) GetConnectionCount(ctx context.Context) (int, error) {
	var n int
	err := c.Call(ctx, "getconnectioncount", nil, &n)
	return n, err
}

// DefaultPollInterval is used by WaitApplicationLog for non-positive intervals.
const DefaultPollInterval = time.Second

// WaitApplicationLog polls until the transaction has been persisted and its
// application log is available, or ctx is done.
func (c *Client) WaitApplicationLog(ctx context.Context, hash types.Uint256, interval time.Duration) (*ApplicationLog, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		log, err := c.GetApplicationLog(ctx, hash)
		if err == nil {
			return log, nil
		}
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			return nil, err
		}
		slog.Debug("Application log not available yet", "hash", hash, "error", rpcErr)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for transaction %s: %w", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}
