package utils

import (
	"context"
	"errors"
)

// BlockCounter reports the number of blocks known to a node.
type BlockCounter interface {
	GetBlockCount(ctx context.Context) (uint32, error)
}

// GetLatestBlockHeightWithRetry returns the index of the node's newest block.
func GetLatestBlockHeightWithRetry(ctx context.Context, node BlockCounter, maxRetries uint) (uint64, error) {
	return Retry(ctx, "getblockcount", maxRetries, func(ctx context.Context) (uint64, error) {
		count, err := node.GetBlockCount(ctx)
		if err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, errors.New("node reports no blocks")
		}
		return uint64(count) - 1, nil
	})
}
