package extractor

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/output"
	"github.com/epicchainlabs/epicchain-go/internal/utils"
)

// extractLiveBlocksAndTransactions follows the chain from start and processes
// new blocks as they are produced until ctx is cancelled.
func extractLiveBlocksAndTransactions(ctx context.Context, node Node, start uint64, outputHandler output.OutputHandler, cfg config.ExtractConfig) error {
	next := start
	blockTime := time.Duration(max(cfg.BlockTime, 1)) * time.Second

	for {
		latestHeight, err := utils.GetLatestBlockHeightWithRetry(ctx, node, cfg.MaxRetries)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.WithMessage(err, "Failed to get latest block height")
		}

		if latestHeight >= next {
			err = extractBlocksAndTransactions(ctx, node, next, latestHeight, outputHandler, cfg)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.WithMessage(err, "Failed to process blocks and transactions")
			}
			next = latestHeight + 1
		}

		select {
		case <-ctx.Done():
			slog.Info("Live extraction stopped", "next", next)
			return nil
		case <-time.After(blockTime):
		}
	}
}
