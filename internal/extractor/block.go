package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/models"
	"github.com/epicchainlabs/epicchain-go/internal/output"
	"github.com/epicchainlabs/epicchain-go/internal/utils"
)

// extractBlocksAndTransactions extracts the blocks in [start, stop] and their transactions.
func extractBlocksAndTransactions(ctx context.Context, node Node, start, stop uint64, outputHandler output.OutputHandler, cfg config.ExtractConfig) error {
	displayProgress := start != stop
	if displayProgress {
		slog.Info("Extracting blocks and transactions", "range", fmt.Sprintf("[%d, %d]", start, stop))
	} else {
		slog.Info("Extracting blocks and transactions", "height", start)
	}
	var bar *progressbar.ProgressBar
	if displayProgress {
		bar = progressbar.NewOptions64(
			int64(stop-start+1),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetDescription("Processing blocks..."),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		if err := bar.RenderBlank(); err != nil {
			return fmt.Errorf("failed to render progress bar: %w", err)
		}
	}

	if err := processBlocks(ctx, node, start, stop, outputHandler, cfg, bar); err != nil {
		return fmt.Errorf("failed to process blocks and transactions: %w", err)
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			return fmt.Errorf("failed to finish progress bar: %w", err)
		}
	}

	return nil
}

// processMissingBlocks refetches blocks absent from the output.
func processMissingBlocks(ctx context.Context, node Node, outputHandler output.OutputHandler, cfg config.ExtractConfig) error {
	missingBlockIds, err := outputHandler.GetMissingBlockIds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get missing block IDs: %w", err)
	}

	if len(missingBlockIds) > 0 {
		slog.Warn("Missing blocks detected", "count", len(missingBlockIds))
		for _, blockID := range missingBlockIds {
			if err := processSingleBlockWithRetry(ctx, node, blockID, outputHandler, cfg); err != nil {
				return fmt.Errorf("failed to process missing block %d: %w", blockID, err)
			}
		}
	}
	return nil
}

// processBlocks processes blocks in parallel using goroutines.
func processBlocks(ctx context.Context, node Node, start, stop uint64, outputHandler output.OutputHandler, cfg config.ExtractConfig, bar *progressbar.ProgressBar) error {
	eg, egCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, max(cfg.MaxConcurrency, 1))

	for height := start; height <= stop; height++ {
		if egCtx.Err() != nil {
			slog.Info("Processing cancelled")
			break
		}

		blockHeight := height
		select {
		case sem <- struct{}{}:
		case <-egCtx.Done():
			continue
		}

		eg.Go(func() error {
			defer func() { <-sem }()

			err := processSingleBlockWithRetry(egCtx, node, blockHeight, outputHandler, cfg)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Error("Block processing error",
						"height", blockHeight,
						"error", err,
						"errorType", fmt.Sprintf("%T", err))
					return err
				}
				return fmt.Errorf("failed to process block %d: %w", blockHeight, err)
			}

			if bar != nil {
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("error while fetching blocks: %w", err)
	}
	return ctx.Err()
}

// processSingleBlockWithRetry fetches a block and its transactions with retries
// and writes them to the output handler.
func processSingleBlockWithRetry(ctx context.Context, node Node, blockHeight uint64, outputHandler output.OutputHandler, cfg config.ExtractConfig) error {
	if blockHeight > math.MaxUint32 {
		return fmt.Errorf("block height %d out of range", blockHeight)
	}

	b, err := utils.Retry(ctx, "getblock", cfg.MaxRetries, func(ctx context.Context) (*client.Block, error) {
		return node.GetBlock(ctx, uint32(blockHeight))
	})
	if err != nil {
		return fmt.Errorf("failed to get block data: %w", err)
	}

	block := &models.Block{
		ID:      uint64(b.Index),
		Hash:    "0x" + b.Hash.String(),
		Time:    b.Time,
		TxCount: len(b.Transactions),
		Data:    b.Raw,
	}

	transactions, err := extractTransactions(ctx, node, b, cfg)
	if err != nil {
		return fmt.Errorf("failed to extract transactions from block: %w", err)
	}

	if err := outputHandler.WriteBlockWithTransactions(ctx, block, transactions); err != nil {
		return fmt.Errorf("failed to write block with transactions: %w", err)
	}

	return nil
}
