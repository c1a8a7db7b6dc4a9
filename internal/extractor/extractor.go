package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/output"
	"github.com/epicchainlabs/epicchain-go/internal/types"
	"github.com/epicchainlabs/epicchain-go/internal/utils"
)

// Node is the part of the RPC client the extractor uses.
type Node interface {
	GetBlockCount(ctx context.Context) (uint32, error)
	GetBlock(ctx context.Context, index uint32) (*client.Block, error)
	GetApplicationLog(ctx context.Context, hash types.Uint256) (*client.ApplicationLog, error)
}

// Extract extracts blocks and transactions from a node into outputHandler.
// It returns when the range is done or, in live mode, when ctx is cancelled.
func Extract(ctx context.Context, node Node, outputHandler output.OutputHandler, cfg config.ExtractConfig) error {
	// Check if the missing block check should be skipped before setting the block range
	skipMissingBlockCheck := shouldSkipMissingBlockCheck(cfg)

	if err := setBlockRange(ctx, node, outputHandler, &cfg); err != nil {
		return err
	}

	if !skipMissingBlockCheck {
		if err := processMissingBlocks(ctx, node, outputHandler, cfg); err != nil {
			return err
		}
	}

	if cfg.LiveMonitoring {
		slog.Info("Starting live extraction", "block_time", cfg.BlockTime)
		if err := extractLiveBlocksAndTransactions(ctx, node, cfg.BlockStart, outputHandler, cfg); err != nil {
			return fmt.Errorf("failed to process live blocks and transactions: %w", err)
		}
		return nil
	}

	if cfg.BlockStart > cfg.BlockStop {
		slog.Info("Nothing to extract, already up to date", "latest", cfg.BlockStop)
		return nil
	}

	slog.Info("Starting extraction", "start", cfg.BlockStart, "stop", cfg.BlockStop)
	if err := extractBlocksAndTransactions(ctx, node, cfg.BlockStart, cfg.BlockStop, outputHandler, cfg); err != nil {
		return fmt.Errorf("failed to process blocks and transactions: %w", err)
	}
	return nil
}

// setBlockRange resolves the block range from the configuration.
// An unset start resumes after the latest stored block. An unset stop is the
// node's latest block.
func setBlockRange(ctx context.Context, node Node, outputHandler output.OutputHandler, cfg *config.ExtractConfig) error {
	if cfg.ReIndex {
		slog.Info("Reindexing entire chain...")
		cfg.BlockStart = 0
		cfg.BlockStop = 0
	}

	if cfg.BlockStart == 0 && !cfg.ReIndex {
		latestLocalBlock, err := outputHandler.GetLatestBlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to get the latest block: %w", err)
		}
		if latestLocalBlock != nil {
			slog.Info("Resuming from block", "height", latestLocalBlock.ID+1)
			cfg.BlockStart = latestLocalBlock.ID + 1
		}
	}

	if cfg.BlockStop == 0 {
		latestRemoteBlock, err := utils.GetLatestBlockHeightWithRetry(ctx, node, cfg.MaxRetries)
		if err != nil {
			return fmt.Errorf("failed to get the latest block: %w", err)
		}
		cfg.BlockStop = latestRemoteBlock
		if cfg.LiveMonitoring || cfg.BlockStart == cfg.BlockStop+1 {
			return nil
		}
	}

	if cfg.BlockStart > cfg.BlockStop {
		return fmt.Errorf("start block is greater than stop block")
	}

	return nil
}

// shouldSkipMissingBlockCheck returns true if the missing block check should be skipped.
func shouldSkipMissingBlockCheck(cfg config.ExtractConfig) bool {
	return (cfg.BlockStart != 0 && cfg.BlockStop != 0) || cfg.ReIndex
}
