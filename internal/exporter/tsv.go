package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/models"
	"github.com/epicchainlabs/epicchain-go/internal/output"
)

const (
	blockDir = "block"
	txDir    = "txs"
)

// ExportTSV converts a JSON extraction in inputDir into blocks.tsv and
// transactions.tsv in outputDir. Blocks up to the latest one already in the
// TSV files are skipped. It returns the number of exported blocks.
func ExportTSV(ctx context.Context, inputDir, outputDir string) (exported int, err error) {
	entries, err := os.ReadDir(filepath.Join(inputDir, blockDir))
	if err != nil {
		return 0, fmt.Errorf("failed to read blocks directory: %w", err)
	}

	outputHandler, err := output.NewTSVOutputHandler(outputDir)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := outputHandler.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	latest, err := outputHandler.GetLatestBlock(ctx)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return exported, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "block_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimPrefix(name, "block_"), ".json"), 10, 64)
		if err != nil {
			continue
		}
		if latest != nil && id <= latest.ID {
			continue
		}

		block, txs, err := readBlock(inputDir, name)
		if err != nil {
			return exported, fmt.Errorf("failed to export block %d: %w", id, err)
		}
		if err := outputHandler.WriteBlockWithTransactions(ctx, block, txs); err != nil {
			return exported, fmt.Errorf("failed to write block %d: %w", id, err)
		}
		exported++
	}

	slog.Info("Export completed", "blocks", exported)
	return exported, nil
}

func readBlock(inputDir, name string) (*models.Block, []*models.Transaction, error) {
	data, err := os.ReadFile(filepath.Join(inputDir, blockDir, name))
	if err != nil {
		return nil, nil, err
	}
	var b client.Block
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, nil, fmt.Errorf("invalid block file %s: %w", name, err)
	}

	block := &models.Block{
		ID:      uint64(b.Index),
		Hash:    "0x" + b.Hash.String(),
		Time:    b.Time,
		TxCount: len(b.Transactions),
		Data:    data,
	}
	txs := make([]*models.Transaction, 0, len(b.Transactions))
	for i := range b.Transactions {
		tx, err := readTransaction(inputDir, &b.Transactions[i], block.ID)
		if err != nil {
			return nil, nil, err
		}
		txs = append(txs, tx)
	}
	return block, txs, nil
}

// readTransaction prefers the transaction file, which carries the application
// log when the extraction stored one.
func readTransaction(inputDir string, embedded *client.TransactionResult, blockID uint64) (*models.Transaction, error) {
	hash := "0x" + embedded.Hash.String()
	tx := &models.Transaction{
		Hash:    hash,
		BlockID: blockID,
		Sender:  embedded.Sender,
		Data:    embedded.Raw,
	}
	var err error
	if tx.SystemFee, err = strconv.ParseInt(embedded.SysFee, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid system fee in transaction %s: %w", hash, err)
	}
	if tx.NetworkFee, err = strconv.ParseInt(embedded.NetFee, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid network fee in transaction %s: %w", hash, err)
	}

	data, err := os.ReadFile(filepath.Join(inputDir, txDir, "tx_"+hash+".json"))
	if os.IsNotExist(err) {
		return tx, nil
	}
	if err != nil {
		return nil, err
	}
	tx.Data = data

	var withLog struct {
		ApplicationLog *client.ApplicationLog `json:"applicationlog"`
	}
	if err := json.Unmarshal(data, &withLog); err != nil {
		return nil, fmt.Errorf("invalid transaction file for %s: %w", hash, err)
	}
	if withLog.ApplicationLog != nil && len(withLog.ApplicationLog.Executions) > 0 {
		tx.VMState = withLog.ApplicationLog.Executions[0].VMState
	}
	return tx, nil
}
