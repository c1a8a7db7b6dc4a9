package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/epicchainlabs/epicchain-go/internal/models"
)

const (
	blockFilePrefix = "block_"
	jsonSuffix      = ".json"
)

type JSONOutputHandler struct {
	blockDir string
	txDir    string
}

func NewJSONOutputHandler(outDir string) (*JSONOutputHandler, error) {
	blockDir := filepath.Join(outDir, "block")
	txDir := filepath.Join(outDir, "txs")

	err := os.MkdirAll(blockDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create blocks directory: %w", err)
	}

	err = os.MkdirAll(txDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactions directory: %w", err)
	}

	return &JSONOutputHandler{
		blockDir: blockDir,
		txDir:    txDir,
	}, nil
}

// WriteBlockWithTransactions writes the transactions first so that a block
// file only exists once everything it references is on disk.
func (h *JSONOutputHandler) WriteBlockWithTransactions(_ context.Context, block *models.Block, transactions []*models.Transaction) error {
	for _, tx := range transactions {
		if err := h.writeTransaction(tx); err != nil {
			return fmt.Errorf("failed to write transaction: %w", err)
		}
	}

	if err := h.writeBlock(block); err != nil {
		return fmt.Errorf("failed to write block: %w", err)
	}

	return nil
}

func (h *JSONOutputHandler) GetLatestBlock(_ context.Context) (*models.Block, error) {
	ids, err := h.blockIDs()
	if err != nil {
		return nil, err
	}
	return latestID(ids), nil
}

func (h *JSONOutputHandler) GetMissingBlockIds(_ context.Context) ([]uint64, error) {
	ids, err := h.blockIDs()
	if err != nil {
		return nil, err
	}
	return missingIDs(ids), nil
}

func (h *JSONOutputHandler) blockIDs() (map[uint64]struct{}, error) {
	entries, err := os.ReadDir(h.blockDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks directory: %w", err)
	}
	ids := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, blockFilePrefix) || !strings.HasSuffix(name, jsonSuffix) {
			continue
		}
		var id uint64
		if _, err := fmt.Sscanf(strings.TrimSuffix(strings.TrimPrefix(name, blockFilePrefix), jsonSuffix), "%d", &id); err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (h *JSONOutputHandler) writeBlock(block *models.Block) error {
	fileName := fmt.Sprintf("%s%010d%s", blockFilePrefix, block.ID, jsonSuffix)
	return writeFileAtomic(filepath.Join(h.blockDir, fileName), block.Data)
}

func (h *JSONOutputHandler) writeTransaction(tx *models.Transaction) error {
	fileName := fmt.Sprintf("tx_%s%s", tx.Hash, jsonSuffix)
	return writeFileAtomic(filepath.Join(h.txDir, fileName), tx.Data)
}

func (h *JSONOutputHandler) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
