package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/epicchainlabs/epicchain-go/internal/models"
)

const (
	blocksTSV = "blocks.tsv"
	txsTSV    = "transactions.tsv"

	blocksHeader = "id\thash\ttime\ttx_count\tdata\n"
	txsHeader    = "hash\tblock_id\tsender\tsys_fee\tnet_fee\tvm_state\tdata\n"
)

// TSVOutputHandler appends rows to blocks.tsv and transactions.tsv. Existing
// files are kept so an extraction can resume.
type TSVOutputHandler struct {
	mu          sync.Mutex
	blockFile   *os.File
	txFile      *os.File
	blockWriter *bufio.Writer
	txWriter    *bufio.Writer
	ids         map[uint64]struct{}
}

func NewTSVOutputHandler(outDir string) (*TSVOutputHandler, error) {
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create output directory")
	}

	blockFilePath := filepath.Join(outDir, blocksTSV)
	ids, err := readTSVBlockIDs(blockFilePath)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read existing blocks TSV file")
	}

	blockFile, blockWriter, err := openTSV(blockFilePath, blocksHeader)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open blocks TSV file")
	}

	txFile, txWriter, err := openTSV(filepath.Join(outDir, txsTSV), txsHeader)
	if err != nil {
		blockFile.Close()
		return nil, errors.WithMessage(err, "failed to open transactions TSV file")
	}

	return &TSVOutputHandler{
		blockFile:   blockFile,
		txFile:      txFile,
		blockWriter: blockWriter,
		txWriter:    txWriter,
		ids:         ids,
	}, nil
}

func openTSV(path, header string) (*os.File, *bufio.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	w := bufio.NewWriter(f)
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.Size() == 0 {
		if _, err := w.WriteString(header); err != nil {
			f.Close()
			return nil, nil, err
		}
	}
	return f, w, nil
}

func readTSVBlockIDs(path string) (map[uint64]struct{}, error) {
	ids := make(map[uint64]struct{})
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return ids, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		first, _, _ := strings.Cut(scanner.Text(), "\t")
		id, err := strconv.ParseUint(first, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, scanner.Err()
}

func (h *TSVOutputHandler) WriteBlockWithTransactions(_ context.Context, block *models.Block, transactions []*models.Transaction) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	blockData, err := compactJSON(block.Data)
	if err != nil {
		return errors.WithMessage(err, "invalid block data")
	}
	blockLine := fmt.Sprintf("%d\t%s\t%d\t%d\t%s\n", block.ID, block.Hash, block.Time, block.TxCount, blockData)

	txLines := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		data, err := compactJSON(tx.Data)
		if err != nil {
			return errors.WithMessage(err, "invalid transaction data")
		}
		txLines = append(txLines, fmt.Sprintf("%s\t%d\t%s\t%d\t%d\t%s\t%s\n", tx.Hash, tx.BlockID, tx.Sender, tx.SystemFee, tx.NetworkFee, tx.VMState, data))
	}
	for _, line := range txLines {
		if _, err := h.txWriter.WriteString(line); err != nil {
			return err
		}
	}

	if _, err := h.blockWriter.WriteString(blockLine); err != nil {
		return err
	}

	// Transaction rows reach the file before the block row, and the block only
	// counts as written once both are flushed.
	if err := h.txWriter.Flush(); err != nil {
		return errors.WithMessage(err, "failed to flush transactions TSV file")
	}
	if err := h.blockWriter.Flush(); err != nil {
		return errors.WithMessage(err, "failed to flush blocks TSV file")
	}
	h.ids[block.ID] = struct{}{}
	return nil
}

func (h *TSVOutputHandler) GetLatestBlock(_ context.Context) (*models.Block, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return latestID(h.ids), nil
}

func (h *TSVOutputHandler) GetMissingBlockIds(_ context.Context) ([]uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return missingIDs(h.ids), nil
}

func (h *TSVOutputHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.blockWriter.Flush(); err != nil {
		slog.Error("failed to flush block writer", "errors", err)
		return err
	}
	if err := h.txWriter.Flush(); err != nil {
		slog.Error("failed to flush tx writer", "errors", err)
		return err
	}
	if err := h.blockFile.Close(); err != nil {
		slog.Error("failed to close block file", "errors", err)
		return err
	}
	if err := h.txFile.Close(); err != nil {
		slog.Error("failed to close tx file", "errors", err)
		return err
	}
	return nil
}

// compactJSON strips whitespace so a document fits on one TSV line.
func compactJSON(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
