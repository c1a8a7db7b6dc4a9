package exporter_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/exporter"
	"github.com/epicchainlabs/epicchain-go/internal/models"
	"github.com/epicchainlabs/epicchain-go/internal/output"
)

func txHash(id uint64) string {
	return fmt.Sprintf("0x%064x", id+1)
}

// writeExtraction stores blocks in the layout of the JSON output.
func writeExtraction(t *testing.T, dir string, ids ...uint64) {
	t.Helper()
	h, err := output.NewJSONOutputHandler(dir)
	require.NoError(t, err)
	for _, id := range ids {
		tx := fmt.Sprintf(`{"hash":"%s","sender":"NM7Aky765FG8NhhwtxjXRx7jEL1cnw7PBP","sysfee":"%d","netfee":"7","script":"EUA=","signers":[],"attributes":[],"witnesses":[]}`,
			txHash(id), id*100)
		block := fmt.Sprintf(`{"hash":"0x%064x","index":%d,"time":%d,"tx":[%s]}`, id+50, id, 1000+id, tx)

		txData := []byte(tx)
		if id%2 == 1 {
			txData = []byte(fmt.Sprintf(`{"transaction":%s,"applicationlog":{"executions":[{"trigger":"Application","vmstate":"FAULT","gasconsumed":"1","stack":[],"notifications":[]}]}}`, tx))
		}
		require.NoError(t, h.WriteBlockWithTransactions(context.Background(),
			&models.Block{ID: id, Data: []byte(block)},
			[]*models.Transaction{{Hash: txHash(id), Data: txData}}))
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestExportTSV(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeExtraction(t, in, 0, 1, 2)

	n, err := exporter.ExportTSV(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	blocks := readLines(t, filepath.Join(out, "blocks.tsv"))
	require.Len(t, blocks, 4)
	assert.Equal(t, "id\thash\ttime\ttx_count\tdata", blocks[0])
	assert.True(t, strings.HasPrefix(blocks[2], fmt.Sprintf("1\t0x%064x\t1001\t1\t{", 51)))

	txs := readLines(t, filepath.Join(out, "transactions.tsv"))
	require.Len(t, txs, 4)
	fields := strings.Split(txs[2], "\t")
	require.Len(t, fields, 7)
	assert.Equal(t, []string{txHash(1), "1", "NM7Aky765FG8NhhwtxjXRx7jEL1cnw7PBP", "100", "7", "FAULT"}, fields[:6])
	assert.Equal(t, "", strings.Split(txs[1], "\t")[5])
}

func TestExportTSVResumes(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeExtraction(t, in, 0, 1)
	_, err := exporter.ExportTSV(context.Background(), in, out)
	require.NoError(t, err)

	writeExtraction(t, in, 2, 3)
	n, err := exporter.ExportTSV(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, readLines(t, filepath.Join(out, "blocks.tsv")), 5)
}

func TestExportTSVMissingInput(t *testing.T) {
	_, err := exporter.ExportTSV(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.ErrorContains(t, err, "failed to read blocks directory")
}
