package output

import (
	"context"

	"github.com/epicchainlabs/epicchain-go/internal/models"
)

type OutputHandler interface {
	WriteBlockWithTransactions(ctx context.Context, block *models.Block, transactions []*models.Transaction) error
	GetLatestBlock(ctx context.Context) (*models.Block, error)
	GetMissingBlockIds(ctx context.Context) ([]uint64, error)
	Close() error
}

// missingIDs returns the gaps between the smallest and largest of ids.
func missingIDs(ids map[uint64]struct{}) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	lo, hi := ^uint64(0), uint64(0)
	for id := range ids {
		lo = min(lo, id)
		hi = max(hi, id)
	}
	var missing []uint64
	for id := lo; id < hi; id++ {
		if _, ok := ids[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func latestID(ids map[uint64]struct{}) *models.Block {
	if len(ids) == 0 {
		return nil
	}
	var hi uint64
	for id := range ids {
		hi = max(hi, id)
	}
	return &models.Block{ID: hi}
}
