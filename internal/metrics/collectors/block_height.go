package collectors

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

const BlockHeightQuery = `SELECT COUNT(*), COALESCE(MAX(id), 0) FROM api.blocks_raw`

// BlockHeightCollector reports the number of stored blocks and the highest
// stored block index.
type BlockHeightCollector struct {
	db          *sql.DB
	blockCount  *prometheus.Desc
	blockHeight *prometheus.Desc
}

func NewBlockHeightCollector(db *sql.DB) *BlockHeightCollector {
	return &BlockHeightCollector{
		db:          db,
		blockCount:  postgresDesc("blocks", "total_count", "Total block count"),
		blockHeight: postgresDesc("blocks", "latest_height", "Index of the latest stored block"),
	}
}

func (c *BlockHeightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.blockCount
	ch <- c.blockHeight
}

func (c *BlockHeightCollector) Collect(ch chan<- prometheus.Metric) {
	var count, height int64
	if err := scanRow(c.db, BlockHeightQuery, &count, &height); err != nil {
		ch <- prometheus.NewInvalidMetric(c.blockCount, err)
		ch <- prometheus.NewInvalidMetric(c.blockHeight, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.blockCount, prometheus.CounterValue, float64(count))
	ch <- prometheus.MustNewConstMetric(c.blockHeight, prometheus.GaugeValue, float64(height))
}

func init() {
	mustRegister("block_height", func(db *sql.DB) (prometheus.Collector, error) {
		return NewBlockHeightCollector(db), nil
	})
}
