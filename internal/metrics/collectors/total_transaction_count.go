package collectors

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

const TotalTransactionCountQuery = `SELECT COUNT(*) FROM api.transactions_raw`

// TotalTransactionCountCollector collects the number of indexed transactions.
type TotalTransactionCountCollector struct {
	db           *sql.DB
	totalTxCount *prometheus.Desc
}

func NewTotalTransactionCountCollector(db *sql.DB) *TotalTransactionCountCollector {
	return &TotalTransactionCountCollector{
		db:           db,
		totalTxCount: postgresDesc("transactions", "total_count", "Total transaction count"),
	}
}

func (c *TotalTransactionCountCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalTxCount
}

func (c *TotalTransactionCountCollector) Collect(ch chan<- prometheus.Metric) {
	var count int64
	err := scanRow(c.db, TotalTransactionCountQuery, &count)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.totalTxCount, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalTxCount, prometheus.CounterValue, float64(count))
}

func init() {
	mustRegister("transaction_count", func(db *sql.DB) (prometheus.Collector, error) {
		return NewTotalTransactionCountCollector(db), nil
	})
}
