package collectors

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

const UniqueSendersQuery = `
	SELECT
		COUNT(DISTINCT sender),
		COUNT(*) FILTER (WHERE vm_state = 'FAULT')
	FROM api.transactions_raw`

// UniqueSendersCollector counts distinct transaction senders and faulted
// transactions in one query.
type UniqueSendersCollector struct {
	db            *sql.DB
	uniqueSenders *prometheus.Desc
	faultedTxs    *prometheus.Desc
}

func NewUniqueSendersCollector(db *sql.DB) *UniqueSendersCollector {
	return &UniqueSendersCollector{
		db:            db,
		uniqueSenders: postgresDesc("addresses", "total_unique_senders", "Total unique sender addresses"),
		faultedTxs:    postgresDesc("transactions", "total_faulted", "Transactions whose execution faulted"),
	}
}

func (c *UniqueSendersCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.uniqueSenders
	ch <- c.faultedTxs
}

func (c *UniqueSendersCollector) Collect(ch chan<- prometheus.Metric) {
	var senders, faulted int64
	if err := scanRow(c.db, UniqueSendersQuery, &senders, &faulted); err != nil {
		ch <- prometheus.NewInvalidMetric(c.uniqueSenders, err)
		ch <- prometheus.NewInvalidMetric(c.faultedTxs, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.uniqueSenders, prometheus.GaugeValue, float64(senders))
	ch <- prometheus.MustNewConstMetric(c.faultedTxs, prometheus.CounterValue, float64(faulted))
}

func init() {
	mustRegister("unique_senders", func(db *sql.DB) (prometheus.Collector, error) {
		return NewUniqueSendersCollector(db), nil
	})
}
