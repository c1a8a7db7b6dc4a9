package collectors

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

const TotalFeesQuery = `SELECT COALESCE(SUM(sys_fee), 0)::BIGINT, COALESCE(SUM(net_fee), 0)::BIGINT FROM api.transactions_raw`

// TotalFeesCollector sums the system and network fees paid by indexed
// transactions, in GAS fractions.
type TotalFeesCollector struct {
	db         *sql.DB
	systemFee  *prometheus.Desc
	networkFee *prometheus.Desc
}

func NewTotalFeesCollector(db *sql.DB) *TotalFeesCollector {
	return &TotalFeesCollector{
		db:         db,
		systemFee:  postgresDesc("fees", "total_system", "Total system fees paid"),
		networkFee: postgresDesc("fees", "total_network", "Total network fees paid"),
	}
}

func (c *TotalFeesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.systemFee
	ch <- c.networkFee
}

func (c *TotalFeesCollector) Collect(ch chan<- prometheus.Metric) {
	var sysFee, netFee int64
	if err := scanRow(c.db, TotalFeesQuery, &sysFee, &netFee); err != nil {
		ch <- prometheus.NewInvalidMetric(c.systemFee, err)
		ch <- prometheus.NewInvalidMetric(c.networkFee, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.systemFee, prometheus.CounterValue, float64(sysFee))
	ch <- prometheus.MustNewConstMetric(c.networkFee, prometheus.CounterValue, float64(netFee))
}

func init() {
	mustRegister("fees", func(db *sql.DB) (prometheus.Collector, error) {
		return NewTotalFeesCollector(db), nil
	})
}
