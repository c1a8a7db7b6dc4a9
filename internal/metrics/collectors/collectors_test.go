package collectors_test

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/metrics/collectors"
)

func TestTotalTransactionCountCollector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(collectors.TotalTransactionCountQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	expected := `
# HELP epicchain_transactions_total_count Total transaction count
# TYPE epicchain_transactions_total_count counter
epicchain_transactions_total_count{source="postgres"} 42
`
	err = testutil.CollectAndCompare(collectors.NewTotalTransactionCountCollector(db), strings.NewReader(expected))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockHeightCollector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(collectors.BlockHeightQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(100, 99))

	expected := `
# HELP epicchain_blocks_latest_height Index of the latest stored block
# TYPE epicchain_blocks_latest_height gauge
epicchain_blocks_latest_height{source="postgres"} 99
# HELP epicchain_blocks_total_count Total block count
# TYPE epicchain_blocks_total_count counter
epicchain_blocks_total_count{source="postgres"} 100
`
	err = testutil.CollectAndCompare(collectors.NewBlockHeightCollector(db), strings.NewReader(expected))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalFeesCollector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(collectors.TotalFeesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"sys_fee", "net_fee"}).AddRow(500, 70))

	c := collectors.NewTotalFeesCollector(db)
	assert.Equal(t, 2, testutil.CollectAndCount(c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectorQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(collectors.UniqueSendersQuery)).
		WillReturnError(errors.New("relation does not exist"))

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(collectors.NewUniqueSendersCollector(db)))
	_, err = registry.Gather()
	assert.ErrorContains(t, err, "relation does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistry(t *testing.T) {
	r := collectors.NewRegistry()
	require.NoError(t, r.Register("transactions", func(db *sql.DB) (prometheus.Collector, error) {
		return collectors.NewTotalTransactionCountCollector(db), nil
	}))
	require.NoError(t, r.Register("broken", func(*sql.DB) (prometheus.Collector, error) {
		return nil, errors.New("boom")
	}))
	assert.ErrorContains(t, r.Register("broken", nil), "already registered")
	assert.Equal(t, []string{"broken", "transactions"}, r.Names())

	_, err := r.CreateCollectors(nil)
	assert.ErrorContains(t, err, "database connection is nil")

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	_, err = r.CreateCollectors(db)
	assert.ErrorContains(t, err, "collector broken: boom")

	assert.Equal(t, []string{"block_height", "fees", "transaction_count", "unique_senders"}, collectors.DefaultRegistry.Names())
	all, err := collectors.DefaultRegistry.CreateCollectors(db)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
