package postgresql

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/epicchainlabs/epicchain-go/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresOutputHandler struct {
	pool *pgxpool.Pool
}

func (h *PostgresOutputHandler) GetPool() *pgxpool.Pool {
	return h.pool
}

func NewPostgresOutputHandler(ctx context.Context, connString string, maxConcurrency uint) (*PostgresOutputHandler, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}

	if maxConcurrency > math.MaxInt32 {
		return nil, fmt.Errorf("max concurrency exceeds maximum int32 value")
	}
	config.MaxConns = int32(max(maxConcurrency, 4))

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	handler := &PostgresOutputHandler{
		pool: pool,
	}

	// Run migrations. This is idempotent.
	if err = handler.runMigrations(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return handler, nil
}

func (h *PostgresOutputHandler) GetLatestBlock(ctx context.Context) (*models.Block, error) {
	var block models.Block
	err := h.pool.QueryRow(ctx, `
		SELECT id, hash, time, tx_count
		FROM api.blocks_raw
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&block.ID, &block.Hash, &block.Time, &block.TxCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get the latest block: %w", err)
	}
	return &block, nil
}

func (h *PostgresOutputHandler) GetMissingBlockIds(ctx context.Context) ([]uint64, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT s.id
		FROM generate_series(
				 (SELECT MIN(id) FROM api.blocks_raw),
				 (SELECT MAX(id) FROM api.blocks_raw)
			 ) AS s(id)
		LEFT JOIN api.blocks_raw t ON t.id = s.id
		WHERE t.id IS NULL
		ORDER BY s.id;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get missing block IDs: %w", err)
	}
	defer rows.Close()

	var missing []uint64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan missing block ID: %w", err)
		}
		missing = append(missing, uint64(id))
	}

	return missing, rows.Err()
}

// WriteBlockWithTransactions upserts a block and its transactions in one
// database transaction.
func (h *PostgresOutputHandler) WriteBlockWithTransactions(ctx context.Context, block *models.Block, transactions []*models.Transaction) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO api.blocks_raw (id, hash, time, tx_count, data) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET hash = EXCLUDED.hash, time = EXCLUDED.time,
			tx_count = EXCLUDED.tx_count, data = EXCLUDED.data;
	`, int64(block.ID), block.Hash, int64(block.Time), block.TxCount, block.Data)
	if err != nil {
		return fmt.Errorf("failed to write blockchain block: %w", err)
	}

	if len(transactions) > 0 {
		batch := &pgx.Batch{}
		for _, t := range transactions {
			var vmState *string
			if t.VMState != "" {
				vmState = &t.VMState
			}
			batch.Queue(`
				INSERT INTO api.transactions_raw (id, block_id, sender, sys_fee, net_fee, vm_state, data)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO UPDATE SET block_id = EXCLUDED.block_id, sender = EXCLUDED.sender,
					sys_fee = EXCLUDED.sys_fee, net_fee = EXCLUDED.net_fee,
					vm_state = EXCLUDED.vm_state, data = EXCLUDED.data;
			`, t.Hash, int64(t.BlockID), t.Sender, t.SystemFee, t.NetworkFee, vmState, t.Data)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to write blockchain transactions: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (h *PostgresOutputHandler) runMigrations() error {
	slog.Info("Running PostgreSQL migrations...")

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(h.pool), &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (h *PostgresOutputHandler) Close() error {
	slog.Info("Closing PostgreSQL connection pool")
	h.pool.Close()
	slog.Info("PostgreSQL connection pool closed")
	return nil
}
