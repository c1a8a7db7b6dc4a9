package epicchain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/metrics"
	"github.com/epicchainlabs/epicchain-go/internal/output"
	"github.com/epicchainlabs/epicchain-go/internal/output/postgresql"
)

var PostgresCmd = &cobra.Command{
	Use:   "postgres [flags]",
	Short: "Extract chain data to a PostgreSQL database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		postgresConfig := config.LoadPostgresConfigFromCLI()
		if err := postgresConfig.Validate(); err != nil {
			return fmt.Errorf("invalid PostgreSQL configuration: %w", err)
		}
		slog.Debug("Command-line argument", "postgres-conn", postgresConfig.Redacted())

		return extract(cmd, func(ctx context.Context, cfg config.ExtractConfig) (output.OutputHandler, error) {
			outputHandler, err := postgresql.NewPostgresOutputHandler(ctx, postgresConfig.ConnString, cfg.MaxConcurrency)
			if err != nil {
				return nil, fmt.Errorf("failed to create PostgreSQL output handler: %w", err)
			}

			if cfg.EnablePrometheus {
				if err := startMetricsServer(ctx, outputHandler, cfg.PrometheusListenAddr); err != nil {
					_ = outputHandler.Close()
					return nil, err
				}
			}
			return outputHandler, nil
		})
	},
}

func init() {
	PostgresCmd.Flags().StringP("postgres-conn", "p", "", "PostgreSQL connection string")
	if err := viper.BindPFlags(PostgresCmd.Flags()); err != nil {
		slog.Error("Failed to bind postgresCmd flags", "error", err)
	}
}

// startMetricsServer serves the database collectors until ctx is done.
func startMetricsServer(ctx context.Context, outputHandler *postgresql.PostgresOutputHandler, addr string) error {
	db := stdlib.OpenDBFromPool(outputHandler.GetPool())
	server, err := metrics.CreateMetricsServer(db, addr)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to start Prometheus metrics server: %w", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop metrics server", "error", err)
		}
		db.Close()
	}()
	return nil
}
