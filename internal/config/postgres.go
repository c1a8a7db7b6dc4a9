package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

type PostgresConfig struct {
	ConnString string
}

func (c PostgresConfig) Validate() error {
	if c.ConnString == "" {
		return fmt.Errorf("missing PostgreSQL connection string")
	}
	if _, err := pgxpool.ParseConfig(c.ConnString); err != nil {
		return fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}
	return nil
}

// Redacted returns the connection target without the password, for logging.
func (c PostgresConfig) Redacted() string {
	cfg, err := pgxpool.ParseConfig(c.ConnString)
	if err != nil {
		return "<invalid>"
	}
	conn := cfg.ConnConfig
	return fmt.Sprintf("postgres://%s@%s:%d/%s", conn.User, conn.Host, conn.Port, conn.Database)
}

func LoadPostgresConfigFromCLI() PostgresConfig {
	return PostgresConfig{ConnString: viper.GetString("postgres-conn")}
}
