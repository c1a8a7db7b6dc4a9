package epicchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/output"
)

var jsonCmd = &cobra.Command{
	Use:   "json [flags]",
	Short: "Extract chain data to JSON files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonConfig := config.LoadJSONConfigFromCLI()
		if err := jsonConfig.Validate(); err != nil {
			return fmt.Errorf("invalid JSON configuration: %w", err)
		}
		slog.Debug("Command-line argument", "json-out", jsonConfig.Output)

		return extract(cmd, func(_ context.Context, cfg config.ExtractConfig) (output.OutputHandler, error) {
			warnPrometheusUnsupported(cfg)
			outputHandler, err := output.NewJSONOutputHandler(jsonConfig.Output)
			if err != nil {
				return nil, fmt.Errorf("failed to create JSON output handler: %w", err)
			}
			return outputHandler, nil
		})
	},
}

func init() {
	jsonCmd.Flags().StringP("json-out", "o", "out", "JSON output directory")
	if err := viper.BindPFlags(jsonCmd.Flags()); err != nil {
		slog.Error("Failed to bind jsonCmd flags", "error", err)
	}
}

// warnPrometheusUnsupported reports that metrics are only collected from PostgreSQL.
func warnPrometheusUnsupported(cfg config.ExtractConfig) {
	if cfg.EnablePrometheus {
		slog.Warn("Prometheus metrics are only available with the postgres output")
	}
}
