package epicchain

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/output"
)

var tsvCmd = &cobra.Command{
	Use:   "tsv [flags]",
	Short: "Extract chain data to TSV files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tsvConfig := config.LoadTSVConfigFromCLI()
		if err := tsvConfig.Validate(); err != nil {
			return errors.WithMessage(err, "invalid TSV configuration")
		}
		slog.Debug("Command-line argument", "tsv-out", tsvConfig.Output)

		return extract(cmd, func(_ context.Context, cfg config.ExtractConfig) (output.OutputHandler, error) {
			warnPrometheusUnsupported(cfg)
			outputHandler, err := output.NewTSVOutputHandler(tsvConfig.Output)
			if err != nil {
				return nil, errors.WithMessage(err, "failed to create TSV output handler")
			}
			return outputHandler, nil
		})
	},
}

func init() {
	tsvCmd.Flags().StringP("tsv-out", "o", "tsv", "Output directory")
	if err := viper.BindPFlags(tsvCmd.Flags()); err != nil {
		slog.Error("Failed to bind tsvCmd flags", "error", err)
	}
}
