package epicchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/extractor"
	"github.com/epicchainlabs/epicchain-go/internal/output"
)

// outputFactory opens the output handler of an extract subcommand.
type outputFactory func(ctx context.Context, cfg config.ExtractConfig) (output.OutputHandler, error)

var ExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract chain data to various output formats",
	Long:  `Extract blockchain data and output it in the specified format.`,
}

func init() {
	ExtractCmd.PersistentFlags().Bool("live", false, "Enable live monitoring")
	ExtractCmd.PersistentFlags().Bool("reindex", false, "Reindex the output from block 0 to the latest block (advanced)")
	ExtractCmd.PersistentFlags().Uint64P("start", "s", 0, "Start block height (0 resumes after the latest extracted block)")
	ExtractCmd.PersistentFlags().Uint64P("stop", "e", 0, "Stop block height (0 is the latest block)")
	ExtractCmd.PersistentFlags().UintP("block-time", "t", 15, "Block time in seconds")
	ExtractCmd.PersistentFlags().UintP("max-retries", "r", 3, "Maximum number of retries for failed block processing")
	ExtractCmd.PersistentFlags().UintP("max-concurrency", "c", 100, "Maximum block retrieval concurrency (advanced)")
	ExtractCmd.PersistentFlags().Bool("app-logs", false, "Store the application log of every transaction")
	ExtractCmd.PersistentFlags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	ExtractCmd.PersistentFlags().String("prometheus-addr", "0.0.0.0:2112", "Address and port of the Prometheus metrics server")
	ExtractCmd.MarkFlagsMutuallyExclusive("live", "stop")

	if err := viper.BindPFlags(ExtractCmd.PersistentFlags()); err != nil {
		slog.Error("Failed to bind ExtractCmd flags", "error", err)
	}

	ExtractCmd.AddCommand(jsonCmd)
	ExtractCmd.AddCommand(tsvCmd)
	ExtractCmd.AddCommand(PostgresCmd)
}

// extract validates the configuration, opens the output and runs the
// extraction until it completes or the process is interrupted.
func extract(cmd *cobra.Command, newOutput outputFactory) error {
	extractConfig := config.LoadExtractConfigFromCLI()
	if err := extractConfig.Validate(); err != nil {
		return fmt.Errorf("invalid Extract configuration: %w", err)
	}
	networkConfig := config.LoadNetworkConfigFromCLI()
	if err := networkConfig.Validate(); err != nil {
		return fmt.Errorf("invalid network configuration: %w", err)
	}

	slog.Debug("Command-line arguments", "extractConfig", extractConfig)
	slog.Debug("RPC endpoint", "address", networkConfig.Endpoint)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	handleInterrupt(ctx, cancel)

	outputHandler, err := newOutput(ctx, extractConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := outputHandler.Close(); err != nil {
			slog.Error("Failed to close output", "error", err)
		}
	}()

	node := client.New(networkConfig.Endpoint, networkConfig.ClientOptions())
	return extractor.Extract(ctx, node, outputHandler, extractConfig)
}

// handleInterrupt handles interrupt signals for graceful shutdown.
func handleInterrupt(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case <-c:
			slog.Info("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()
}
