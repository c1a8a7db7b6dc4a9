package epicchain

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	validLogLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	validLogLevelsStr = strings.Join(slices.Sorted(maps.Keys(validLogLevels)), "|")

	validLogFormats = map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
		"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
		"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
	}
	validLogFormatsStr = strings.Join(slices.Sorted(maps.Keys(validLogFormats)), "|")
)

var RootCmd = &cobra.Command{
	Use:   "epicchain",
	Short: "EpicChain node client",
	Long:  `epicchain connects to an EpicChain JSON-RPC node to query and extract blockchain data and to send transactions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags of the running command win over same-named flags of other commands.
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
		if err := setLogger(viper.GetString("logLevel"), viper.GetString("log-format")); err != nil {
			return err
		}
		slog.Debug("Application started", "version", Version)
		return nil
	},
}

// setLogger installs the default logger writing to stdout.
func setLogger(logLevel, logFormat string) error {
	level, exists := validLogLevels[logLevel]
	if !exists {
		return fmt.Errorf("invalid log level: %s. Valid log levels are: %s", logLevel, validLogLevelsStr)
	}
	newHandler, exists := validLogFormats[logFormat]
	if !exists {
		return fmt.Errorf("invalid log format: %s. Valid log formats are: %s", logFormat, validLogFormatsStr)
	}

	slog.SetDefault(slog.New(newHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	return nil
}

func init() {
	RootCmd.PersistentFlags().StringP("logLevel", "l", "info", fmt.Sprintf("set log level (%s)", validLogLevelsStr))
	RootCmd.PersistentFlags().String("log-format", "json", fmt.Sprintf("log output format (%s)", validLogFormatsStr))
	RootCmd.PersistentFlags().String("rpc", "http://localhost:10332", "JSON-RPC endpoint of the node")
	RootCmd.PersistentFlags().Duration("rpc-timeout", 30*time.Second, "Timeout of a single RPC request")
	RootCmd.PersistentFlags().Int("rpc-retries", 3, "Number of HTTP retries for failed RPC requests")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		slog.Error("Failed to bind rootCmd flags", "error", err)
	}

	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.epicchain")
	viper.AddConfigPath("/etc/epicchain")

	viper.SetEnvPrefix("epicchain")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	RootCmd.AddCommand(ExtractCmd)
	RootCmd.AddCommand(QueryCmd)
	RootCmd.AddCommand(WalletCmd)
	RootCmd.AddCommand(TransferCmd)
	RootCmd.AddCommand(DevCmd)
	RootCmd.AddCommand(exportTSVCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := viper.ReadInConfig(); err == nil {
		slog.Info("Using config file", "file", viper.ConfigFileUsed())
	} else {
		slog.Info("No config file found")
	}

	if err := RootCmd.Execute(); err != nil {
		slog.Error("An error occurred", "error", err)
		os.Exit(1)
	}
}
