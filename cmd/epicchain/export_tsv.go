package epicchain

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/epicchainlabs/epicchain-go/internal/exporter"
)

var exportTSVCmd = &cobra.Command{
	Use:   "export-tsv [input] [output]",
	Short: "Export extracted block and transaction data to TSV files",
	Long:  "Reads the block and transaction files written by 'extract json' from the input directory and appends them to TSV files in the output directory.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputDir := args[0]
		outputDir := args[1]

		if _, err := os.Stat(inputDir); os.IsNotExist(err) {
			return fmt.Errorf("input directory '%s' does not exist", inputDir)
		}

		n, err := exporter.ExportTSV(cmd.Context(), inputDir, outputDir)
		if err != nil {
			return fmt.Errorf("failed to export TSV: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d blocks.\n", n)
		return nil
	},
}
