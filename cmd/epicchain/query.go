package epicchain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/client"
	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/contract"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the node",
	Long:  `Query chain state from the JSON-RPC node and print it as JSON.`,
}

var queryVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the node version and protocol settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		v, err := c.GetVersion(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get node version: %w", err)
		}
		return printJSON(cmd, v)
	},
}

var queryHeightCmd = &cobra.Command{
	Use:   "height",
	Short: "Print the index of the latest block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		count, err := c.GetBlockCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get block count: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("node reports no blocks")
		}
		fmt.Fprintln(cmd.OutOrStdout(), count-1)
		return nil
	},
}

var queryBlockCmd = &cobra.Command{
	Use:   "block [index]",
	Short: "Print a block with its transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid block index %q: %w", args[0], err)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		b, err := c.GetBlock(cmd.Context(), uint32(index))
		if err != nil {
			return fmt.Errorf("failed to get block %d: %w", index, err)
		}
		return printRawJSON(cmd, b.Raw)
	},
}

var queryTxCmd = &cobra.Command{
	Use:   "tx [hash]",
	Short: "Print a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := types.Uint256DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid transaction hash: %w", err)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		tx, err := c.GetRawTransaction(cmd.Context(), hash)
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		return printRawJSON(cmd, tx.Raw)
	},
}

var queryAppLogCmd = &cobra.Command{
	Use:   "applog [hash]",
	Short: "Print the application log of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := types.Uint256DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid transaction hash: %w", err)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		log, err := c.GetApplicationLog(cmd.Context(), hash)
		if err != nil {
			return fmt.Errorf("failed to get application log: %w", err)
		}
		return printJSON(cmd, log)
	},
}

var queryBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the NEP-17 token balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := types.ParseAccount(args[0])
		if err != nil {
			return fmt.Errorf("invalid account %q: %w", args[0], err)
		}
		tokenHash, err := config.TransferConfig{Token: viper.GetString("token")}.TokenHash()
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		token := contract.NewFungibleToken(tokenHash, c)
		ctx := cmd.Context()
		symbol, err := token.Symbol(ctx)
		if err != nil {
			return err
		}
		decimals, err := token.Decimals(ctx)
		if err != nil {
			return err
		}
		balance, err := token.BalanceOf(ctx, account)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", contract.FormatAmount(balance, decimals), symbol)
		return nil
	},
}

type policyValues struct {
	FeePerByte    int64 `json:"feeperbyte"`
	ExecFeeFactor int64 `json:"execfeefactor"`
	StoragePrice  int64 `json:"storageprice"`
}

var queryPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the fee settings of the policy contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		policy := contract.NewPolicyContract(c)
		ctx := cmd.Context()

		var v policyValues
		if v.FeePerByte, err = policy.FeePerByte(ctx); err != nil {
			return err
		}
		if v.ExecFeeFactor, err = policy.ExecFeeFactor(ctx); err != nil {
			return err
		}
		if v.StoragePrice, err = policy.StoragePrice(ctx); err != nil {
			return err
		}
		return printJSON(cmd, v)
	},
}

func init() {
	queryBalanceCmd.Flags().String("token", "GAS", "Token name (NEO, GAS) or contract hash")

	QueryCmd.AddCommand(queryVersionCmd)
	QueryCmd.AddCommand(queryHeightCmd)
	QueryCmd.AddCommand(queryBlockCmd)
	QueryCmd.AddCommand(queryTxCmd)
	QueryCmd.AddCommand(queryAppLogCmd)
	QueryCmd.AddCommand(queryBalanceCmd)
	QueryCmd.AddCommand(queryPolicyCmd)
}

// newClient builds an RPC client from the network flags.
func newClient() (*client.Client, error) {
	networkConfig := config.LoadNetworkConfigFromCLI()
	if err := networkConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network configuration: %w", err)
	}
	slog.Debug("RPC endpoint", "address", networkConfig.Endpoint)
	return client.New(networkConfig.Endpoint, networkConfig.ClientOptions()), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printRawJSON(cmd *cobra.Command, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	return nil
}
