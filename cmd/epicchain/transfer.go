package epicchain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/contract"
	"github.com/epicchainlabs/epicchain-go/internal/transaction"
	"github.com/epicchainlabs/epicchain-go/internal/types"
	"github.com/epicchainlabs/epicchain-go/internal/wallet"
)

// applicationLogPollInterval is how often --wait polls for the execution result.
var applicationLogPollInterval = time.Second

var TransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer NEP-17 tokens from a wallet account",
	Long:  `Build, sign and send a NEP-17 transfer. Fees are computed by the node.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transferConfig := config.LoadTransferConfigFromCLI()
		if err := transferConfig.Validate(); err != nil {
			return fmt.Errorf("invalid transfer configuration: %w", err)
		}
		walletConfig, err := loadWalletConfig(true)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		w, err := wallet.Open(walletConfig.Path)
		if err != nil {
			return err
		}
		from := w.DefaultAccount()
		if transferConfig.From != "" {
			if from, err = findAccount(w, transferConfig.From); err != nil {
				return err
			}
		}
		if from == nil {
			return fmt.Errorf("wallet %s has no accounts", walletConfig.Path)
		}
		if err := from.Decrypt(walletConfig.Passphrase, w.Scrypt); err != nil {
			return fmt.Errorf("failed to decrypt account %s: %w", from.Address, err)
		}

		tokenHash, err := transferConfig.TokenHash()
		if err != nil {
			return err
		}
		to, err := types.ParseAccount(transferConfig.To)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		token := contract.NewFungibleToken(tokenHash, c)
		decimals, err := token.Decimals(ctx)
		if err != nil {
			return err
		}
		amount, err := contract.ParseAmount(transferConfig.Amount, decimals)
		if err != nil {
			return err
		}
		script, err := token.TransferScript(from.ScriptHash(), to, amount, nil)
		if err != nil {
			return err
		}

		tx, err := transaction.NewBuilder(c).
			Script(script).
			Signers(transaction.CalledByEntrySigner(from.ScriptHash())).
			Accounts(from).
			AdditionalSystemFee(transferConfig.SystemFee).
			AdditionalNetworkFee(transferConfig.NetworkFee).
			Sign(ctx)
		if err != nil {
			return fmt.Errorf("failed to build transfer: %w", err)
		}
		slog.Debug("Sending transfer", "from", from.Address, "to", transferConfig.To, "amount", transferConfig.Amount,
			"sysfee", tx.SystemFee, "netfee", tx.NetworkFee)

		hash, err := c.SendRawTransaction(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to send transfer: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "0x"+hash.String())

		if !transferConfig.Wait {
			return nil
		}
		waitCtx, cancel := context.WithTimeout(ctx, transferConfig.WaitTimeout)
		defer cancel()
		log, err := c.WaitApplicationLog(waitCtx, hash, applicationLogPollInterval)
		if err != nil {
			return fmt.Errorf("failed to wait for transfer %s: %w", hash, err)
		}
		if !log.Halted() {
			exception := ""
			if len(log.Executions) > 0 && log.Executions[0].Exception != nil {
				exception = *log.Executions[0].Exception
			}
			return fmt.Errorf("transfer %s faulted: %s", hash, exception)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "HALT")
		return nil
	},
}

func init() {
	TransferCmd.Flags().StringP("wallet", "w", "wallet.json", "Path of the NEP-6 wallet file")
	TransferCmd.Flags().String("password", "", "Wallet password (or EPICCHAIN_PASSWORD)")
	TransferCmd.Flags().String("token", "GAS", "Token name (NEO, GAS) or contract hash")
	TransferCmd.Flags().String("from", "", "Sending account (defaults to the wallet's default account)")
	TransferCmd.Flags().String("to", "", "Receiving account")
	TransferCmd.Flags().String("amount", "", "Amount in token units, e.g. 1.5")
	TransferCmd.Flags().Int64("sysfee", 0, "Additional system fee in GAS fractions")
	TransferCmd.Flags().Int64("netfee", 0, "Additional network fee in GAS fractions")
	TransferCmd.Flags().Bool("wait", false, "Wait for the transaction to be executed")
	TransferCmd.Flags().Duration("wait-timeout", 2*time.Minute, "Maximum time to wait for execution")
	TransferCmd.MarkFlagRequired("to")
	TransferCmd.MarkFlagRequired("amount")
}
