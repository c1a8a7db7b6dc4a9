package epicchain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/types"
	"github.com/epicchainlabs/epicchain-go/internal/wallet"
)

var WalletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage NEP-6 wallets",
	Long:  `Create NEP-6 wallet files and manage the accounts they hold. Keys are stored NEP-2 encrypted.`,
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wallet with a new account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		walletConfig, err := loadWalletConfig(true)
		if err != nil {
			return err
		}
		if _, err := os.Stat(walletConfig.Path); err == nil {
			return fmt.Errorf("wallet %s already exists", walletConfig.Path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		w := wallet.New(viper.GetString("name"))
		acc, err := wallet.NewAccount()
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		if err := w.AddAccount(acc); err != nil {
			return err
		}
		if err := saveWallet(w, walletConfig); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), acc.Address)
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the accounts of a wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		walletConfig, err := loadWalletConfig(false)
		if err != nil {
			return err
		}
		w, err := wallet.Open(walletConfig.Path)
		if err != nil {
			return err
		}
		for _, acc := range w.Accounts {
			line := acc.Address
			if acc.IsDefault {
				line += " (default)"
			}
			if acc.Label != "" {
				line += " " + acc.Label
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a WIF or NEP-2 key into a wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		walletConfig, err := loadWalletConfig(true)
		if err != nil {
			return err
		}
		wif, nep2 := viper.GetString("wif"), viper.GetString("nep2")
		if (wif == "") == (nep2 == "") {
			return fmt.Errorf("exactly one of --wif and --nep2 is required")
		}

		w, err := wallet.Open(walletConfig.Path)
		if err != nil {
			return err
		}
		if err := w.CheckPassphrase(walletConfig.Passphrase); err != nil {
			return err
		}
		var acc *wallet.Account
		if wif != "" {
			acc, err = wallet.NewAccountFromWIF(wif)
		} else {
			acc, err = wallet.NewAccountFromNEP2(nep2, walletConfig.Passphrase, w.Scrypt)
		}
		if err != nil {
			return fmt.Errorf("failed to import key: %w", err)
		}
		acc.Label = viper.GetString("label")
		if err := w.AddAccount(acc); err != nil {
			return err
		}
		if err := saveWallet(w, walletConfig); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), acc.Address)
		return nil
	},
}

var walletExportCmd = &cobra.Command{
	Use:   "export [address]",
	Short: "Print the WIF key of a wallet account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		walletConfig, err := loadWalletConfig(true)
		if err != nil {
			return err
		}
		w, err := wallet.Open(walletConfig.Path)
		if err != nil {
			return err
		}
		acc, err := findAccount(w, args[0])
		if err != nil {
			return err
		}
		if err := acc.Decrypt(walletConfig.Passphrase, w.Scrypt); err != nil {
			return fmt.Errorf("failed to decrypt account %s: %w", acc.Address, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), acc.PrivateKey().WIF())
		return nil
	},
}

func init() {
	WalletCmd.PersistentFlags().StringP("wallet", "w", "wallet.json", "Path of the NEP-6 wallet file")
	WalletCmd.PersistentFlags().String("password", "", "Wallet password (or EPICCHAIN_PASSWORD)")

	walletCreateCmd.Flags().String("name", "default", "Wallet name")
	walletImportCmd.Flags().String("wif", "", "WIF encoded private key")
	walletImportCmd.Flags().String("nep2", "", "NEP-2 encrypted private key, protected by the wallet password")
	walletImportCmd.Flags().String("label", "", "Account label")

	WalletCmd.AddCommand(walletCreateCmd)
	WalletCmd.AddCommand(walletListCmd)
	WalletCmd.AddCommand(walletImportCmd)
	WalletCmd.AddCommand(walletExportCmd)
}

func loadWalletConfig(needPassphrase bool) (config.WalletConfig, error) {
	walletConfig := config.LoadWalletConfigFromCLI()
	if err := walletConfig.Validate(); err != nil {
		return walletConfig, fmt.Errorf("invalid wallet configuration: %w", err)
	}
	if needPassphrase && walletConfig.Passphrase == "" {
		return walletConfig, fmt.Errorf("missing wallet password, set --password or EPICCHAIN_PASSWORD")
	}
	return walletConfig, nil
}

func saveWallet(w *wallet.Wallet, walletConfig config.WalletConfig) error {
	if err := w.EncryptAll(walletConfig.Passphrase); err != nil {
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	return w.Save(walletConfig.Path)
}

// findAccount looks an account up by address or script hash.
func findAccount(w *wallet.Wallet, s string) (*wallet.Account, error) {
	hash, err := types.ParseAccount(s)
	if err != nil {
		return nil, fmt.Errorf("invalid account %q: %w", s, err)
	}
	acc := w.GetAccount(hash)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", wallet.ErrAccountNotFound, s)
	}
	return acc, nil
}
