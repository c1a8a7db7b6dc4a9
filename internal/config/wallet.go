package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// WalletConfig locates a NEP-6 wallet file. The passphrase is usually taken
// from EPICCHAIN_PASSWORD.
type WalletConfig struct {
	Path       string
	Passphrase string
}

func (c WalletConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("missing wallet path")
	}
	return nil
}

func LoadWalletConfigFromCLI() WalletConfig {
	return WalletConfig{
		Path:       viper.GetString("wallet"),
		Passphrase: viper.GetString("password"),
	}
}
