package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/contract"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// TransferConfig describes a NEP-17 transfer.
type TransferConfig struct {
	Token       string
	From        string
	To          string
	Amount      string
	SystemFee   int64
	NetworkFee  int64
	Wait        bool
	WaitTimeout time.Duration
}

func (c TransferConfig) Validate() error {
	if _, err := c.TokenHash(); err != nil {
		return err
	}
	if c.To == "" {
		return fmt.Errorf("missing recipient")
	}
	if _, err := types.ParseAccount(c.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", c.To, err)
	}
	if c.From != "" {
		if _, err := types.ParseAccount(c.From); err != nil {
			return fmt.Errorf("invalid sender %q: %w", c.From, err)
		}
	}
	if c.Amount == "" {
		return fmt.Errorf("missing amount")
	}
	if strings.HasPrefix(strings.TrimSpace(c.Amount), "-") {
		return fmt.Errorf("amount must not be negative")
	}
	if c.SystemFee < 0 || c.NetworkFee < 0 {
		return fmt.Errorf("additional fees must not be negative")
	}
	if c.Wait && c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	return nil
}

// TokenHash resolves the token flag. NEO and GAS may be given by name.
func (c TransferConfig) TokenHash() (types.Uint160, error) {
	switch strings.ToUpper(c.Token) {
	case "NEO":
		return contract.NeoToken, nil
	case "GAS":
		return contract.GasToken, nil
	case "":
		return types.Uint160{}, fmt.Errorf("missing token")
	}
	h, err := types.Uint160DecodeString(c.Token)
	if err != nil {
		return types.Uint160{}, fmt.Errorf("invalid token %q: %w", c.Token, err)
	}
	return h, nil
}

func LoadTransferConfigFromCLI() TransferConfig {
	return TransferConfig{
		Token:       viper.GetString("token"),
		From:        viper.GetString("from"),
		To:          viper.GetString("to"),
		Amount:      viper.GetString("amount"),
		SystemFee:   viper.GetInt64("sysfee"),
		NetworkFee:  viper.GetInt64("netfee"),
		Wait:        viper.GetBool("wait"),
		WaitTimeout: viper.GetDuration("wait-timeout"),
	}
}
