package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/client"
)

// NetworkConfig selects the JSON-RPC node.
type NetworkConfig struct {
	Endpoint   string
	Timeout    time.Duration
	RetryCount int
}

func (c NetworkConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("missing RPC endpoint")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid RPC endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("RPC endpoint must use http or https, got %q", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("RPC timeout must be positive")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("RPC retry count cannot be negative")
	}
	return nil
}

// ClientOptions converts the configuration into client options.
func (c NetworkConfig) ClientOptions() client.Options {
	opts := client.DefaultOptions()
	opts.Timeout = c.Timeout
	opts.RetryCount = c.RetryCount
	return opts
}

func LoadNetworkConfigFromCLI() NetworkConfig {
	return NetworkConfig{
		Endpoint:   viper.GetString("rpc"),
		Timeout:    viper.GetDuration("rpc-timeout"),
		RetryCount: viper.GetInt("rpc-retries"),
	}
}
