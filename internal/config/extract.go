package config

import (
	"fmt"
	"net"

	"github.com/spf13/viper"
)

type ExtractConfig struct {
	MaxConcurrency       uint
	MaxRetries           uint
	BlockTime            uint
	BlockStart           uint64
	BlockStop            uint64
	LiveMonitoring       bool
	ReIndex              bool
	ApplicationLogs      bool
	EnablePrometheus     bool
	PrometheusListenAddr string
}

func (c ExtractConfig) Validate() error {
	if c.LiveMonitoring && c.BlockStop != 0 {
		return fmt.Errorf("cannot set --live and --stop flags together")
	}
	if c.BlockStop != 0 && c.BlockStart > c.BlockStop {
		return fmt.Errorf("start block %d is greater than stop block %d", c.BlockStart, c.BlockStop)
	}
	if c.MaxConcurrency == 0 {
		return fmt.Errorf("max concurrency must be greater than 0")
	}
	if c.EnablePrometheus {
		if _, _, err := net.SplitHostPort(c.PrometheusListenAddr); err != nil {
			return fmt.Errorf("invalid Prometheus listen address %q: %w", c.PrometheusListenAddr, err)
		}
	}
	return nil
}

func LoadExtractConfigFromCLI() ExtractConfig {
	return ExtractConfig{
		MaxConcurrency:       viper.GetUint("max-concurrency"),
		MaxRetries:           viper.GetUint("max-retries"),
		BlockTime:            viper.GetUint("block-time"),
		BlockStart:           viper.GetUint64("start"),
		BlockStop:            viper.GetUint64("stop"),
		LiveMonitoring:       viper.GetBool("live"),
		ReIndex:              viper.GetBool("reindex"),
		ApplicationLogs:      viper.GetBool("app-logs"),
		EnablePrometheus:     viper.GetBool("enable-prometheus"),
		PrometheusListenAddr: viper.GetString("prometheus-addr"),
	}
}
