package config

import (
	"github.com/spf13/viper"

	"github.com/epicchainlabs/epicchain-go/internal/devcontainer"
)

// DevConfig configures the development container.
type DevConfig struct {
	devcontainer.Options
}

func (c *DevConfig) Validate() error {
	return c.Options.Validate()
}

func LoadDevConfigFromCLI() DevConfig {
	opts := devcontainer.DefaultOptions()
	if v := viper.GetString("image"); v != "" {
		opts.Image = v
	}
	if v := viper.GetString("context"); v != "" {
		opts.ContextDir = v
	}
	if v := viper.GetString("workspace"); v != "" {
		opts.Workspace = v
	}
	if v := viper.GetString("workdir"); v != "" {
		opts.WorkDir = v
	}
	opts.Dockerfile = viper.GetString("dockerfile")
	if viper.IsSet("cache-volume") {
		opts.CacheVolume = viper.GetString("cache-volume")
	}
	if viper.IsSet("cache-path") {
		opts.CachePath = viper.GetString("cache-path")
	}
	opts.Interactive = !viper.GetBool("no-tty")
	opts.ExtraArgs = viper.GetStringSlice("docker-arg")
	return DevConfig{Options: opts}
}
