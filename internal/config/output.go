package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// JSONConfig holds the directory the JSON sink writes block and transaction files to.
type JSONConfig struct {
	Output string
}

func (c JSONConfig) Validate() error {
	return validateOutputDir(c.Output)
}

func LoadJSONConfigFromCLI() JSONConfig {
	return JSONConfig{Output: viper.GetString("json-out")}
}

// TSVConfig holds the directory containing blocks.tsv and transactions.tsv.
type TSVConfig struct {
	Output string
}

func (c TSVConfig) Validate() error {
	return validateOutputDir(c.Output)
}

func LoadTSVConfigFromCLI() TSVConfig {
	return TSVConfig{Output: viper.GetString("tsv-out")}
}

// validateOutputDir accepts a directory that exists or can still be created.
func validateOutputDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("missing output directory")
	}
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat output directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	return nil
}
