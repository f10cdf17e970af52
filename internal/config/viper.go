package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Prices struct {
		DownloadDir    string   `mapstructure:"download_dir" yaml:"download_dir"`
		SymbolFile     string   `mapstructure:"symbol_file" yaml:"symbol_file"`
		SkipSymbols    []string `mapstructure:"skip_symbols" yaml:"skip_symbols"`
		SkipFile       string   `mapstructure:"skip_file" yaml:"skip_file"`
		CacheDir       string   `mapstructure:"cache_dir" yaml:"cache_dir"`
		QuoteURL       string   `mapstructure:"quote_url" yaml:"quote_url"`
		TimeoutSeconds int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		Concurrency    int      `mapstructure:"concurrency" yaml:"concurrency"`
	} `mapstructure:"prices" yaml:"prices"`

	Convert struct {
		DataDir   string `mapstructure:"data_dir" yaml:"data_dir"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"convert" yaml:"convert"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config.yaml, then PCRECON_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.pcrecon")
	v.AddConfigPath(".pcrecon")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PCRECON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// Legacy environment variables used by the prior tooling
	if err := v.BindEnv("prices.download_dir", "PRICE_DD"); err != nil {
		fmt.Printf("Warning: failed to bind PRICE_DD environment variable: %v\n", err)
	}
	if err := v.BindEnv("prices.symbol_file", "SYMBOL_FILE"); err != nil {
		fmt.Printf("Warning: failed to bind SYMBOL_FILE environment variable: %v\n", err)
	}
	if err := v.BindEnv("convert.data_dir", "TIAA_CREF_DD"); err != nil {
		fmt.Printf("Warning: failed to bind TIAA_CREF_DD environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Prices.SkipFile != "" {
		extra, err := LoadSkipSymbols(config.Prices.SkipFile)
		if err != nil {
			return nil, err
		}
		config.Prices.SkipSymbols = append(config.Prices.SkipSymbols, extra...)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadSkipSymbols reads a YAML list of symbols that must never be requested
// from the quote source.
func LoadSkipSymbols(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read skip symbols file: %w", err)
	}
	var symbols []string
	if err := yaml.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("failed to parse skip symbols file %s: %w", path, err)
	}
	return symbols, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("prices.download_dir", "../supplemental-prices")
	v.SetDefault("prices.symbol_file", "../symbols.txt")
	// Hand entered list of symbols that find erroneous historical prices
	v.SetDefault("prices.skip_symbols", []string{"1402", "1926", "1933", "1934", "FRCMQ", "KBS"})
	v.SetDefault("prices.skip_file", "")
	v.SetDefault("prices.cache_dir", "")
	v.SetDefault("prices.quote_url", "http://bigcharts.marketwatch.com/historical/default.asp")
	v.SetDefault("prices.timeout_seconds", 30)
	v.SetDefault("prices.concurrency", 4)

	v.SetDefault("convert.data_dir", "")
	v.SetDefault("convert.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.Convert.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got: %s", config.Convert.Delimiter)
	}

	if config.Prices.TimeoutSeconds < 1 || config.Prices.TimeoutSeconds > 300 {
		return fmt.Errorf("prices.timeout_seconds must be between 1 and 300, got: %d", config.Prices.TimeoutSeconds)
	}

	if config.Prices.Concurrency < 1 || config.Prices.Concurrency > 64 {
		return fmt.Errorf("prices.concurrency must be between 1 and 64, got: %d", config.Prices.Concurrency)
	}

	return nil
}
