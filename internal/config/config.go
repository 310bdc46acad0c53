// Package config loads application configuration from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the binaries need to reach the remote stores.
type Config struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Collection      string `mapstructure:"collection"`
	UserID          string `mapstructure:"user_id"`

	// InvestmentCategory is the expense category treated as the investment
	// bucket by the allocation engine.
	InvestmentCategory string `mapstructure:"investment_category"`

	// TaxonomyParameter is the Remote Config parameter with the category
	// taxonomy JSON.
	TaxonomyParameter string `mapstructure:"taxonomy_parameter"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from KEEPBALANCED_* environment variables and,
// when configPath is non-empty, from a TOML file. Environment wins.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("keepbalanced")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv-only values survive Unmarshal.
	v.SetDefault("project_id", "")
	v.SetDefault("credentials_file", "")
	v.SetDefault("user_id", "")
	v.SetDefault("collection", "transactions")
	v.SetDefault("investment_category", "Investment")
	v.SetDefault("taxonomy_parameter", "categories_json")
	v.SetDefault("log_level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required (KEEPBALANCED_PROJECT_ID)")
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("user_id is required (KEEPBALANCED_USER_ID)")
	}
	return &cfg, nil
}
