package config

import (
	"github.com/spf13/viper"

	"github.com/moyu-x/media-dedup/internal"
)

type Config struct {
	Scanner struct {
		Extensions  []string
		VerifyTypes bool
	}
	Performance struct {
		Workers int
	}
	Output struct {
		Ledger string
		Script string
	}
	Catalog struct {
		Path string
	}
	Logging struct {
		Level string
		File  string
	}
}

var cfg Config

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.media-dedup")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/media-dedup")

	viper.SetDefault("scanner.extensions", internal.DefaultVideoFormats)
	viper.SetDefault("scanner.verify_types", false)
	viper.SetDefault("performance.workers", internal.DefaultWorkers)
	viper.SetDefault("output.ledger", internal.DefaultLedgerName)
	viper.SetDefault("output.script", internal.DefaultScriptName)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Get() *Config {
	return &cfg
}
