package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "LPPOOL"

// Config holds simulate settings loaded from flags, env, or config file.
type Config struct {
	PoolName          string
	Price             string
	FeeMin            string
	FeeMax            string
	LiquidityTarget   string
	RPCURL            string
	PriceFeed         string
	In                string
	Out               string
	Checkpoint        string
	CheckpointEnabled bool
	BatchSize         uint64
	PGDSN             string
	MaxRetries        int
	RetryBackoff      time.Duration
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("pool-name", "default")
		v.SetDefault("out", "./data/journal.jsonl")
		v.SetDefault("checkpoint", "./data/checkpoint.json")
		v.SetDefault("checkpoint-enabled", true)
		v.SetDefault("batch-size", uint64(500))
		v.SetDefault("max-retries", 5)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		PoolName:          v.GetString("pool-name"),
		Price:             v.GetString("price"),
		FeeMin:            v.GetString("fee-min"),
		FeeMax:            v.GetString("fee-max"),
		LiquidityTarget:   v.GetString("liquidity-target"),
		RPCURL:            v.GetString("rpc"),
		PriceFeed:         v.GetString("price-feed"),
		In:                v.GetString("in"),
		Out:               v.GetString("out"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		BatchSize:         v.GetUint64("batch-size"),
		PGDSN:             v.GetString("pg-dsn"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(v *viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
