package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ReportConfig holds configuration for journal reporting.
type ReportConfig struct {
	Input         string
	Window        string
	PGDSN         string
	BatchSize     int
	StateFile     string
	RecomputeFrom string
	LogLevel      string
}

// LoadReport merges config file, environment variables, and flags into ReportConfig.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("in", "./data/journal.jsonl")
		v.SetDefault("batch-size", 1000)
		v.SetDefault("log-level", "info")
		v.SetDefault("window", "1h")
	})
	if err != nil {
		return ReportConfig{}, err
	}

	cfg := ReportConfig{
		Input:         v.GetString("in"),
		Window:        v.GetString("window"),
		PGDSN:         v.GetString("pg-dsn"),
		BatchSize:     v.GetInt("batch-size"),
		StateFile:     v.GetString("state-file"),
		RecomputeFrom: v.GetString("recompute-from"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339).
func ParseTimestamp(input string) (uint64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseUint(input, 10, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return 0, err
	}
	return uint64(tm.Unix()), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
