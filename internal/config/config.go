package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig marks missing or invalid inputs detected before any network activity.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Address         string
	Network         string
	RPCURL          string
	RPCTimeout      time.Duration
	Days            int
	BlockTime       time.Duration
	MaxBlockRange   uint64
	ToBlock         uint64
	MaxRetries      int
	RetryBackoff    time.Duration
	APIURL          string
	LookupTimeout   time.Duration
	LookupRetries   int
	Format          string
	EventsOut       string
	MetricsTextfile string
	SkipUndecodable bool
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ETHFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("days", 30)
	v.SetDefault("max-block-range", uint64(10000))
	v.SetDefault("rpc-timeout", 30*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("api-url", "https://api.cow.fi")
	v.SetDefault("lookup-timeout", 10*time.Second)
	v.SetDefault("lookup-retries", 2)
	v.SetDefault("format", "text")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read config: %w", ErrInvalidConfig, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("%w: read config: %w", ErrInvalidConfig, err)
			}
		}
	}

	cfg := Config{
		Address:         strings.TrimSpace(v.GetString("address")),
		Network:         strings.TrimSpace(v.GetString("network")),
		RPCURL:          v.GetString("rpc"),
		RPCTimeout:      v.GetDuration("rpc-timeout"),
		Days:            v.GetInt("days"),
		BlockTime:       v.GetDuration("block-time"),
		MaxBlockRange:   v.GetUint64("max-block-range"),
		ToBlock:         v.GetUint64("to"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		APIURL:          v.GetString("api-url"),
		LookupTimeout:   v.GetDuration("lookup-timeout"),
		LookupRetries:   v.GetInt("lookup-retries"),
		Format:          strings.ToLower(v.GetString("format")),
		EventsOut:       v.GetString("events-out"),
		MetricsTextfile: v.GetString("metrics-textfile"),
		SkipUndecodable: v.GetBool("skip-undecodable"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks required and bounded values. networks lists the accepted network names.
func (c Config) Validate(networks []string) error {
	if c.Address == "" {
		return fmt.Errorf("%w: command-line parameter `address` is required", ErrInvalidConfig)
	}
	if !contains(networks, c.Network) {
		return fmt.Errorf("%w: command-line parameter \"--network\" is required and must be one of: %s",
			ErrInvalidConfig, strings.Join(networks, ", "))
	}
	if c.Days <= 0 {
		return fmt.Errorf("%w: days must be positive", ErrInvalidConfig)
	}
	if c.BlockTime < 0 {
		return fmt.Errorf("%w: block time must not be negative", ErrInvalidConfig)
	}
	if c.MaxBlockRange == 0 {
		return fmt.Errorf("%w: max block range must be greater than zero", ErrInvalidConfig)
	}
	if c.RPCTimeout < 0 {
		return fmt.Errorf("%w: rpc timeout must not be negative", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 || c.LookupRetries < 0 {
		return fmt.Errorf("%w: retry counts must not be negative", ErrInvalidConfig)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unsupported format %q (text, json)", ErrInvalidConfig, c.Format)
	}
	return nil
}

// Window returns the configured look-back window.
func (c Config) Window() time.Duration {
	return time.Duration(c.Days) * 24 * time.Hour
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
