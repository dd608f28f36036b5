// Package config loads blockmodes settings from a YAML file and the
// environment through Viper.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"blockmodes/pkg/block"
	"blockmodes/pkg/ctr"
)

var (
	Modes     = []string{"ecb", "cbc", "ctr"}
	Compress  = []string{"none", "gzip", "zstd"}
	Encodings = []string{"raw", "hex", "base64"}
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Key        string `mapstructure:"key"` // hex, 16 bytes
	IV         string `mapstructure:"iv"`  // hex, 16 bytes, cbc only
	Nonce      string `mapstructure:"nonce"`
	Counter    string `mapstructure:"counter"`
	Endian     string `mapstructure:"endian"`
	Compress   string `mapstructure:"compress"`
	Encoding   string `mapstructure:"encoding"`
	Debug      bool   `mapstructure:"debug"`
	LogDB      string `mapstructure:"log_db"`
	ConfigFile string `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:       "cbc",
		Nonce:      "0",
		Counter:    "0",
		Endian:     "big",
		Compress:   "none",
		Encoding:   "raw",
		LogDB:      "blockmodes.db",
		ConfigFile: "blockmodes",
	}
}

// LoadConfig reads the config file (an explicit path, or "blockmodes.yaml"
// in the search paths), then BLOCKMODES_* environment variables. A missing
// config file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(cfg.ConfigFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/blockmodes/")
		v.AddConfigPath("$HOME/.blockmodes")
	}
	v.SetEnvPrefix("BLOCKMODES")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.ConfigFile = used
	}
	return cfg, nil
}

// AutomaticEnv only resolves keys Viper already knows about, so every field
// is registered with its default.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("key", cfg.Key)
	v.SetDefault("iv", cfg.IV)
	v.SetDefault("nonce", cfg.Nonce)
	v.SetDefault("counter", cfg.Counter)
	v.SetDefault("endian", cfg.Endian)
	v.SetDefault("compress", cfg.Compress)
	v.SetDefault("encoding", cfg.Encoding)
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("log_db", cfg.LogDB)
}

// Params is a validated Config decoded into engine inputs.
type Params struct {
	Mode     string
	Key      block.Key
	IV       []byte
	Nonce    uint64
	Counter  uint64
	Endian   ctr.Endian
	Compress string
	Encoding string
}

// Validate checks names and decodes the key, IV, nonce and counter.
func (c *Config) Validate() (*Params, error) {
	p := &Params{
		Mode:     strings.ToLower(c.Mode),
		Compress: strings.ToLower(c.Compress),
		Encoding: strings.ToLower(c.Encoding),
	}
	if !slices.Contains(Modes, p.Mode) {
		return nil, fmt.Errorf("config: unknown mode %q, want one of %v", c.Mode, Modes)
	}
	if !slices.Contains(Compress, p.Compress) {
		return nil, fmt.Errorf("config: unknown compression %q, want one of %v", c.Compress, Compress)
	}
	if !slices.Contains(Encodings, p.Encoding) {
		return nil, fmt.Errorf("config: unknown encoding %q, want one of %v", c.Encoding, Encodings)
	}

	raw, err := hex.DecodeString(c.Key)
	if err != nil {
		return nil, fmt.Errorf("config: key: %w", err)
	}
	if p.Key, err = block.KeyFromBytes(raw); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch p.Mode {
	case "cbc":
		if p.IV, err = hex.DecodeString(c.IV); err != nil {
			return nil, fmt.Errorf("config: iv: %w", err)
		}
		if len(p.IV) != block.Size {
			return nil, fmt.Errorf("config: iv length %d, want %d: %w", len(p.IV), block.Size, block.ErrInvalidLength)
		}
	case "ctr":
		if p.Endian, err = ctr.ParseEndian(c.Endian); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if p.Nonce, err = parseUint64(c.Nonce); err != nil {
			return nil, fmt.Errorf("config: nonce: %w", err)
		}
		if p.Counter, err = parseUint64(c.Counter); err != nil {
			return nil, fmt.Errorf("config: counter: %w", err)
		}
	}
	return p, nil
}

// parseUint64 accepts decimal or 0x-prefixed hex.
func parseUint64(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 0, 64)
}
