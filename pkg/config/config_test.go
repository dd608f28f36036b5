package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blockmodes/pkg/block"
	"blockmodes/pkg/ctr"
)

const testKey = "2b7e151628aed2a6abf7158809cf4f3c"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockmodes.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Mode != def.Mode || cfg.Endian != def.Endian || cfg.Compress != def.Compress || cfg.LogDB != def.LogDB {
		t.Errorf("LoadConfig without file = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
mode: ctr
key: `+testKey+`
nonce: "0xf0f1f2f3f4f5f6f7"
counter: "0xf8f9fafbfcfdfeff"
endian: little
compress: zstd
debug: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != "ctr" || cfg.Compress != "zstd" || !cfg.Debug || cfg.Endian != "little" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}

	p, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if p.Nonce != 0xf0f1f2f3f4f5f6f7 || p.Counter != 0xf8f9fafbfcfdfeff {
		t.Errorf("nonce/counter = %#x/%#x", p.Nonce, p.Counter)
	}
	if p.Endian != ctr.Little {
		t.Errorf("endian = %v, want little", p.Endian)
	}
	if p.Key[0] != 0x2b || p.Key[15] != 0x3c {
		t.Errorf("key decoded wrong: %x", p.Key)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "mode: ecb\nencoding: hex\n")
	t.Setenv("BLOCKMODES_MODE", "cbc")
	t.Setenv("BLOCKMODES_LOG_DB", "/tmp/other.db")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != "cbc" {
		t.Errorf("mode = %q, want env override cbc", cfg.Mode)
	}
	if cfg.Encoding != "hex" {
		t.Errorf("encoding = %q, want hex from file", cfg.Encoding)
	}
	if cfg.LogDB != "/tmp/other.db" {
		t.Errorf("log_db = %q, want env override", cfg.LogDB)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateCBC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Key = testKey
	cfg.IV = "000102030405060708090a0b0c0d0e0f"
	p, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(p.IV) != block.Size || p.IV[15] != 0x0f {
		t.Errorf("iv decoded wrong: %x", p.IV)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantLen bool
	}{
		{"unknown mode", func(c *Config) { c.Mode = "ofb" }, false},
		{"unknown compress", func(c *Config) { c.Compress = "lz4" }, false},
		{"unknown encoding", func(c *Config) { c.Encoding = "base32" }, false},
		{"key not hex", func(c *Config) { c.Key = "zz" }, false},
		{"short key", func(c *Config) { c.Key = "0011" }, true},
		{"missing iv", func(c *Config) { c.IV = "" }, true},
		{"short iv", func(c *Config) { c.IV = "00112233" }, true},
		{"bad endian", func(c *Config) { c.Mode = "ctr"; c.Endian = "middle" }, false},
		{"bad nonce", func(c *Config) { c.Mode = "ctr"; c.Nonce = "-1" }, false},
		{"bad counter", func(c *Config) { c.Mode = "ctr"; c.Counter = "0xzz" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Key = testKey
			cfg.IV = "000102030405060708090a0b0c0d0e0f"
			tt.mutate(cfg)
			_, err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantLen && !errors.Is(err, block.ErrInvalidLength) {
				t.Errorf("error %v does not wrap ErrInvalidLength", err)
			}
		})
	}
}

func TestParseUint64(t *testing.T) {
	for in, want := range map[string]uint64{"": 0, "0": 0, "42": 42, "0x10": 16, "18446744073709551615": ^uint64(0)} {
		got, err := parseUint64(in)
		if err != nil || got != want {
			t.Errorf("parseUint64(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
}
