package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"blockmodes/pkg/appdir"
	"blockmodes/pkg/config"
	"blockmodes/pkg/log"
	"blockmodes/pkg/transform"
)

// cryptFlags is rebuilt per command since urfave/cli records state on flags.
func cryptFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file `PATH` (default: blockmodes.yaml in ., /etc/blockmodes/, ~/.blockmodes)"},
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "block mode: ecb, cbc or ctr"},
		&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "AES-128 key as 32 hex digits"},
		&cli.StringFlag{Name: "iv", Usage: "CBC initialization vector as 32 hex digits"},
		&cli.StringFlag{Name: "nonce", Usage: "CTR nonce, decimal or 0x-prefixed hex"},
		&cli.StringFlag{Name: "counter", Usage: "CTR initial counter, decimal or 0x-prefixed hex"},
		&cli.StringFlag{Name: "endian", Usage: "CTR nonce and counter byte order: big or little"},
		&cli.StringFlag{Name: "compress", Usage: "compression stage: none, gzip or zstd"},
		&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Usage: "ciphertext encoding: raw, hex or base64"},
		&cli.StringFlag{Name: "log-db", Usage: "SQLite log database `PATH`, relative names go under the app directory"},
		&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "input `FILE` (default: stdin)"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output `FILE` (default: stdout)"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
	}
}

func encryptCommand() *cli.Command {
	return &cli.Command{
		Name:        "encrypt",
		Usage:       "encrypt a file",
		UsageText:   "blockmodes encrypt [options]",
		Description: "Compresses (optionally), pads for ECB and CBC, then encrypts the input.",
		Flags:       cryptFlags(),
		Action:      func(c *cli.Context) error { return cryptCmd(c, true) },
	}
}

func decryptCommand() *cli.Command {
	return &cli.Command{
		Name:        "decrypt",
		Usage:       "decrypt a file",
		UsageText:   "blockmodes decrypt [options]",
		Description: "Decrypts the input, removes padding for ECB and CBC, then decompresses.",
		Flags:       cryptFlags(),
		Action:      func(c *cli.Context) error { return cryptCmd(c, false) },
	}
}

// loadConfig reads the config file and environment, then applies flags
// the user set explicitly.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	overrides := map[string]*string{
		"mode":     &cfg.Mode,
		"key":      &cfg.Key,
		"iv":       &cfg.IV,
		"nonce":    &cfg.Nonce,
		"counter":  &cfg.Counter,
		"endian":   &cfg.Endian,
		"compress": &cfg.Compress,
		"encoding": &cfg.Encoding,
		"log-db":   &cfg.LogDB,
	}
	for name, field := range overrides {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	return cfg, nil
}

// setupLogging returns a cleanup func that closes the SQLite sink.
func setupLogging(cfg *config.Config) (func(), error) {
	log.SetStd()
	log.SetLevel(zerolog.InfoLevel)
	if cfg.Debug {
		log.SetLevel(zerolog.DebugLevel)
	}
	if cfg.LogDB == "" {
		return func() {}, nil
	}
	path := appdir.Path(cfg.LogDB)
	if path != cfg.LogDB {
		if _, err := appdir.Ensure(); err != nil {
			return nil, fmt.Errorf("creating app directory: %w", err)
		}
	}
	if err := log.Init(path); err != nil {
		return nil, err
	}
	return func() { _ = log.Close() }, nil
}

func buildProcessor(p *config.Params) (*transform.PayloadProcessor, *transform.CTRTransform, error) {
	opts := transform.Options{
		Key:     p.Key,
		IV:      p.IV,
		Nonce:   p.Nonce,
		Counter: p.Counter,
		Endian:  p.Endian,
	}
	compress, err := transform.New(p.Compress, opts)
	if err != nil {
		return nil, nil, err
	}
	mode, err := transform.New(p.Mode, opts)
	if err != nil {
		return nil, nil, err
	}
	stream, _ := mode.(*transform.CTRTransform)
	proc, err := transform.NewPayloadProcessor([]transform.Transform{compress, mode})
	if err != nil {
		return nil, nil, err
	}
	return proc, stream, nil
}

func cryptCmd(c *cli.Context, encrypt bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading configuration: %v", err), 1)
	}
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error initializing logger: %v", err), 1)
	}
	defer cleanup()

	p, err := cfg.Validate()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	proc, stream, err := buildProcessor(p)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error building pipeline: %v", err), 1)
	}

	input, err := readInput(c, c.String("in"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
	}

	op := "decrypt"
	if encrypt {
		op = "encrypt"
	}
	log.Debug().Str("op", op).Str("mode", p.Mode).Str("compress", p.Compress).
		Str("config", cfg.ConfigFile).Int("bytes", len(input)).Msg("starting")

	var output []byte
	if encrypt {
		output, err = proc.PrepareOutput(input)
		if err == nil {
			output = encode(p.Encoding, output)
		}
	} else {
		var raw []byte
		raw, err = decode(p.Encoding, input)
		if err == nil {
			output, err = proc.ParseInput(raw)
		}
	}
	if err != nil {
		log.Error().Err(err).Str("op", op).Str("mode", p.Mode).Msg("failed")
		return cli.Exit(fmt.Sprintf("Error: %s failed: %v", op, err), 1)
	}

	if err := writeOutput(c, c.String("out"), output); err != nil {
		return cli.Exit(fmt.Sprintf("Error writing output: %v", err), 1)
	}

	ev := log.Info().Str("op", op).Str("mode", p.Mode).Int("in", len(input)).Int("out", len(output))
	if stream != nil {
		apply, reverse := stream.Counters()
		next := reverse
		if encrypt {
			next = apply
		}
		ev = ev.Uint64("counter_start", p.Counter).Uint64("counter_next", next)
	}
	ev.Msg("done")
	return nil
}

func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(path)
}

func writeOutput(c *cli.Context, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func encode(encoding string, data []byte) []byte {
	switch encoding {
	case "hex":
		return []byte(hex.EncodeToString(data) + "\n")
	case "base64":
		return []byte(base64.StdEncoding.EncodeToString(data) + "\n")
	default:
		return data
	}
}

func decode(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case "hex":
		return hex.DecodeString(string(bytes.TrimSpace(data)))
	case "base64":
		return base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
	default:
		return data, nil
	}
}
