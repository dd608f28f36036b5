package transform

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"blockmodes/internal/fn"
	"blockmodes/pkg/block"
	"blockmodes/pkg/ctr"
)

// Options carries the parameters a named transform may need. Cipher
// defaults to AES-128.
type Options struct {
	Cipher  block.Cipher
	Key     block.Key
	IV      []byte
	Nonce   uint64
	Counter uint64
	Endian  ctr.Endian
}

var ErrUnknownTransform = errors.New("unknown transform")

// New creates a transform by name: none, gzip, zstd, ecb, cbc or ctr.
func New(name string, opts Options) (Transform, error) {
	c := fn.Default[block.Cipher](opts.Cipher, block.AES{})
	switch name {
	case "", "none":
		return NewNoOpTransform(), nil
	case "gzip":
		return NewGzipTransform(gzip.DefaultCompression)
	case "zstd":
		return NewZstdTransform(zstd.SpeedDefault)
	case "ecb":
		return NewECBTransform(c, opts.Key), nil
	case "cbc":
		if opts.IV == nil {
			return nil, errors.New("cbc transform requires an IV")
		}
		return NewCBCTransform(c, opts.Key, opts.IV)
	case "ctr":
		return NewCTRTransform(c, opts.Key, opts.Nonce, opts.Counter, opts.Endian), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
}

// NewPipeline builds a processor from transform names in apply order.
func NewPipeline(names []string, opts Options) (*PayloadProcessor, error) {
	stages := make([]Transform, 0, len(names))
	for _, name := range names {
		t, err := New(name, opts)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		stages = append(stages, t)
	}
	return NewPayloadProcessor(stages)
}
