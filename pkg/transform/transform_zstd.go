package transform

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdTransform compresses with Zstandard at the given level, e.g.
// zstd.SpeedFastest or zstd.SpeedDefault. The encoder and decoder are built
// once and reused for every payload.
func NewZstdTransform(level zstd.EncoderLevel) (Transform, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to initialize encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to initialize decoder: %w", err)
	}
	return &zstdTransform{encoder: enc, decoder: dec}, nil
}

func (s *zstdTransform) Apply(data []byte) ([]byte, error) {
	// EncodeAll writes a complete frame carrying the content size.
	return s.encoder.EncodeAll(data, nil), nil
}

func (s *zstdTransform) Reverse(data []byte) ([]byte, error) {
	out, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reverse (decompress): %w", err)
	}
	return out, nil
}
