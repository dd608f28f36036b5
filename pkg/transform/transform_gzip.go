package transform

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

type gzipTransform struct {
	level   int
	writers sync.Pool
}

// NewGzipTransform compresses with klauspost's gzip at the given level
// (gzip.DefaultCompression, gzip.BestSpeed ...). Writers are pooled.
func NewGzipTransform(level int) (Transform, error) {
	if _, err := gzip.NewWriterLevel(io.Discard, level); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return &gzipTransform{level: level}, nil
}

func (g *gzipTransform) writer(w io.Writer) *gzip.Writer {
	if zw, ok := g.writers.Get().(*gzip.Writer); ok {
		zw.Reset(w)
		return zw
	}
	// level was validated in the constructor
	zw, _ := gzip.NewWriterLevel(w, g.level)
	return zw
}

func (g *gzipTransform) Apply(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := g.writer(&buf)
	defer g.writers.Put(zw)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *gzipTransform) Reverse(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return out, nil
}
