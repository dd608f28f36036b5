// Package pkcs7 pads buffers to the 16-byte block size with PKCS#7 bytes.
//
// Pad leaves block-aligned input untouched instead of appending a full block
// of 0x10 bytes as RFC 5652 requires. Unpad compensates with a fallback: a
// trailing block that holds no byte in 1..15 is taken to be unpadded data and
// returned as is. Callers depend on both behaviors; a buffer whose plaintext
// legitimately ends in what looks like padding cannot be told apart.
package pkcs7

import (
	"bytes"
	"fmt"

	"blockmodes/pkg/block"
)

// Pad returns buf followed by (16 - len%16) bytes of that value, or a copy of
// buf when it is already a multiple of the block size.
func Pad(buf []byte) []byte {
	n := block.Size - len(buf)%block.Size
	out := make([]byte, len(buf), len(buf)+n)
	copy(out, buf)
	if n == block.Size {
		return out
	}
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// PadCanonical pads as RFC 5652 does: block-aligned input gets a full block
// of 0x10 bytes. Unpad removes that block, so Unpad(PadCanonical(b)) == b for
// every b, which Pad cannot guarantee for aligned input.
func PadCanonical(buf []byte) []byte {
	out := Pad(buf)
	if len(buf)%block.Size == 0 {
		out = append(out, bytes.Repeat([]byte{block.Size}, block.Size)...)
	}
	return out
}

// Unpad strips the padding recognized in the trailing block of buf.
//
// A trailing block of sixteen 0x10 bytes is removed entirely. Otherwise the
// longest run of N trailing bytes valued N, N from 15 down to 1, is removed.
// If neither matches and the block holds no byte in 1..15, buf is returned
// unchanged; any other tail is ErrInvalidPadding.
func Unpad(buf []byte) ([]byte, error) {
	if len(buf) < block.Size || len(buf)%block.Size != 0 {
		return nil, fmt.Errorf("pkcs7: buffer length %d: %w", len(buf), block.ErrInvalidLength)
	}
	tail := buf[len(buf)-block.Size:]

	for n := block.Size; n >= 1; n-- {
		if isRun(tail[block.Size-n:], byte(n)) {
			return clone(buf[:len(buf)-n]), nil
		}
	}

	for _, b := range tail {
		if b >= 1 && b < block.Size {
			return nil, fmt.Errorf("pkcs7: unrecognized trailing byte 0x%02x: %w", b, block.ErrInvalidPadding)
		}
	}
	return clone(buf), nil
}

func isRun(b []byte, v byte) bool {
	for _, c := range b {
		if c != v {
			return false
		}
	}
	return true
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
