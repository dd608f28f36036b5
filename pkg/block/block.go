// Package block defines the 128-bit block cipher capability that the mode
// engines are built on, together with the errors shared by every engine.
package block

import "fmt"

const (
	// Size is the block length in bytes for every mode engine.
	Size = 16
	// KeySize is the key length in bytes passed through to the cipher.
	KeySize = 16
)

// Block is one unit processed by the cipher.
type Block [Size]byte

// Key is opaque to the mode engines and handed to the Cipher unchanged.
type Key [KeySize]byte

// Cipher is a single-block forward/inverse transform.
// Implementations must satisfy Decrypt(k, Encrypt(k, b)) == b for all b.
type Cipher interface {
	Encrypt(key Key, b Block) Block
	Decrypt(key Key, b Block) Block
}

// KeyFromBytes copies a 16-byte slice into a Key.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, fmt.Errorf("block: key length %d, want %d: %w", len(b), KeySize, ErrInvalidLength)
	}
	copy(k[:], b)
	return k, nil
}

// FromSlice copies exactly Size bytes from b. It panics if b is shorter,
// callers slice on block boundaries after validating lengths.
func FromSlice(b []byte) Block {
	var blk Block
	copy(blk[:], b[:Size])
	return blk
}
