// Package ecb implements Electronic Codebook mode: every block is transformed
// independently, so identical plaintext blocks under one key always produce
// identical ciphertext blocks.
package ecb

import (
	"fmt"

	"blockmodes/pkg/block"
)

// Encrypt applies the forward transform to each block of plaintext.
// The input length must be a multiple of block.Size.
func Encrypt(c block.Cipher, plaintext []byte, key block.Key) ([]byte, error) {
	if err := checkLength(plaintext); err != nil {
		return nil, fmt.Errorf("ecb encrypt: %w", err)
	}
	return crypt(c.Encrypt, plaintext, key), nil
}

// Decrypt applies the inverse transform to each block of ciphertext.
func Decrypt(c block.Cipher, ciphertext []byte, key block.Key) ([]byte, error) {
	if err := checkLength(ciphertext); err != nil {
		return nil, fmt.Errorf("ecb decrypt: %w", err)
	}
	return crypt(c.Decrypt, ciphertext, key), nil
}

func crypt(fn func(block.Key, block.Block) block.Block, src []byte, key block.Key) []byte {
	res := make([]byte, len(src))
	for i := 0; i < len(src); i += block.Size {
		out := fn(key, block.FromSlice(src[i:]))
		copy(res[i:], out[:])
	}
	return res
}

func checkLength(b []byte) error {
	if len(b)%block.Size != 0 {
		return fmt.Errorf("length %d not a multiple of %d: %w", len(b), block.Size, block.ErrInvalidLength)
	}
	return nil
}
