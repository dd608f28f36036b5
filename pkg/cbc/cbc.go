// Package cbc implements Cipher Block Chaining mode.
//
//	C[0] = E(P[0] ^ IV)    C[i] = E(P[i] ^ C[i-1])
//	P[0] = D(C[0]) ^ IV    P[i] = D(C[i]) ^ C[i-1]
package cbc

import (
	"fmt"

	"blockmodes/pkg/block"
	"blockmodes/pkg/xor"
)

// IVSize is the required initialization vector length.
const IVSize = block.Size

// Encrypt chains msg through the forward transform starting from iv.
// msg must be a multiple of block.Size and iv exactly IVSize bytes.
func Encrypt(c block.Cipher, msg []byte, key block.Key, iv []byte) ([]byte, error) {
	if err := check(msg, iv); err != nil {
		return nil, fmt.Errorf("cbc encrypt: %w", err)
	}

	res := make([]byte, len(msg))
	prev := block.FromSlice(iv)
	for i := 0; i < len(msg); i += block.Size {
		in := block.FromSlice(msg[i:])
		if err := xor.InPlace(in[:], prev[:]); err != nil {
			return nil, fmt.Errorf("cbc encrypt: block %d: %w", i/block.Size, err)
		}
		prev = c.Encrypt(key, in)
		copy(res[i:], prev[:])
	}
	return res, nil
}

// Decrypt reverses Encrypt. The inverse transform runs first and its output
// is XORed with the previous ciphertext block (the IV for block 0).
func Decrypt(c block.Cipher, ciphertext []byte, key block.Key, iv []byte) ([]byte, error) {
	if err := check(ciphertext, iv); err != nil {
		return nil, fmt.Errorf("cbc decrypt: %w", err)
	}

	res := make([]byte, len(ciphertext))
	prev := block.FromSlice(iv)
	for i := 0; i < len(ciphertext); i += block.Size {
		cur := block.FromSlice(ciphertext[i:])
		out := c.Decrypt(key, cur)
		if err := xor.InPlace(out[:], prev[:]); err != nil {
			return nil, fmt.Errorf("cbc decrypt: block %d: %w", i/block.Size, err)
		}
		copy(res[i:], out[:])
		prev = cur
	}
	return res, nil
}

func check(b, iv []byte) error {
	if len(b)%block.Size != 0 {
		return fmt.Errorf("length %d not a multiple of %d: %w", len(b), block.Size, block.ErrInvalidLength)
	}
	if len(iv) != IVSize {
		return fmt.Errorf("IV length %d, want %d: %w", len(iv), IVSize, block.ErrInvalidLength)
	}
	return nil
}
