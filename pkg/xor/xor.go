// Package xor implements fixed-length exclusive-or over byte slices.
package xor

import (
	"fmt"

	"blockmodes/pkg/block"
)

// Bytes returns a new slice holding left[i] ^ right[i].
// The operands must have the same length.
func Bytes(left, right []byte) ([]byte, error) {
	if len(left) != len(right) {
		return nil, lengthError(left, right)
	}
	res := make([]byte, len(left))
	for i := range left {
		res[i] = left[i] ^ right[i]
	}
	return res, nil
}

// InPlace writes left[i] ^ right[i] into left.
func InPlace(left, right []byte) error {
	if len(left) != len(right) {
		return lengthError(left, right)
	}
	for i := range left {
		left[i] ^= right[i]
	}
	return nil
}

func lengthError(left, right []byte) error {
	return fmt.Errorf("xor: operand lengths %d and %d differ: %w", len(left), len(right), block.ErrInvalidLength)
}
