// Package ctr implements counter mode over a block.Cipher.
//
// Each keystream block is E(key, nonce || counter), both fields serialized
// as 8 bytes in the endianness chosen by the caller. The counter is owned by
// the caller and advanced by one per keystream block consumed, so a stream
// split over several calls stays contiguous as long as the same counter
// variable is passed back in.
package ctr

import (
	"encoding/binary"
	"fmt"
	"strings"

	"blockmodes/internal/fn"
	"blockmodes/pkg/block"
	"blockmodes/pkg/xor"
)

const (
	nonceLen   = 8
	counterLen = 8
)

// Endian selects how nonce and counter are serialized into the input block.
type Endian int

const (
	Big Endian = iota
	Little
)

func (e Endian) String() string {
	switch e {
	case Big:
		return "big"
	case Little:
		return "little"
	default:
		return fmt.Sprintf("Endian(%d)", int(e))
	}
}

func (e Endian) order() binary.ByteOrder {
	return fn.T[binary.ByteOrder](e == Little, binary.LittleEndian, binary.BigEndian)
}

// ParseEndian accepts "big"/"be" and "little"/"le", case-insensitively.
func ParseEndian(s string) (Endian, error) {
	switch strings.ToLower(s) {
	case "big", "be":
		return Big, nil
	case "little", "le":
		return Little, nil
	default:
		return 0, fmt.Errorf("ctr: unknown endianness %q", s)
	}
}

// InputBlock builds the keystream generator input nonce || counter.
func InputBlock(nonce, counter uint64, mode Endian) block.Block {
	var in block.Block
	order := mode.order()
	order.PutUint64(in[:nonceLen], nonce)
	order.PutUint64(in[nonceLen:nonceLen+counterLen], counter)
	return in
}

// KeystreamBlock returns the keystream block for one counter value.
func KeystreamBlock(c block.Cipher, key block.Key, nonce, counter uint64, mode Endian) block.Block {
	return c.Encrypt(key, InputBlock(nonce, counter, mode))
}

// Encrypt XORs plaintext with the keystream starting at *counter and
// advances *counter by BlockCount(len(plaintext)). Any length is accepted.
func Encrypt(c block.Cipher, plaintext []byte, key block.Key, nonce uint64, counter *uint64, mode Endian) []byte {
	return crypt(c, plaintext, key, nonce, counter, mode)
}

// Decrypt is identical to Encrypt; CTR is its own inverse.
func Decrypt(c block.Cipher, ciphertext []byte, key block.Key, nonce uint64, counter *uint64, mode Endian) []byte {
	return crypt(c, ciphertext, key, nonce, counter, mode)
}

func crypt(c block.Cipher, text []byte, key block.Key, nonce uint64, counter *uint64, mode Endian) []byte {
	res := make([]byte, len(text))
	for i := 0; i < len(text); i += block.Size {
		stream := KeystreamBlock(c, key, nonce, *counter, mode)
		chunk := res[i:min(i+block.Size, len(text))]
		copy(chunk, text[i:])
		// chunk never exceeds one block, lengths match by construction
		_ = xor.InPlace(chunk, stream[:len(chunk)])
		// a short final chunk still consumes a whole counter value
		*counter++
	}
	return res
}

// BlockCount is the number of keystream blocks, and counter steps, used for
// a text of n bytes.
func BlockCount(n int) uint64 {
	return uint64((n + block.Size - 1) / block.Size)
}
