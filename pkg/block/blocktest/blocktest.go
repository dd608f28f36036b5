// Package blocktest provides block.Cipher doubles for exercising mode logic
// independently of a real cipher.
package blocktest

import "blockmodes/pkg/block"

// Identity returns every block unchanged in both directions.
type Identity struct{}

func (Identity) Encrypt(_ block.Key, b block.Block) block.Block { return b }
func (Identity) Decrypt(_ block.Key, b block.Block) block.Block { return b }

// Invert flips every bit of the block, XORed with the key so that key
// changes are observable. It is its own inverse.
type Invert struct{}

func (Invert) Encrypt(key block.Key, b block.Block) block.Block { return invert(key, b) }
func (Invert) Decrypt(key block.Key, b block.Block) block.Block { return invert(key, b) }

func invert(key block.Key, b block.Block) block.Block {
	for i := range b {
		b[i] = ^b[i] ^ key[i]
	}
	return b
}

// Counting wraps a Cipher and records how many times each direction ran.
type Counting struct {
	Cipher   block.Cipher
	Encrypts int
	Decrypts int
}

func (c *Counting) Encrypt(key block.Key, b block.Block) block.Block {
	c.Encrypts++
	return c.Cipher.Encrypt(key, b)
}

func (c *Counting) Decrypt(key block.Key, b block.Block) block.Block {
	c.Decrypts++
	return c.Cipher.Decrypt(key, b)
}

// Calls is the total number of cipher invocations.
func (c *Counting) Calls() int { return c.Encrypts + c.Decrypts }

// Rotate moves every byte one position to the left, then XORs the key in.
// Unlike Identity and Invert it does not commute with XOR by a non-uniform
// value, so it tells apart D(C) ^ IV from D(C ^ IV).
type Rotate struct{}

func (Rotate) Encrypt(key block.Key, b block.Block) block.Block {
	var out block.Block
	for i := range b {
		out[i] = b[(i+1)%block.Size] ^ key[i]
	}
	return out
}

func (Rotate) Decrypt(key block.Key, b block.Block) block.Block {
	var out block.Block
	for i := range b {
		out[(i+1)%block.Size] = b[i] ^ key[i]
	}
	return out
}
