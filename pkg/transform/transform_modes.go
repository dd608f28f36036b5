package transform

import (
	"fmt"

	"blockmodes/pkg/block"
	"blockmodes/pkg/cbc"
	"blockmodes/pkg/ctr"
	"blockmodes/pkg/ecb"
	"blockmodes/pkg/pkcs7"
)

// Mode transforms pad with pkcs7.PadCanonical so that any payload, including
// empty or block-aligned ones, survives Apply then Reverse unchanged.

// ecbTransform pads then encrypts each block independently.
type ecbTransform struct {
	cipher block.Cipher
	key    block.Key
}

func NewECBTransform(c block.Cipher, key block.Key) Transform {
	return &ecbTransform{cipher: c, key: key}
}

func (e *ecbTransform) Apply(data []byte) ([]byte, error) {
	out, err := ecb.Encrypt(e.cipher, pkcs7.PadCanonical(data), e.key)
	if err != nil {
		return nil, fmt.Errorf("ecb apply (encrypt): %w", err)
	}
	return out, nil
}

func (e *ecbTransform) Reverse(data []byte) ([]byte, error) {
	padded, err := ecb.Decrypt(e.cipher, data, e.key)
	if err != nil {
		return nil, fmt.Errorf("ecb reverse (decrypt): %w", err)
	}
	out, err := pkcs7.Unpad(padded)
	if err != nil {
		return nil, fmt.Errorf("ecb reverse (unpad): %w", err)
	}
	return out, nil
}

// cbcTransform pads then chains from a fixed IV. Every payload restarts
// from the same IV, so callers that need distinct IVs per message build one
// transform per message.
type cbcTransform struct {
	cipher block.Cipher
	key    block.Key
	iv     []byte
}

func NewCBCTransform(c block.Cipher, key block.Key, iv []byte) (Transform, error) {
	if len(iv) != cbc.IVSize {
		return nil, fmt.Errorf("cbc: IV length %d, want %d: %w", len(iv), cbc.IVSize, block.ErrInvalidLength)
	}
	return &cbcTransform{cipher: c, key: key, iv: append([]byte(nil), iv...)}, nil
}

func (t *cbcTransform) Apply(data []byte) ([]byte, error) {
	out, err := cbc.Encrypt(t.cipher, pkcs7.PadCanonical(data), t.key, t.iv)
	if err != nil {
		return nil, fmt.Errorf("cbc apply (encrypt): %w", err)
	}
	return out, nil
}

func (t *cbcTransform) Reverse(data []byte) ([]byte, error) {
	padded, err := cbc.Decrypt(t.cipher, data, t.key, t.iv)
	if err != nil {
		return nil, fmt.Errorf("cbc reverse (decrypt): %w", err)
	}
	out, err := pkcs7.Unpad(padded)
	if err != nil {
		return nil, fmt.Errorf("cbc reverse (unpad): %w", err)
	}
	return out, nil
}

// CTRTransform runs counter mode as a continuous stream in each direction:
// Apply and Reverse keep separate counters that both start at the initial
// value, so payloads must be reversed in the order they were applied.
// It is not safe for concurrent use.
type CTRTransform struct {
	cipher block.Cipher
	key    block.Key
	nonce  uint64
	mode   ctr.Endian

	applyCounter   uint64
	reverseCounter uint64
}

func NewCTRTransform(c block.Cipher, key block.Key, nonce, counter uint64, mode ctr.Endian) *CTRTransform {
	return &CTRTransform{
		cipher:         c,
		key:            key,
		nonce:          nonce,
		mode:           mode,
		applyCounter:   counter,
		reverseCounter: counter,
	}
}

func (t *CTRTransform) Apply(data []byte) ([]byte, error) {
	return ctr.Encrypt(t.cipher, data, t.key, t.nonce, &t.applyCounter, t.mode), nil
}

func (t *CTRTransform) Reverse(data []byte) ([]byte, error) {
	return ctr.Decrypt(t.cipher, data, t.key, t.nonce, &t.reverseCounter, t.mode), nil
}

// Counters reports the next counter value for each direction.
func (t *CTRTransform) Counters() (apply, reverse uint64) {
	return t.applyCounter, t.reverseCounter
}
