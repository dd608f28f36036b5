package block

import (
	"crypto/aes"
	"crypto/cipher"
)

// AES is the AES-128 block transform backed by crypto/aes.
// The zero value is ready to use.
type AES struct{}

func (AES) Encrypt(key Key, b Block) Block {
	var out Block
	newAES(key).Encrypt(out[:], b[:])
	return out
}

func (AES) Decrypt(key Key, b Block) Block {
	var out Block
	newAES(key).Decrypt(out[:], b[:])
	return out
}

func newAES(key Key) cipher.Block {
	c, err := aes.NewCipher(key[:])
	if err != nil {
		// unreachable: Key is always 16 bytes
		panic("block: " + err.Error())
	}
	return c
}
