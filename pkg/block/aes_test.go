package block

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// FIPS-197 appendix C.1
func TestAESKnownAnswer(t *testing.T) {
	key, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	pt, _ := hex.DecodeString("00112233445566778899aabbccddeeff")
	want, _ := hex.DecodeString("69c4e0d86a7b0430d8cdb78070b4c55a")

	k, err := KeyFromBytes(key)
	if err != nil {
		t.Fatalf("KeyFromBytes failed: %v", err)
	}
	ct := AES{}.Encrypt(k, FromSlice(pt))
	if !bytes.Equal(ct[:], want) {
		t.Fatalf("Encrypt: got %x, want %x", ct, want)
	}
	back := AES{}.Decrypt(k, ct)
	if !bytes.Equal(back[:], pt) {
		t.Fatalf("Decrypt: got %x, want %x", back, pt)
	}
}

func TestKeyFromBytesRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 15, 17, 32} {
		if _, err := KeyFromBytes(make([]byte, n)); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("len=%d: expected ErrInvalidLength, got %v", n, err)
		}
	}
}
