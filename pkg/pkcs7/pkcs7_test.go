package pkcs7

import (
	"bytes"
	"errors"
	"testing"

	"blockmodes/pkg/block"
)

func TestPadEachLength(t *testing.T) {
	msg := []byte("YELLOW SUBMARINE")
	for n := 1; n < block.Size; n++ {
		padded := Pad(msg[:n])
		if len(padded) != block.Size {
			t.Fatalf("len=%d: padded length %d, want %d", n, len(padded), block.Size)
		}
		want := bytes.Repeat([]byte{byte(block.Size - n)}, block.Size-n)
		if !bytes.Equal(padded[n:], want) {
			t.Fatalf("len=%d: padding %x, want %x", n, padded[n:], want)
		}
		if !bytes.Equal(padded[:n], msg[:n]) {
			t.Fatalf("len=%d: data prefix altered", n)
		}
	}
}

// Block-aligned input is returned unchanged, no extra 0x10 block is added.
// This differs from RFC 5652 and is relied upon by Unpad's fallback.
func TestPadBlockAlignedUnchanged(t *testing.T) {
	for _, size := range []int{0, 16, 32} {
		data := bytes.Repeat([]byte{0x42}, size)
		padded := Pad(data)
		if !bytes.Equal(padded, data) {
			t.Fatalf("size=%d: expected unchanged buffer, got %d bytes", size, len(padded))
		}
	}
}

func TestPadMultipleBlocks(t *testing.T) {
	data := []byte("YELLOW SUBMARINE!")
	padded := Pad(data)
	if len(padded) != 2*block.Size {
		t.Fatalf("expected %d bytes, got %d", 2*block.Size, len(padded))
	}
	if !bytes.Equal(padded[block.Size+1:], bytes.Repeat([]byte{15}, 15)) {
		t.Fatalf("unexpected padding %x", padded[block.Size+1:])
	}
}

func TestPadDoesNotAliasInput(t *testing.T) {
	data := make([]byte, 5, 64)
	padded := Pad(data)
	padded[0] = 0xff
	if data[0] != 0 {
		t.Fatal("Pad result aliases its input")
	}
	if data[:cap(data)][5] != 0 {
		t.Fatal("Pad wrote into the spare capacity of its input")
	}
}

func TestPadUnpadRoundTrip(t *testing.T) {
	for size := 0; size < 48; size++ {
		if size%block.Size == 0 {
			continue
		}
		data := bytes.Repeat([]byte{0x42}, size)
		unpadded, err := Unpad(Pad(data))
		if err != nil {
			t.Fatalf("size=%d: unpad error: %v", size, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("size=%d: round-trip mismatch", size)
		}
	}
}

func TestUnpadEachPadLength(t *testing.T) {
	var blk [block.Size]byte
	for i := 0; i < block.Size; i++ {
		keep := block.Size - i - 1
		for j := keep; j < block.Size; j++ {
			blk[j] = byte(i + 1)
		}
		got, err := Unpad(blk[:])
		if err != nil {
			t.Fatalf("pad=%d: unexpected error: %v", i+1, err)
		}
		if !bytes.Equal(got, blk[:keep]) {
			t.Fatalf("pad=%d: got %x, want %x", i+1, got, blk[:keep])
		}
	}
}

func TestUnpadDecisionTable(t *testing.T) {
	text := []byte("YELLOW SUBMARINE")
	full := bytes.Repeat([]byte{16}, 16)

	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{"full padding block", append(append([]byte{}, text...), full...), text},
		{"full padding block only", full, []byte{}},
		{"single 0x01", append([]byte("YELLOW SUBMARIN"), 1), []byte("YELLOW SUBMARIN")},
		{"0x01 0x01 strips one", append([]byte("YELLOW SUBMARI"), 1, 1), append([]byte("YELLOW SUBMARI"), 1)},
		{"never padded ascii", text, text},
		{"never padded zeros", make([]byte, 16), make([]byte, 16)},
		{"never padded trailing 0x10", append([]byte("YELLOW SUBMARIN"), 16), append([]byte("YELLOW SUBMARIN"), 16)},
		{"only trailing block inspected", append(append([]byte{5, 5, 5}, bytes.Repeat([]byte{'A'}, 13)...), text...),
			append(append([]byte{5, 5, 5}, bytes.Repeat([]byte{'A'}, 13)...), text...)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Unpad(tc.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("got %x, want %x", got, tc.want)
			}
		})
	}
}

func TestUnpadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", []byte{}, block.ErrInvalidLength},
		{"short", []byte("YELLOW"), block.ErrInvalidLength},
		{"not block-aligned", make([]byte, 17), block.ErrInvalidLength},
		{"inconsistent padding", append(bytes.Repeat([]byte{0x00}, 14), 0x01, 0x02), block.ErrInvalidPadding},
		{"short run", append(bytes.Repeat([]byte{0x00}, 14), 0x03, 0x03), block.ErrInvalidPadding},
		{"stray padding byte", append([]byte("YELLOW\x05SUBMARIN"), 'E'), block.ErrInvalidPadding},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unpad(tc.data)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestPadCanonicalRoundTrip(t *testing.T) {
	for size := 0; size < 49; size++ {
		data := make([]byte, size)
		for i := range data {
			// low values look like padding and make Pad ambiguous
			data[i] = byte(i%16 + 1)
		}
		padded := PadCanonical(data)
		if len(padded) <= len(data) || len(padded)%block.Size != 0 {
			t.Fatalf("size=%d: padded length %d", size, len(padded))
		}
		unpadded, err := Unpad(padded)
		if err != nil {
			t.Fatalf("size=%d: unpad error: %v", size, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("size=%d: round-trip mismatch", size)
		}
	}
}

func TestPadCanonicalAlignedAddsBlock(t *testing.T) {
	data := []byte("YELLOW SUBMARINE")
	padded := PadCanonical(data)
	if !bytes.Equal(padded[16:], bytes.Repeat([]byte{16}, 16)) {
		t.Fatalf("expected a full 0x10 block, got %x", padded[16:])
	}
}
