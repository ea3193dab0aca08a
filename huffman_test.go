package hpack

import (
	"bytes"
	"testing"

	"github.com/valyala/fastrand"
)

func TestHuffmanCodesMatchLengths(t *testing.T) {
	// Every symbol's computed codeword must fit in its table length and
	// every length-1 class must start immediately after the previous class
	// shifted left, per the canonical construction; a cheap structural
	// check is that no two symbols of the same length collide.
	seen := map[[2]uint32]bool{}
	for sym, l := range huffmanCodeLengths {
		if l == 0 {
			t.Fatalf("symbol %d has zero length", sym)
		}
		code := huffmanCodes[sym]
		if code >= 1<<uint(l) {
			t.Fatalf("symbol %d: code %x does not fit in %d bits", sym, code, l)
		}
		key := [2]uint32{uint32(l), code}
		if seen[key] {
			t.Fatalf("symbol %d: duplicate (length, code) = %v", sym, key)
		}
		seen[key] = true
	}
}

func TestHuffmanRoundTripASCII(t *testing.T) {
	cases := []string{
		"",
		"a",
		"www.example.com",
		"no-cache",
		"custom-key",
		"custom-value",
		string(bytes.Repeat([]byte("x"), 500)),
	}
	for _, s := range cases {
		enc := appendHuffman(nil, []byte(s))
		if got := huffmanEncodedLen([]byte(s)); got != len(enc) {
			t.Fatalf("huffmanEncodedLen(%q) = %d, want %d", s, got, len(enc))
		}
		dec, err := appendHuffmanDecode(nil, enc)
		if err != nil {
			t.Fatalf("decode(%q): %v", s, err)
		}
		if string(dec) != s {
			t.Fatalf("round trip %q -> % x -> %q", s, enc, dec)
		}
	}
}

func TestHuffmanRoundTripAllBytes(t *testing.T) {
	var all []byte
	for i := 0; i < 256; i++ {
		all = append(all, byte(i))
	}
	enc := appendHuffman(nil, all)
	dec, err := appendHuffmanDecode(nil, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(dec, all) {
		t.Fatalf("round trip over all byte values failed")
	}
}

func TestHuffmanDecodeEOSInStreamIsInvalid(t *testing.T) {
	// The EOS codeword is 30 bits of all ones; embedding it as a real
	// symbol (not padding) must be rejected.
	eosLen := huffmanCodeLengths[huffmanEOS]
	eosCode := huffmanCodes[huffmanEOS]
	var cur uint64
	var nbits uint
	cur = uint64(eosCode)
	nbits = uint(eosLen)
	var buf []byte
	for nbits >= 8 {
		nbits -= 8
		buf = append(buf, byte(cur>>nbits))
	}
	if nbits > 0 {
		buf = append(buf, byte(cur<<(8-nbits)))
	}
	_, err := appendHuffmanDecode(nil, buf)
	if err != ErrHuffmanInvalid {
		t.Fatalf("decode(EOS) = %v, want ErrHuffmanInvalid", err)
	}
}

func TestHuffmanDecodeBadPaddingBit(t *testing.T) {
	// Find a symbol whose code leaves at least one bit of padding when it
	// is the sole symbol encoded, then flip the lowest padding bit from 1
	// to 0: the padding no longer matches the EOS (all-ones) prefix.
	sym := -1
	for s, l := range huffmanCodeLengths[:256] {
		if l < 8 {
			sym = s
			break
		}
	}
	if sym < 0 {
		t.Skip("no symbol with sub-byte code length")
	}
	enc := appendHuffman(nil, []byte{byte(sym)})
	enc[len(enc)-1] &^= 0x01
	_, err := appendHuffmanDecode(nil, enc)
	if err != ErrHuffmanInvalid {
		t.Fatalf("decode with corrupted padding = %v, want ErrHuffmanInvalid", err)
	}
}

func TestHuffmanRoundTripProperty(t *testing.T) {
	var rng fastrand.RNG
	for i := 0; i < 500; i++ {
		n := int(rng.Uint32() % 64)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = byte(rng.Uint32())
		}
		enc := appendHuffman(nil, buf)
		dec, err := appendHuffmanDecode(nil, enc)
		if err != nil {
			t.Fatalf("iteration %d: decode: %v (src % x)", i, err, buf)
		}
		if !bytes.Equal(dec, buf) {
			t.Fatalf("iteration %d: round trip mismatch: src % x got % x", i, buf, dec)
		}
	}
}
