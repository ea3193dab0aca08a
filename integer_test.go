package hpack

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/valyala/fastrand"
)

func TestAppendIntDirect(t *testing.T) {
	// 10 with a 5-bit prefix fits directly: 00001010.
	got := appendInt(nil, 5, 10)
	want := []byte{0x0a}
	if !bytes.Equal(got, want) {
		t.Fatalf("appendInt(5, 10) = % x, want % x", got, want)
	}
}

func TestAppendIntContinuation(t *testing.T) {
	// 1337 with a 5-bit prefix: 11111 10011010 00001010.
	got := appendInt(nil, 5, 1337)
	want := []byte{0x1f, 0x9a, 0x0a}
	if !bytes.Equal(got, want) {
		t.Fatalf("appendInt(5, 1337) = % x, want % x", got, want)
	}
}

func TestAppendIntEightBitPrefix(t *testing.T) {
	got := appendInt(nil, 8, 42)
	want := []byte{0x2a}
	if !bytes.Equal(got, want) {
		t.Fatalf("appendInt(8, 42) = % x, want % x", got, want)
	}
}

func TestWriteIntOrsFlagBits(t *testing.T) {
	dst := []byte{0x80} // pretend a representation flag already set the high bit
	got := writeInt(dst, 7, 10)
	want := []byte{0x8a}
	if !bytes.Equal(got, want) {
		t.Fatalf("writeInt = % x, want % x", got, want)
	}
}

func TestReadIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 30, 31, 127, 1337, 1 << 20, maxIntegerValue}
	for _, n := range cases {
		for _, prefixBits := range []uint{1, 4, 5, 7, 8} {
			enc := appendInt(nil, prefixBits, n)
			rest, got, err := readInt(int(prefixBits), enc)
			if err != nil {
				t.Fatalf("readInt(%d, % x) (n=%d) = %v", prefixBits, enc, n, err)
			}
			if got != n {
				t.Fatalf("readInt(%d, % x) = %d, want %d", prefixBits, enc, got, n)
			}
			if len(rest) != 0 {
				t.Fatalf("readInt left %d unconsumed bytes", len(rest))
			}
		}
	}
}

func TestReadIntNeedMoreData(t *testing.T) {
	enc := appendInt(nil, 5, 1337)
	for i := 1; i < len(enc); i++ {
		_, _, err := readInt(5, enc[:i])
		if err != ErrNeedMoreData {
			t.Fatalf("readInt(%d bytes) = %v, want ErrNeedMoreData", i, err)
		}
	}
}

func TestReadIntOverflow(t *testing.T) {
	// An endless run of continuation bytes must fail, not hang or wrap.
	b := append([]byte{0xff}, bytes.Repeat([]byte{0xff}, 10)...)
	_, _, err := readInt(8, b)
	if err != ErrIntegerOverflow {
		t.Fatalf("readInt overflow = %v, want ErrIntegerOverflow", err)
	}
}

func TestReadIntFromStream(t *testing.T) {
	enc := appendInt(nil, 7, 1337)
	br := bufio.NewReader(bytes.NewReader(enc))
	got, err := readIntFrom(7, br)
	if err != nil {
		t.Fatalf("readIntFrom: %v", err)
	}
	if got != 1337 {
		t.Fatalf("readIntFrom = %d, want 1337", got)
	}
}

func TestIntegerRoundTripProperty(t *testing.T) {
	var rng fastrand.RNG
	for i := 0; i < 2000; i++ {
		n := uint64(rng.Uint32())
		prefixBits := int(1 + rng.Uint32()%8)
		enc := appendInt(nil, uint(prefixBits), n)
		_, got, err := readInt(prefixBits, enc)
		if err != nil {
			t.Fatalf("iteration %d: readInt: %v", i, err)
		}
		if got != n {
			t.Fatalf("iteration %d: got %d, want %d", i, got, n)
		}
	}
}
