package hpack

import (
	"strings"
	"testing"
)

func TestEncoderAddAndWriteClearsPending(t *testing.T) {
	e := AcquireEncoder()
	defer ReleaseEncoder(e)

	e.Add(":method", "GET")
	e.Add(":path", "/")
	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(block) == 0 {
		t.Fatalf("Write produced an empty block")
	}
	if len(e.pending) != 0 {
		t.Fatalf("pending not cleared after Write")
	}
}

func TestEncoderExactMatchUsesIndexedStatic(t *testing.T) {
	e := AcquireEncoder()
	defer ReleaseEncoder(e)

	e.Add(":method", "GET")
	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	// :method: GET is static index 2; Indexed is a single byte, 0x80|2.
	if len(block) != 1 || block[0] != (0x80|2) {
		t.Fatalf("block = % x, want [82]", block)
	}
}

func TestEncoderSensitiveFieldNeverIndexed(t *testing.T) {
	e := AcquireEncoder()
	defer ReleaseEncoder(e)

	f := AcquireHeaderField()
	f.Set("authorization", "secret-token")
	f.SetSensitive(true)
	e.AddField(f)
	ReleaseHeaderField(f)

	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	// literal never indexed: top nibble 0001.
	if block[0]&0xf0 != 0x10 {
		t.Fatalf("block[0] = %08b, want top nibble 0001", block[0])
	}
	if e.Table().Len() != 0 {
		t.Fatalf("sensitive field leaked into the dynamic table")
	}
}

func TestEncoderDuplicateReferencedFieldDoesNotToggleOff(t *testing.T) {
	e := AcquireEncoder()
	defer ReleaseEncoder(e)
	d := AcquireDecoder()
	defer ReleaseDecoder(d)

	// Two identical custom headers in the same block: the second one must
	// not be sent as Indexed (it is already in the reference set after the
	// first), or the decoder would toggle it off instead of repeating it.
	e.Add("x-dup", "same-value")
	e.Add("x-dup", "same-value")
	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	rest, err := d.Read(block)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("Read left %d unconsumed bytes", len(rest))
	}
	if d.Store().Len() != 2 {
		t.Fatalf("Store().Len() = %d, want 2 (both duplicates emitted)", d.Store().Len())
	}
	for i := 0; i < 2; i++ {
		f := d.Store().At(i)
		if f.Name() != "x-dup" || f.Value() != "same-value" {
			t.Fatalf("field %d = %q:%q", i, f.Name(), f.Value())
		}
	}
}

func TestEncoderNameOnlyMatchUsesIndexedName(t *testing.T) {
	e := AcquireEncoder()
	defer ReleaseEncoder(e)
	d := AcquireDecoder()
	defer ReleaseDecoder(d)

	e.Add(":status", "418") // name indexed (static idx 8), value literal
	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	rest, err := d.Read(block)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unconsumed bytes: %d", len(rest))
	}
	f := d.Store().At(0)
	if f.Name() != ":status" || f.Value() != "418" {
		t.Fatalf("decoded %q:%q, want :status:418", f.Name(), f.Value())
	}
}

func TestEncoderDisableCompressionForcesPlainStrings(t *testing.T) {
	e := AcquireEncoder()
	defer ReleaseEncoder(e)
	e.DisableCompression = true

	e.Add("x-custom", "some-value-that-would-normally-compress")
	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(string(block), "some-value-that-would-normally-compress") {
		t.Fatalf("block = % x, want the value written as a plain literal", block)
	}

	d := AcquireDecoder()
	defer ReleaseDecoder(d)
	if _, err := d.Read(block); err != nil {
		t.Fatalf("Read: %v", err)
	}
	f := d.Store().At(0)
	if f.Value() != "some-value-that-would-normally-compress" {
		t.Fatalf("decoded value = %q", f.Value())
	}
}
