package hpacklog

import (
	"testing"

	"go.uber.org/zap"

	"github.com/dgrr/hpack"
)

func TestNopLoggerSatisfiesHPACKLogger(t *testing.T) {
	var l hpack.Logger = NopLogger{}
	l.Debugf("evicted %q", "x-test")
	l.Errorf("decode failed: %v", "boom")
}

func TestNewZapSatisfiesHPACKLogger(t *testing.T) {
	z := zap.NewNop()
	var l hpack.Logger = NewZap(z)
	l.Debugf("evicted %q", "x-test")
	l.Errorf("decode failed: %v", "boom")
}

func TestLoggerWiresIntoDecoder(t *testing.T) {
	d := hpack.AcquireDecoder()
	defer hpack.ReleaseDecoder(d)
	d.SetLogger(NopLogger{})

	e := hpack.AcquireEncoder()
	defer hpack.ReleaseEncoder(e)
	e.SetLogger(NewZap(zap.NewNop()))

	e.Add(":method", "GET")
	block, err := e.Write(nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := d.Read(block); err != nil {
		t.Fatalf("Read: %v", err)
	}
}
