package wire

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/cryptobyte"
)

func TestWriterBasics(t *testing.T) {
	w := NewWriter()
	w.U8(0x01)
	w.U16(0x0203)
	w.Vector16Bytes([]byte{0xAA, 0xBB})
	got, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x00, 0x02, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestWriterNestedVector(t *testing.T) {
	w := NewWriter()
	w.Vector16(func(b *cryptobyte.Builder) {
		b.AddUint8(1)
		b.AddUint8(2)
	})
	got, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	want := []byte{0x00, 0x02, 0x01, 0x02}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}
