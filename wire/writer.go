package wire

import "golang.org/x/crypto/cryptobyte"

// Writer builds a handshake message body. It wraps cryptobyte.Builder so
// every length-prefixed field is correct by construction instead of by
// hand-counted offsets, the write-side counterpart to Reader.
type Writer struct {
	b *cryptobyte.Builder
}

// NewWriter constructs an empty Writer.
func NewWriter() *Writer { return &Writer{b: cryptobyte.NewBuilder(nil)} }

func (w *Writer) U8(v byte)      { w.b.AddUint8(v) }
func (w *Writer) U16(v uint16)   { w.b.AddUint16(v) }
func (w *Writer) U24(v uint32)   { w.b.AddUint24(v) }
func (w *Writer) Bytes(b []byte) { w.b.AddBytes(b) }

// Vector8 appends an 8-bit-length-prefixed field, built by fn against the
// raw cryptobyte.Builder scoped to it.
func (w *Writer) Vector8(fn func(b *cryptobyte.Builder)) {
	w.b.AddUint8LengthPrefixed(fn)
}

// Vector16 appends a 16-bit-length-prefixed field, built by fn against the
// raw cryptobyte.Builder scoped to it.
func (w *Writer) Vector16(fn func(b *cryptobyte.Builder)) {
	w.b.AddUint16LengthPrefixed(fn)
}

// Vector8Bytes appends an 8-bit-length-prefixed copy of data.
func (w *Writer) Vector8Bytes(data []byte) {
	w.b.AddUint8LengthPrefixed(func(inner *cryptobyte.Builder) { inner.AddBytes(data) })
}

// Vector16Bytes appends a 16-bit-length-prefixed copy of data.
func (w *Writer) Vector16Bytes(data []byte) {
	w.b.AddUint16LengthPrefixed(func(inner *cryptobyte.Builder) { inner.AddBytes(data) })
}

// Finish returns the built message. The Writer must not be reused after
// calling this.
func (w *Writer) Finish() ([]byte, error) { return w.b.Bytes() }
