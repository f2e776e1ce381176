// Package wire provides bounds-checked decoding of the length-prefixed,
// big-endian fields that make up a TLS handshake message. It exists so
// that no parser in the engine ever computes a byte offset by hand —
// every read either consumes exactly what it declares or fails closed.
package wire

import (
	"errors"

	"golang.org/x/crypto/cryptobyte"
)

// ErrShortBuffer is returned by every Reader method when the underlying
// buffer has fewer bytes remaining than the field being read declares.
var ErrShortBuffer = errors.New("wire: short buffer")

// ErrTrailingData is returned by Done when bytes remain after the caller
// believed it had consumed the whole message.
var ErrTrailingData = errors.New("wire: trailing data")

// Reader decodes a handshake message body. It wraps cryptobyte.String,
// translating its boolean-failure reads into an explicit error so callers
// never have to re-derive "did this fail because of a bug or because the
// peer sent garbage" — it's always the latter.
type Reader struct {
	s cryptobyte.String
}

// NewReader constructs a Reader over buf. The Reader never mutates buf and
// never reads past its end.
func NewReader(buf []byte) *Reader {
	return &Reader{s: cryptobyte.String(buf)}
}

// Len returns the number of bytes not yet consumed.
func (r *Reader) Len() int { return len(r.s) }

// Done fails if any bytes remain unconsumed — used at the end of parsing a
// message whose total length was already validated against its own header.
func (r *Reader) Done() error {
	if len(r.s) != 0 {
		return ErrTrailingData
	}
	return nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	if !r.s.Skip(n) {
		return ErrShortBuffer
	}
	return nil
}

// U8 reads a single byte.
func (r *Reader) U8() (byte, error) {
	var v uint8
	if !r.s.ReadUint8(&v) {
		return 0, ErrShortBuffer
	}
	return v, nil
}

// U16 reads a 16-bit big-endian integer.
func (r *Reader) U16() (uint16, error) {
	var v uint16
	if !r.s.ReadUint16(&v) {
		return 0, ErrShortBuffer
	}
	return v, nil
}

// U24 reads a 24-bit big-endian integer (handshake-message length fields).
func (r *Reader) U24() (uint32, error) {
	var v uint32
	if !r.s.ReadUint24(&v) {
		return 0, ErrShortBuffer
	}
	return v, nil
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	var b []byte
	if !r.s.ReadBytes(&b, n) {
		return nil, ErrShortBuffer
	}
	return b, nil
}

// Vector8 reads a vector prefixed by an 8-bit length and returns a Reader
// scoped to exactly its body.
func (r *Reader) Vector8() (*Reader, error) {
	var body cryptobyte.String
	if !r.s.ReadUint8LengthPrefixed(&body) {
		return nil, ErrShortBuffer
	}
	return &Reader{s: body}, nil
}

// Vector16 reads a vector prefixed by a 16-bit length and returns a Reader
// scoped to exactly its body.
func (r *Reader) Vector16() (*Reader, error) {
	var body cryptobyte.String
	if !r.s.ReadUint16LengthPrefixed(&body) {
		return nil, ErrShortBuffer
	}
	return &Reader{s: body}, nil
}

// Vector8Bytes is Vector8 followed by draining the scoped Reader to a slice.
func (r *Reader) Vector8Bytes() ([]byte, error) {
	v, err := r.Vector8()
	if err != nil {
		return nil, err
	}
	return []byte(v.s), nil
}

// Vector16Bytes is Vector16 followed by draining the scoped Reader to a slice.
func (r *Reader) Vector16Bytes() ([]byte, error) {
	v, err := r.Vector16()
	if err != nil {
		return nil, err
	}
	return []byte(v.s), nil
}
