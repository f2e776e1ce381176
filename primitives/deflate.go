package primitives

import (
	"compress/flate"
	"io"
)

// Deflate is the default sslhs.Compressor for the compressionDeflate
// method (spec §4.C step 5); a record layer wires this in only after the
// handshake has negotiated it.
type Deflate struct{}

func NewDeflate() *Deflate { return &Deflate{} }

func (Deflate) NewWriter(w io.Writer) io.WriteCloser {
	fw, _ := flate.NewWriter(w, flate.DefaultCompression)
	return fw
}

func (Deflate) NewReader(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}
