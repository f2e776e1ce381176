package primitives

import (
	"crypto"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/polarhs/sslhs"
)

// Transcript is the default sslhs.TranscriptHash: it keeps every byte fed
// to it and hashes on demand, rather than maintaining running hash.Hash
// state, so Clone is a cheap slice copy and SumWith can be asked for any
// algorithm after the fact (needed since the negotiated sig_alg isn't
// known until partway through the handshake).
type Transcript struct {
	buf []byte
}

func NewTranscript() *Transcript { return &Transcript{} }

func (t *Transcript) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	return len(p), nil
}

// Sum12 is the fixed MD5||SHA1 digest used below TLS 1.2.
func (t *Transcript) Sum12() []byte {
	md5sum := md5.Sum(t.buf)
	sha1sum := sha1.Sum(t.buf)
	out := make([]byte, 0, len(md5sum)+len(sha1sum))
	out = append(out, md5sum[:]...)
	out = append(out, sha1sum[:]...)
	return out
}

func (t *Transcript) SumWith(h crypto.Hash) []byte {
	switch h {
	case crypto.MD5:
		sum := md5.Sum(t.buf)
		return sum[:]
	case crypto.SHA1:
		sum := sha1.Sum(t.buf)
		return sum[:]
	case crypto.SHA224:
		sum := sha256.Sum224(t.buf)
		return sum[:]
	case crypto.SHA256:
		sum := sha256.Sum256(t.buf)
		return sum[:]
	case crypto.SHA384:
		sum := sha512.Sum384(t.buf)
		return sum[:]
	case crypto.SHA512:
		sum := sha512.Sum512(t.buf)
		return sum[:]
	case crypto.MD5SHA1:
		return t.Sum12()
	default:
		sum := sha1.Sum(t.buf)
		return sum[:]
	}
}

func (t *Transcript) Clone() sslhs.TranscriptHash {
	cp := make([]byte, len(t.buf))
	copy(cp, t.buf)
	return &Transcript{buf: cp}
}
