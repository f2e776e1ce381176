// Package memcontrol pools and zeroes the short-lived secret buffers a
// handshake allocates (premaster secret, DH/ECDH scratch) so that key
// material never lingers in a buffer past its release point.
//
// This is a trimmed-down descendant of a general-purpose TLS buffer pool:
// the tiering idea and the zero-on-release discipline are kept, but the
// budget/eviction/OOM machinery that pool carried for a many-thousand
// connection proxy is not — a single handshake session never needs it.
package memcontrol

import "sync"

// Pool tiers sized for handshake secrets, not full records: 48 bytes covers
// an RSA/PSK premaster, 256 covers ECDH shared secrets up to P-521, 512
// covers the largest DHE group this engine negotiates.
const (
	Tier48B  = 48
	Tier256B = 256
	Tier512B = 512

	// MaxSecretSize is an upper size for handshake secrets. GetSecretBuffer
	// does not check it; every size above Tier512B is served untiered.
	MaxSecretSize = 4096
)

var (
	pool48B  = sync.Pool{}
	pool256B = sync.Pool{}
	pool512B = sync.Pool{}
)

// SecretBuffer is a pooled, zero-on-release scratch buffer for key material.
// Callers must call Release exactly once, on every exit path including
// error paths — the zero-capacity panic-recovery the original pool relied
// on to catch leaks is deliberately not replicated here: a handshake that
// forgets to release one of these is a bug to fix, not one to paper over.
type SecretBuffer struct {
	buf  []byte
	tier int
}

// GetSecretBuffer returns a buffer with length exactly size and capacity
// equal to the smallest tier that fits it. size > Tier512B allocates
// untiered (not returned to any pool on Release, just zeroed and dropped).
func GetSecretBuffer(size int) *SecretBuffer {
	var tier int
	var p *sync.Pool
	switch {
	case size <= Tier48B:
		tier, p = Tier48B, &pool48B
	case size <= Tier256B:
		tier, p = Tier256B, &pool256B
	case size <= Tier512B:
		tier, p = Tier512B, &pool512B
	default:
		return &SecretBuffer{buf: make([]byte, size), tier: 0}
	}

	if v := p.Get(); v != nil {
		b := v.([]byte)
		return &SecretBuffer{buf: b[:size], tier: tier}
	}
	return &SecretBuffer{buf: make([]byte, size, tier), tier: tier}
}

// Bytes returns the buffer's current contents.
func (s *SecretBuffer) Bytes() []byte {
	return s.buf
}

// Release zeroes the full backing array and, for tiered buffers, returns it
// to its pool. Safe to call on a nil *SecretBuffer (no-op) so defer
// Release() is always safe to write unconditionally.
func (s *SecretBuffer) Release() {
	if s == nil || s.buf == nil {
		return
	}
	full := s.buf[:cap(s.buf)]
	clear(full)
	switch s.tier {
	case Tier48B:
		pool48B.Put(full[:0])
	case Tier256B:
		pool256B.Put(full[:0])
	case Tier512B:
		pool512B.Put(full[:0])
	}
	s.buf = nil
}
