package primitives

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"hash"

	"github.com/polarhs/sslhs"
)

// KeySchedule is the RFC 5246 §5 PRF-based default sslhs.KeyScheduler. It
// derives the master secret and then the full key block, and stores both
// in its MasterSecret and KeyBlock fields for a record layer to read.
//
// The legacy combined MD5+SHA1 PRF is used for every minor version below
// TLS 1.2, SSLv3 included. SSLv3's own key derivation (no RFC 5246 P_hash
// at all) is not implemented, so a session negotiated at SSLv3 (possible
// only when Config.MinMinor is MinorSSL30) gets TLS 1.0-style keys.
type KeySchedule struct {
	MasterSecret []byte
	KeyBlock     []byte

	// KeyBlockLen is how many bytes of key material to derive beyond the
	// master secret; callers that don't need a key block (e.g. tests that
	// only check master-secret derivation) may leave it zero.
	KeyBlockLen int
}

func NewKeySchedule(keyBlockLen int) *KeySchedule {
	return &KeySchedule{KeyBlockLen: keyBlockLen}
}

func (k *KeySchedule) DeriveKeys(premaster []byte, clientRandom, serverRandom [32]byte, minor int) error {
	seed := make([]byte, 0, 64)
	seed = append(seed, clientRandom[:]...)
	seed = append(seed, serverRandom[:]...)

	k.MasterSecret = prf(minor, premaster, []byte("master secret"), seed, 48)

	if k.KeyBlockLen > 0 {
		kbSeed := make([]byte, 0, 64)
		kbSeed = append(kbSeed, serverRandom[:]...)
		kbSeed = append(kbSeed, clientRandom[:]...)
		k.KeyBlock = prf(minor, k.MasterSecret, []byte("key expansion"), kbSeed, k.KeyBlockLen)
	}
	return nil
}

// prf implements RFC 5246 §5: P_SHA256 alone at TLS 1.2, or the legacy
// P_MD5 XOR P_SHA1 split below it.
func prf(minor int, secret, label, seed []byte, length int) []byte {
	ls := make([]byte, 0, len(label)+len(seed))
	ls = append(ls, label...)
	ls = append(ls, seed...)

	if minor >= sslhs.MinorTLS12 {
		return pHash(sha256.New, secret, ls, length)
	}

	half := (len(secret) + 1) / 2
	s1 := secret[:half]
	s2 := secret[len(secret)-half:]

	a := pHash(md5.New, s1, ls, length)
	b := pHash(sha1.New, s2, ls, length)
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// pHash is RFC 5246 §5's P_hash: HMAC(secret, A(i) || seed) chained from
// A(0) = seed.
func pHash(newHash func() hash.Hash, secret, seed []byte, length int) []byte {
	out := make([]byte, 0, length+newHash().Size())
	a := seed
	for len(out) < length {
		mac := hmac.New(newHash, secret)
		mac.Write(a)
		a = mac.Sum(nil)

		mac = hmac.New(newHash, secret)
		mac.Write(a)
		mac.Write(seed)
		out = append(out, mac.Sum(nil)...)
	}
	return out[:length]
}
