// Package primitives provides stdlib-backed default implementations of
// the crypto and compression collaborators the handshake engine declares
// as interfaces. Nothing in package sslhs imports this package; it exists
// so the engine is exercisable end to end without requiring every caller
// to supply its own RSA/DH/ECDH/hash/PRF backend.
package primitives

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"io"
)

// RSAKey wraps an *rsa.PrivateKey as an sslhs.RSAKeyCollaborator.
type RSAKey struct {
	priv *rsa.PrivateKey
}

// NewRSAKey constructs a collaborator from an existing private key.
func NewRSAKey(priv *rsa.PrivateKey) *RSAKey {
	return &RSAKey{priv: priv}
}

// GenerateRSAKey is a convenience for tests that don't have a real key on
// hand.
func GenerateRSAKey(bits int) (*RSAKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return &RSAKey{priv: priv}, nil
}

func (k *RSAKey) Public() *rsa.PublicKey { return &k.priv.PublicKey }

func (k *RSAKey) Decrypt(rnd io.Reader, ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rnd, k.priv, ciphertext)
}

func (k *RSAKey) SignPKCS1v15(rnd io.Reader, hash crypto.Hash, hashed []byte) ([]byte, error) {
	return rsa.SignPKCS1v15(rnd, k.priv, hash, hashed)
}

// PeerKey wraps an *rsa.PublicKey as an sslhs.PeerRSAKey, for tests that
// need to hand the engine a client certificate's key without parsing a
// real certificate.
type PeerKey struct {
	pub *rsa.PublicKey
}

func NewPeerKey(pub *rsa.PublicKey) *PeerKey { return &PeerKey{pub: pub} }

func (k *PeerKey) Public() *rsa.PublicKey { return k.pub }
