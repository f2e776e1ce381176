package primitives

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"testing"
)

func TestRSAKeyDecryptRoundTrip(t *testing.T) {
	key, err := GenerateRSAKey(1024)
	if err != nil {
		t.Fatalf("GenerateRSAKey: %v", err)
	}

	plaintext := []byte("a 48-byte premaster secret goes here, padded.")
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, key.Public(), plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	got, err := key.Decrypt(rand.Reader, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestRSAKeySignVerifyRoundTrip(t *testing.T) {
	key, err := GenerateRSAKey(1024)
	if err != nil {
		t.Fatalf("GenerateRSAKey: %v", err)
	}
	digest := sha256.Sum256([]byte("some handshake transcript bytes"))

	sig, err := key.SignPKCS1v15(rand.Reader, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("SignPKCS1v15: %v", err)
	}

	if err := rsa.VerifyPKCS1v15(key.Public(), crypto.SHA256, digest[:], sig); err != nil {
		t.Fatalf("signature did not verify: %v", err)
	}
}

func TestPeerKeyExposesPublic(t *testing.T) {
	key, err := GenerateRSAKey(1024)
	if err != nil {
		t.Fatalf("GenerateRSAKey: %v", err)
	}
	peer := NewPeerKey(key.Public())
	if peer.Public() != key.Public() {
		t.Fatal("PeerKey.Public() did not return the wrapped key")
	}
}
