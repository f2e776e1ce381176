package sslhs

import (
	"crypto"

	"github.com/polarhs/sslhs/memcontrol"
)

// Session is the negotiated identity of a connection: the subset of
// handshake state that survives across a handshake and is what a
// SessionCache stores and later resumes (spec §3 "Session state").
type Session struct {
	Major, Minor int
	SessionID    []byte
	CipherSuite  CipherSuiteID
	Compression  uint8

	// PeerCertificate is the external Certificate collaborator's parsed
	// result (spec §1); this engine never inspects more than its presence
	// and, for CertificateVerify, its public key.
	PeerCertificate PeerRSAKey

	MasterSecretSet bool
}

// clone returns a value copy safe to hand to a SessionCache.Set without
// aliasing the live session's SessionID slice.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.SessionID = append([]byte(nil), s.SessionID...)
	return &c
}

// HandshakeScratch is the ephemeral working state a single handshake
// attempt accumulates and that MUST be zeroized on every exit path (spec
// §3 "Connection parameters", §5). Nothing here survives past
// HANDSHAKE_OVER or an abort.
type HandshakeScratch struct {
	ClientRandom [32]byte
	ServerRandom [32]byte

	KeyExchange  KeyExchange
	SigAlg       crypto.Hash
	VerifySigAlg crypto.Hash

	ECCurve       ECCurve
	ECPointFormat uint8
	HaveECCurve   bool

	DH   DHCollaborator
	ECDH ECDHCollaborator

	// Premaster holds the raw premaster secret between ClientKeyExchange
	// and the call into KeyScheduler. Always released via Release(),
	// never left to the garbage collector.
	Premaster *memcontrol.SecretBuffer

	// PeerMaxVersion is the version byte-pair (major<<8 | minor) the peer
	// advertised in its ClientHello, kept for the Bleichenbacher version
	// check of the RSA ClientKeyExchange (spec SUPPLEMENTED FEATURES).
	PeerMaxVersion int

	Transcript TranscriptHash

	RenegotiationSecure bool
	ResumeRequested     bool

	DNTruncated bool
}

// Release zeroizes and frees everything in scratch that holds secret
// material. Safe to call multiple times and on a zero-value Scratch.
func (hs *HandshakeScratch) Release() {
	if hs == nil {
		return
	}
	hs.Premaster.Release()
	hs.Premaster = nil
	if hs.DH != nil {
		hs.DH.Release()
		hs.DH = nil
	}
	if hs.ECDH != nil {
		hs.ECDH.Release()
		hs.ECDH = nil
	}
	for i := range hs.ClientRandom {
		hs.ClientRandom[i] = 0
	}
	for i := range hs.ServerRandom {
		hs.ServerRandom[i] = 0
	}
}
