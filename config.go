package sslhs

import "crypto"

// AuthMode controls whether and how the server requests a client
// certificate.
type AuthMode int

const (
	AuthModeNone AuthMode = iota
	AuthModeOptional
	AuthModeRequired
)

// RenegotiationPolicy controls how the engine reacts to a peer that
// renegotiates without RFC 5746 secure-renegotiation signalling.
type RenegotiationPolicy int

const (
	// PolicyNoRenegotiation rejects any renegotiation attempt outright.
	PolicyNoRenegotiation RenegotiationPolicy = iota
	// PolicyAllowLegacy permits renegotiation without secure signalling.
	PolicyAllowLegacy
	// PolicyBreakHandshake fails the handshake the moment a legacy
	// (unsecured) peer is detected, even on the initial handshake.
	PolicyBreakHandshake
)

// Capabilities is a runtime set of compiled-in key-exchange families and
// features. What used to be POLARSSL_*_ENABLED compile-time flags in the
// source this spec was distilled from are ordinary boolean fields here. A
// disabled family is skipped during ciphersuite selection, so it is never
// negotiated; no ErrFeatureUnavailable is returned for it, and a client that
// offers only disabled families gets ErrNoCipherChosen.
type Capabilities struct {
	RSA       bool
	DHE_RSA   bool
	ECDHE_RSA bool
	PSK       bool
	DHE_PSK   bool
	Deflate   bool
	LegacyV2ClientHello bool
}

// DefaultCapabilities enables every key-exchange family this engine
// implements and disables the two opt-in legacy behaviors (DEFLATE
// compression, the SSLv2-compatible ClientHello shape).
func DefaultCapabilities() Capabilities {
	return Capabilities{
		RSA:       true,
		DHE_RSA:   true,
		ECDHE_RSA: true,
		PSK:       true,
		DHE_PSK:   true,
	}
}

func (c Capabilities) enabled(kx KeyExchange) bool {
	switch kx {
	case KeyExchangeRSA:
		return c.RSA
	case KeyExchangeDHE_RSA:
		return c.DHE_RSA
	case KeyExchangeECDHE_RSA:
		return c.ECDHE_RSA
	case KeyExchangePSK:
		return c.PSK
	case KeyExchangeDHE_PSK:
		return c.DHE_PSK
	default:
		return false
	}
}

// DHGroup is the server's configured Diffie-Hellman group (P, G).
type DHGroup struct {
	P []byte // big-endian modulus
	G []byte // big-endian generator
}

// Config holds everything the handshake engine needs but never mutates:
// the full "Configuration surface" of spec §6, gathered in one struct that
// is shared (read-only) across every session the caller drives.
type Config struct {
	MinMinor, MaxMinor int

	// CipherSuites is the server's ordered preference list per minor
	// version. Selection in MODULE C walks CipherSuites[minor] in order,
	// not the client's list.
	CipherSuites map[int][]CipherSuiteID

	Capabilities Capabilities

	DHGroup DHGroup

	// RSAKey signs (TLS <= 1.1 and 1.2 ServerKeyExchange) and decrypts
	// (RSA ClientKeyExchange). Required whenever a
	// non-PSK suite is enabled.
	RSAKey RSAKeyCollaborator

	// CAChain supplies the DN list for CertificateRequest.
	CAChain []CertificateEntry

	PSKIdentity []byte
	PSKKey      []byte

	AuthMode AuthMode

	RenegotiationPolicy RenegotiationPolicy

	SNICallback SNICallback

	SessionCache SessionCache

	RNG RandomSource

	// DHFactory and ECDHFactory construct a fresh per-handshake
	// collaborator instance for the ephemeral key-exchange families;
	// required whenever the corresponding Capabilities flag is set.
	DHFactory   func() DHCollaborator
	ECDHFactory func() ECDHCollaborator

	// SignaturePreference is the ordered hash preference used when
	// choosing sig_alg from the client's signature_algorithms extension
	// (spec §4.B); defaults to {SHA512, SHA384, SHA256, SHA224, SHA1, MD5}
	// restricted to CompiledHashes when left nil.
	SignaturePreference []crypto.Hash

	// CompiledHashes restricts SignaturePreference to hashes this build
	// actually links; nil means "all of SignaturePreference."
	CompiledHashes map[crypto.Hash]bool
}

// CertificateEntry is the minimal shape the CertificateRequest DN list
// needs from the CA chain; full chain parsing/emission is the external
// Certificate collaborator's job (spec §1).
type CertificateEntry struct {
	SubjectDN []byte // DER-encoded Name, as it goes on the wire verbatim
}

// DefaultConfig returns a conservative, TLS-1.0-through-1.2 configuration
// with every key-exchange family enabled and client authentication off
// (AuthModeNone) —
// callers are expected to override RSAKey, CAChain, and AuthMode for a
// real deployment.
func DefaultConfig() *Config {
	return &Config{
		MinMinor:     MinorTLS10,
		MaxMinor:     MinorTLS12,
		Capabilities: DefaultCapabilities(),
		CipherSuites: map[int][]CipherSuiteID{
			MinorTLS10: {0xC013, 0xC014, 0x0033, 0x0039, 0x002F, 0x0035, 0x008C, 0x0090},
			MinorTLS11: {0xC013, 0xC014, 0x0033, 0x0039, 0x002F, 0x0035, 0x008C, 0x0090},
			MinorTLS12: {0xC027, 0xC013, 0xC014, 0x0067, 0x0033, 0x0039, 0x003C, 0x002F, 0x0035, 0x008C, 0x0090},
		},
		AuthMode:             AuthModeNone,
		RenegotiationPolicy:  PolicyAllowLegacy,
		SignaturePreference:  []crypto.Hash{crypto.SHA512, crypto.SHA384, crypto.SHA256, crypto.SHA224, crypto.SHA1, crypto.MD5},
	}
}

// signaturePreference returns the effective, compiled-in-filtered hash
// preference order used by the signature_algorithms extension walk.
func (c *Config) signaturePreference() []crypto.Hash {
	pref := c.SignaturePreference
	if pref == nil {
		pref = []crypto.Hash{crypto.SHA512, crypto.SHA384, crypto.SHA256, crypto.SHA224, crypto.SHA1, crypto.MD5}
	}
	if c.CompiledHashes == nil {
		return pref
	}
	out := pref[:0:0]
	for _, h := range pref {
		if c.CompiledHashes[h] {
			out = append(out, h)
		}
	}
	return out
}

// suitesForMinor returns the server's preference list for minor, or nil.
func (c *Config) suitesForMinor(minor int) []CipherSuiteID {
	return c.CipherSuites[minor]
}
