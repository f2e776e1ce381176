package sslhs

import "crypto"

// KeyExchange is the closed sum type the REDESIGN FLAGS section calls for:
// every module that branches on key-exchange family does so with a switch
// over this type. Go does not check these switches for exhaustiveness; a
// family a switch does not list falls to its default case, if it has one.
type KeyExchange int

const (
	KeyExchangeRSA KeyExchange = iota
	KeyExchangeDHE_RSA
	KeyExchangeECDHE_RSA
	KeyExchangePSK
	KeyExchangeDHE_PSK
)

func (k KeyExchange) String() string {
	switch k {
	case KeyExchangeRSA:
		return "RSA"
	case KeyExchangeDHE_RSA:
		return "DHE_RSA"
	case KeyExchangeECDHE_RSA:
		return "ECDHE_RSA"
	case KeyExchangePSK:
		return "PSK"
	case KeyExchangeDHE_PSK:
		return "DHE_PSK"
	default:
		return "unknown"
	}
}

// IsEphemeral reports whether the family needs a ServerKeyExchange message.
func (k KeyExchange) IsEphemeral() bool {
	return k == KeyExchangeDHE_RSA || k == KeyExchangeECDHE_RSA || k == KeyExchangeDHE_PSK
}

// IsPSK reports whether the family authenticates with a pre-shared key
// rather than a certificate.
func (k KeyExchange) IsPSK() bool {
	return k == KeyExchangePSK || k == KeyExchangeDHE_PSK
}

// IsEC reports whether the family requires a negotiated EC group.
func (k KeyExchange) IsEC() bool {
	return k == KeyExchangeECDHE_RSA
}

// CipherSuiteID is the 16-bit wire identifier for a ciphersuite.
type CipherSuiteID uint16

// sCSV is the signaling ciphersuite value from RFC 5746 §3.4: its presence
// in a ClientHello's cipher list is not a cipher choice, it's an in-band
// "I support secure renegotiation" signal.
const sCSV CipherSuiteID = 0x00FF

// legacySCSV is the SSLv2-compatible encoding of the same signal (3 bytes,
// high byte zero), used only by the legacy ClientHello path.
var legacySCSV = [3]byte{0x00, 0x00, 0xFF}

// CipherSuite describes one entry in the server's ordered preference list.
type CipherSuite struct {
	ID         CipherSuiteID
	KeyExchange
	Hash            crypto.Hash // MAC/PRF hash family for this suite (TLS 1.2); sha1 for <=1.1
	MinMinor        int
	MaxMinor        int
	CompiledIn      bool // gate for Config.Capabilities (REDESIGN FLAGS)
}

// Supports reports whether the suite may be negotiated at the given minor
// version and, for EC suites, whether an EC curve was selected.
func (cs CipherSuite) Supports(minor int, haveECCurve bool) bool {
	if minor < cs.MinMinor || minor > cs.MaxMinor {
		return false
	}
	if cs.KeyExchange.IsEC() && !haveECCurve {
		return false
	}
	return true
}

// builtinCipherSuites is the full catalogue of suites this engine knows how
// to negotiate. Config.CipherSuites (the server-preference order) is built
// by referencing entries from this table; a Config may omit entries to
// disable them without touching this table.
var builtinCipherSuites = []CipherSuite{
	{ID: 0x002F, KeyExchange: KeyExchangeRSA, Hash: crypto.SHA1, MinMinor: MinorSSL30, MaxMinor: MinorTLS12, CompiledIn: true},      // TLS_RSA_WITH_AES_128_CBC_SHA
	{ID: 0x0035, KeyExchange: KeyExchangeRSA, Hash: crypto.SHA1, MinMinor: MinorSSL30, MaxMinor: MinorTLS12, CompiledIn: true},      // TLS_RSA_WITH_AES_256_CBC_SHA
	{ID: 0x003C, KeyExchange: KeyExchangeRSA, Hash: crypto.SHA256, MinMinor: MinorTLS12, MaxMinor: MinorTLS12, CompiledIn: true},    // TLS_RSA_WITH_AES_128_CBC_SHA256
	{ID: 0x0033, KeyExchange: KeyExchangeDHE_RSA, Hash: crypto.SHA1, MinMinor: MinorSSL30, MaxMinor: MinorTLS12, CompiledIn: true},  // TLS_DHE_RSA_WITH_AES_128_CBC_SHA
	{ID: 0x0039, KeyExchange: KeyExchangeDHE_RSA, Hash: crypto.SHA1, MinMinor: MinorSSL30, MaxMinor: MinorTLS12, CompiledIn: true},  // TLS_DHE_RSA_WITH_AES_256_CBC_SHA
	{ID: 0x0067, KeyExchange: KeyExchangeDHE_RSA, Hash: crypto.SHA256, MinMinor: MinorTLS12, MaxMinor: MinorTLS12, CompiledIn: true}, // TLS_DHE_RSA_WITH_AES_128_CBC_SHA256
	{ID: 0xC013, KeyExchange: KeyExchangeECDHE_RSA, Hash: crypto.SHA1, MinMinor: MinorTLS10, MaxMinor: MinorTLS12, CompiledIn: true}, // TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA
	{ID: 0xC014, KeyExchange: KeyExchangeECDHE_RSA, Hash: crypto.SHA1, MinMinor: MinorTLS10, MaxMinor: MinorTLS12, CompiledIn: true}, // TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA
	{ID: 0xC027, KeyExchange: KeyExchangeECDHE_RSA, Hash: crypto.SHA256, MinMinor: MinorTLS12, MaxMinor: MinorTLS12, CompiledIn: true}, // TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256
	{ID: 0x008C, KeyExchange: KeyExchangePSK, Hash: crypto.SHA1, MinMinor: MinorTLS10, MaxMinor: MinorTLS12, CompiledIn: true},      // TLS_PSK_WITH_AES_128_CBC_SHA
	{ID: 0x0090, KeyExchange: KeyExchangeDHE_PSK, Hash: crypto.SHA1, MinMinor: MinorTLS10, MaxMinor: MinorTLS12, CompiledIn: true},  // TLS_DHE_PSK_WITH_AES_128_CBC_SHA
}

// lookupCipherSuite finds a suite by ID in the builtin catalogue.
func lookupCipherSuite(id CipherSuiteID) (CipherSuite, bool) {
	for _, cs := range builtinCipherSuites {
		if cs.ID == id {
			return cs, true
		}
	}
	return CipherSuite{}, false
}
