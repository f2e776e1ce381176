package sslhs

import (
	"crypto"
	"crypto/rsa"
	"errors"
	"io"
)

// ErrWouldBlock is returned by RecordLayer methods when the transport has
// no more data right now; the driver's Step propagates it verbatim so the
// caller can re-invoke Step once more bytes are available. No handshake
// state is lost across this boundary.
var ErrWouldBlock = errors.New("sslhs: would block")

// RecordLayer is the external collaborator that frames, encrypts/MACs,
// fragments, and performs alert I/O (spec §1, out of scope for this
// engine). The engine only ever reads and writes whole handshake messages
// through it.
type RecordLayer interface {
	// ReadClientHello fetches and record-decodes the first handshake
	// message, which uniquely may arrive in either the modern shape or
	// the SSLv2-compatible legacy shape (spec §4.C); legacy reports which
	// one. For the modern shape fragment is the complete handshake
	// message (4-byte header plus body); for the legacy shape fragment is
	// the record payload after its 2-byte length, starting at the
	// message-type byte. Returns ErrWouldBlock if more bytes are needed.
	ReadClientHello() (legacy bool, fragment []byte, err error)
	// ReadHandshake returns the next handshake message's type byte and
	// body (header stripped), or ErrWouldBlock if it would need to block
	// to get more bytes.
	ReadHandshake() (msgType byte, body []byte, err error)
	// WriteHandshake buffers msgType/body for sending as a handshake
	// record; nothing is guaranteed on the wire until Flush.
	WriteHandshake(msgType byte, body []byte) error
	// SendAlert sends a single alert record immediately.
	SendAlert(level, description uint8) error
	// Flush pushes any buffered outbound records to the transport.
	Flush() error

	// ReadChangeCipherSpec consumes the peer's ChangeCipherSpec record and
	// switches the inbound cipher state. From here on ReadHandshake
	// returns plaintext recovered from the negotiated cipher.
	ReadChangeCipherSpec() error
	// WriteChangeCipherSpec emits a ChangeCipherSpec record and switches
	// the outbound cipher state.
	WriteChangeCipherSpec() error
	// ReadFinished verifies the peer's Finished verify_data against the
	// transcript hash and negotiated master secret, returning the
	// verify_data bytes for use in a renegotiation_info extension.
	ReadFinished(transcript TranscriptHash) (verifyData []byte, err error)
	// WriteFinished computes and sends this side's Finished message,
	// returning the verify_data bytes it sent.
	WriteFinished(transcript TranscriptHash) (verifyData []byte, err error)
}

// RSAKeyCollaborator is the server's RSA signing/decryption key (spec §1,
// §6): RSA primitives are an external collaborator, never implemented in
// this package.
type RSAKeyCollaborator interface {
	// Public returns the server's RSA public key (used to size encrypted
	// structures and, indirectly, by the peer to encrypt the PMS).
	Public() *rsa.PublicKey
	// Decrypt performs raw RSA decryption (PKCS#1 v1.5) of an
	// RSA-encrypted ClientKeyExchange payload.
	Decrypt(rand io.Reader, ciphertext []byte) ([]byte, error)
	// SignPKCS1v15 signs a digest of the ServerKeyExchange parameters.
	SignPKCS1v15(rand io.Reader, hash crypto.Hash, hashed []byte) ([]byte, error)
}

// PeerRSAKey is the minimal view this engine needs of the client
// certificate's public key, for verifying CertificateVerify. Certificate
// chain parsing itself is out of scope (spec §1); this is just the
// extracted key.
type PeerRSAKey interface {
	Public() *rsa.PublicKey
}

// DHCollaborator is the external DH primitive (spec §1, §6): parameter
// handling, key generation, and shared-secret computation for the server
// side of DHE-RSA / DHE-PSK.
type DHCollaborator interface {
	// LoadGroup installs the server's configured (P, G).
	LoadGroup(p, g []byte) error
	// MakePublic generates X and returns GX (the server's Ys).
	MakePublic(rand io.Reader) (gx []byte, err error)
	// ReadPublic validates and stores the peer's public value GY.
	ReadPublic(gy []byte) error
	// ComputeSecret derives K = GY^X mod P after ReadPublic.
	ComputeSecret() (k []byte, err error)
	// Params returns the server's configured (P, G) for ServerKeyExchange.
	Params() (p, g []byte)
	// Release scrubs the ephemeral private exponent and drops the group
	// parameters. Safe to call more than once; safe to call on a
	// collaborator that never generated a key pair.
	Release()
}

// ECCurve is a named elliptic curve group identifier (RFC 4492 §5.1.1).
type ECCurve uint16

const (
	CurveSECP192R1 ECCurve = 19
	CurveSECP224R1 ECCurve = 21
	CurveSECP256R1 ECCurve = 23
	CurveSECP384R1 ECCurve = 24
	CurveSECP521R1 ECCurve = 25
)

// ECDHCollaborator is the external ECDH primitive (spec §1, §6) for
// ECDHE-RSA.
type ECDHCollaborator interface {
	// UseCurve selects the negotiated named group.
	UseCurve(curve ECCurve) error
	// MakePublic generates the server's ephemeral key pair and returns its
	// encoded point.
	MakePublic(rand io.Reader) (point []byte, err error)
	// ReadPublic validates and stores the peer's encoded point.
	ReadPublic(point []byte) error
	// ComputeSecret derives the shared secret z after ReadPublic.
	ComputeSecret() (z []byte, err error)
	// Release drops the ephemeral private key and peer point. crypto/ecdh
	// keys are opaque, so this is a best-effort reference drop rather
	// than a byte-level scrub; it still stops the key from outliving the
	// handshake scratch that held it.
	Release()
}

// TranscriptHash accumulates every handshake byte exchanged (spec §3
// invariants) so CertificateVerify and Finished can be computed over it.
// update/copy/finalise semantics per spec §6.
type TranscriptHash interface {
	io.Writer
	// Sum12 returns the fixed 36-byte MD5||SHA1 digest used by
	// CertificateVerify/ServerKeyExchange signatures on TLS <= 1.1.
	Sum12() []byte
	// SumWith returns the digest under a specific hash algorithm, for
	// TLS 1.2's negotiated sig_alg.
	SumWith(h crypto.Hash) []byte
	// Clone returns an independent copy so a snapshot (e.g. for
	// CertificateVerify) doesn't perturb the running accumulator.
	Clone() TranscriptHash
}

// KeyScheduler is the external PRF-based key derivation routine (spec §1,
// §6): once premaster is established, the engine hands it off here and
// never touches it again.
type KeyScheduler interface {
	DeriveKeys(premaster []byte, clientRandom, serverRandom [32]byte, minor int) error
}

// SNICallback is invoked with the host_name from a server_name extension
// entry of type host_name, after validation and normalization (lower-cased,
// trailing dot removed, IDN labels in Punycode); a non-nil return is a fatal
// unrecognized_name condition (spec §4.B).
type SNICallback func(name []byte) error

// SessionCache is the external session-cache collaborator (spec §1, §6):
// lookup for resumption, and storage on a successful wrapup.
type SessionCache interface {
	Get(sessionID []byte) (*Session, bool)
	Set(session *Session)
}

// RandomSource is the caller-supplied RNG handle (spec §3 "Connection
// parameters"). Every place the engine needs randomness — server_random,
// fresh session IDs, the Bleichenbacher substitute premaster — reads from
// this, never from a package-global source.
type RandomSource = io.Reader

// Compressor is the optional DEFLATE collaborator a record layer applies
// once compressionDeflate has been negotiated (§4.C step 5). The core
// only ever records which compression method won; actually compressing
// or decompressing record payloads is the record layer's job, same as
// encryption is.
type Compressor interface {
	NewWriter(w io.Writer) io.WriteCloser
	NewReader(r io.Reader) io.ReadCloser
}
