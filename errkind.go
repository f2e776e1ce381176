package sslhs

import (
	stderrors "errors"

	"github.com/polarhs/sslhs/errors"
)

// ErrKind is a closed set of the ways a handshake step can fail. Every
// parser and builder in this engine returns one of these wrapped in a
// *errors.Error via fail(kind, cause, ...) — callers use errors.Is
// against the sentinel to branch, and errors.LogErrorInner to log with
// full context.
type ErrKind int

const (
	// ErrBadClientHello covers any framing/length/field violation in
	// ClientHello or its extensions.
	ErrBadClientHello ErrKind = iota + 1
	// ErrBadHsProtocolVersion is returned when the negotiated version
	// falls below the configured minimum.
	ErrBadHsProtocolVersion
	// ErrBadClientKeyExchange covers framing errors in ClientKeyExchange.
	ErrBadClientKeyExchange
	// ErrBadClientKeyExchangeReadPublic is returned when the crypto
	// collaborator rejects a client public value (DH/ECDH).
	ErrBadClientKeyExchangeReadPublic
	// ErrBadClientKeyExchangeComputeSecret is returned when shared-secret
	// computation fails.
	ErrBadClientKeyExchangeComputeSecret
	// ErrBadCertificateVerify covers framing or signature failure in
	// CertificateVerify.
	ErrBadCertificateVerify
	// ErrNoCipherChosen is returned when no mutually acceptable
	// ciphersuite exists.
	ErrNoCipherChosen
	// ErrPrivateKeyRequired is returned when configuration is missing a
	// required key.
	ErrPrivateKeyRequired
	// ErrFeatureUnavailable is returned when negotiated parameters need a
	// collaborator that is not configured (DH/ECDH factory, transcript
	// hash).
	ErrFeatureUnavailable
	// ErrBadInputData is returned on API misuse (driver called in a
	// terminal state).
	ErrBadInputData
)

func (k ErrKind) String() string {
	switch k {
	case ErrBadClientHello:
		return "bad_client_hello"
	case ErrBadHsProtocolVersion:
		return "bad_hs_protocol_version"
	case ErrBadClientKeyExchange:
		return "bad_client_key_exchange"
	case ErrBadClientKeyExchangeReadPublic:
		return "bad_client_key_exchange_read_public"
	case ErrBadClientKeyExchangeComputeSecret:
		return "bad_client_key_exchange_compute_secret"
	case ErrBadCertificateVerify:
		return "bad_certificate_verify"
	case ErrNoCipherChosen:
		return "no_cipher_chosen"
	case ErrPrivateKeyRequired:
		return "private_key_required"
	case ErrFeatureUnavailable:
		return "feature_unavailable"
	case ErrBadInputData:
		return "bad_input_data"
	default:
		return "unknown"
	}
}

// kindSentinel is the value every ErrKind compares equal to via errors.Is;
// it carries the kind so a handler can recover it with errors.As.
type kindSentinel struct {
	kind ErrKind
}

func (s *kindSentinel) Error() string { return "sslhs: " + s.kind.String() }

func (s *kindSentinel) Is(target error) bool {
	var other *kindSentinel
	if stderrors.As(target, &other) {
		return other.kind == s.kind
	}
	return false
}

// fail builds a structured, Warning-severity error for the given kind —
// Warning, not Error, because every one of these is triggered by untrusted
// peer input, not an engine bug. cause may be nil.
func fail(kind ErrKind, cause error, msg ...interface{}) *errors.Error {
	e := errors.New(append([]interface{}{kind.String(), ": "}, msg...)...).AtWarning()
	base := error(&kindSentinel{kind: kind})
	if cause != nil {
		base = errors.Combine(base, cause)
	}
	return e.Base(base)
}

// Is reports whether err resulted from the given ErrKind.
func Is(err error, kind ErrKind) bool {
	return stderrors.Is(err, &kindSentinel{kind: kind})
}
