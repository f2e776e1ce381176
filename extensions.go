package sslhs

import (
	"bytes"
	"crypto"

	"github.com/polarhs/sslhs/wire"
)

// extensionID is the 16-bit identifier of a ClientHello extension.
type extensionID uint16

const (
	extServerName          extensionID = 0
	extSupportedGroups     extensionID = 10
	extECPointFormats      extensionID = 11
	extSignatureAlgorithms extensionID = 13
	extRenegotiationInfo   extensionID = 0xff01
)

const nameTypeHostName = 0

const (
	sigAlgRSA = 1

	hashMD5    = 1
	hashSHA1   = 2
	hashSHA224 = 3
	hashSHA256 = 4
	hashSHA384 = 5
	hashSHA512 = 6
)

func hashCodeToCryptoHash(code byte) (crypto.Hash, bool) {
	switch code {
	case hashMD5:
		return crypto.MD5, true
	case hashSHA1:
		return crypto.SHA1, true
	case hashSHA224:
		return crypto.SHA224, true
	case hashSHA256:
		return crypto.SHA256, true
	case hashSHA384:
		return crypto.SHA384, true
	case hashSHA512:
		return crypto.SHA512, true
	default:
		return 0, false
	}
}

// curvePreferenceOrder is the fixed server-side preference from §4.B.
var curvePreferenceOrder = []ECCurve{
	CurveSECP192R1, CurveSECP224R1, CurveSECP256R1, CurveSECP384R1, CurveSECP521R1,
}

const (
	pointFormatUncompressed         = 0
	pointFormatAnsiX962CompPrime    = 1
	pointFormatAnsiX962CompChar2    = 2
)

// unrecognizedNameError marks a server_name rejection by the SNI callback,
// so the caller knows to send UnrecognizedName rather than a generic
// handshake_failure alert.
type unrecognizedNameError struct {
	cause error
}

func (e *unrecognizedNameError) Error() string { return "sslhs: unrecognized server name" }
func (e *unrecognizedNameError) Unwrap() error { return e.cause }

// parseServerNameExtension walks the name list and, on the first
// host_name entry, invokes cb. A nil cb makes the extension a no-op, as
// §4.B requires.
func parseServerNameExtension(body []byte, cb SNICallback) error {
	if cb == nil {
		return nil
	}
	r := wire.NewReader(body)
	list, err := r.Vector16()
	if err != nil {
		return fail(ErrBadClientHello, err, "server_name: bad name list")
	}
	if err := r.Done(); err != nil {
		return fail(ErrBadClientHello, err, "server_name: trailing data")
	}
	for list.Len() > 0 {
		nameType, err := list.U8()
		if err != nil {
			return fail(ErrBadClientHello, err, "server_name: bad entry")
		}
		name, err := list.Vector16Bytes()
		if err != nil {
			return fail(ErrBadClientHello, err, "server_name: bad entry")
		}
		if nameType != nameTypeHostName {
			continue
		}
		hostname, err := validateAndNormalizeSNI(string(name))
		if err != nil {
			return &unrecognizedNameError{cause: err}
		}
		if err := cb([]byte(hostname)); err != nil {
			return &unrecognizedNameError{cause: err}
		}
		return nil
	}
	return nil
}

// parseRenegotiationInfoExtension checks the body per §4.B and reports
// whether secure renegotiation signalling was established. On a
// renegotiation, a matching verify_data body confirms the client is still
// playing along with the connection's existing signalling, but it does not
// itself upgrade a previously legacy connection to secure: priorSecure
// carries that persisted classification forward unchanged, matching how
// a matching renegotiation_info leaves a legacy connection legacy.
func parseRenegotiationInfoExtension(body []byte, renegotiating, priorSecure bool, peerVerifyData []byte) (secure bool, err error) {
	if !renegotiating {
		if len(body) != 1 || body[0] != 0 {
			return false, fail(ErrBadClientHello, nil, "renegotiation_info: non-empty on initial handshake")
		}
		return true, nil
	}
	expected := append([]byte{byte(len(peerVerifyData))}, peerVerifyData...)
	if !bytes.Equal(body, expected) {
		return false, fail(ErrBadClientHello, nil, "renegotiation_info: verify_data mismatch")
	}
	return priorSecure, nil
}

// parseSignatureAlgorithmsExtension returns the first hash, in the
// server's preference order, that the client offered paired with RSA.
func parseSignatureAlgorithmsExtension(body []byte, cfg *Config) (crypto.Hash, error) {
	r := wire.NewReader(body)
	list, err := r.Vector16()
	if err != nil {
		return 0, fail(ErrBadClientHello, err, "signature_algorithms: bad list")
	}
	if err := r.Done(); err != nil {
		return 0, fail(ErrBadClientHello, err, "signature_algorithms: trailing data")
	}
	if list.Len()%2 != 0 {
		return 0, fail(ErrBadClientHello, nil, "signature_algorithms: odd length")
	}
	offered := make(map[crypto.Hash]bool)
	for list.Len() > 0 {
		hashCode, err := list.U8()
		if err != nil {
			return 0, fail(ErrBadClientHello, err, "signature_algorithms: bad pair")
		}
		sigCode, err := list.U8()
		if err != nil {
			return 0, fail(ErrBadClientHello, err, "signature_algorithms: bad pair")
		}
		if sigCode != sigAlgRSA {
			continue
		}
		if h, ok := hashCodeToCryptoHash(hashCode); ok {
			offered[h] = true
		}
	}
	for _, h := range cfg.signaturePreference() {
		if offered[h] {
			return h, nil
		}
	}
	return 0, nil
}

// parseSupportedGroupsExtension returns the first curve, in server
// preference order, that the client also offered.
func parseSupportedGroupsExtension(body []byte) (ECCurve, bool, error) {
	r := wire.NewReader(body)
	list, err := r.Vector16()
	if err != nil {
		return 0, false, fail(ErrBadClientHello, err, "supported_groups: bad list")
	}
	if err := r.Done(); err != nil {
		return 0, false, fail(ErrBadClientHello, err, "supported_groups: trailing data")
	}
	if list.Len()%2 != 0 {
		return 0, false, fail(ErrBadClientHello, nil, "supported_groups: odd length")
	}
	offered := make(map[ECCurve]bool)
	for list.Len() > 0 {
		id, err := list.U16()
		if err != nil {
			return 0, false, fail(ErrBadClientHello, err, "supported_groups: bad entry")
		}
		offered[ECCurve(id)] = true
	}
	for _, c := range curvePreferenceOrder {
		if offered[c] {
			return c, true, nil
		}
	}
	return 0, false, nil
}

// parseECPointFormatsExtension returns the first acceptable point format.
// The list is 8-bit-length prefixed (length at offset 0, data at offset
// 1) — deliberately not the off-by-one reading some implementations use.
func parseECPointFormatsExtension(body []byte) (uint8, bool, error) {
	r := wire.NewReader(body)
	formats, err := r.Vector8Bytes()
	if err != nil {
		return 0, false, fail(ErrBadClientHello, err, "ec_point_formats: bad list")
	}
	if err := r.Done(); err != nil {
		return 0, false, fail(ErrBadClientHello, err, "ec_point_formats: trailing data")
	}
	for _, f := range formats {
		if f == pointFormatUncompressed || f == pointFormatAnsiX962CompPrime || f == pointFormatAnsiX962CompChar2 {
			return f, true, nil
		}
	}
	return 0, false, nil
}
