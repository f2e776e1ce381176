package sslhs

import (
	"github.com/polarhs/sslhs/memcontrol"
	"github.com/polarhs/sslhs/wire"
)

// stepClientKeyExchange implements §4.E's ClientKeyExchange parser,
// dispatching on the negotiated key-exchange family, then invokes the
// key-derivation collaborator and advances state.
func (h *Handshake) stepClientKeyExchange() error {
	msgType, body, err := h.rl.ReadHandshake()
	if err != nil {
		return err
	}
	if msgType != msgTypeClientKeyExchange {
		sendFatal(h.rl, alertUnexpectedMessage)
		return fail(ErrBadClientKeyExchange, nil, "client_key_exchange: unexpected message type")
	}
	h.feedTranscript(encodeHandshakeMessage(msgType, body))

	var parseErr error
	switch h.scratch.KeyExchange {
	case KeyExchangeRSA:
		parseErr = h.parseClientKeyExchangeRSA(body)
	case KeyExchangeDHE_RSA:
		parseErr = h.parseClientKeyExchangeDHE(body)
	case KeyExchangeECDHE_RSA:
		parseErr = h.parseClientKeyExchangeECDHE(body)
	case KeyExchangePSK:
		parseErr = h.parseClientKeyExchangePSK(body)
	case KeyExchangeDHE_PSK:
		parseErr = h.parseClientKeyExchangeDHEPSK(body)
	default:
		parseErr = fail(ErrBadClientKeyExchange, nil, "client_key_exchange: unhandled key-exchange family")
	}
	if parseErr != nil {
		return parseErr
	}

	deriveErr := h.keySched.DeriveKeys(h.scratch.Premaster.Bytes(), h.scratch.ClientRandom, h.scratch.ServerRandom, h.session.Minor)
	h.scratch.Premaster.Release()
	h.scratch.Premaster = nil
	if deriveErr != nil {
		return fail(ErrBadClientKeyExchangeComputeSecret, deriveErr, "client_key_exchange: key derivation failed")
	}

	if h.cfg.AuthMode != AuthModeNone && !h.scratch.KeyExchange.IsPSK() && h.session.PeerCertificate != nil {
		h.state = stateCertificateVerify
		return nil
	}
	h.state = stateClientChangeCipherSpec
	return nil
}

// parseClientKeyExchangeRSA implements the Bleichenbacher countermeasure:
// any failure (bad length, decrypt error, version mismatch) is absorbed
// by substituting 48 random bytes for the premaster and continuing,
// rather than distinguishing the failure to the peer.
func (h *Handshake) parseClientKeyExchangeRSA(body []byte) error {
	if h.cfg.RSAKey == nil {
		return fail(ErrPrivateKeyRequired, nil, "client_key_exchange: no RSA key configured")
	}
	modulusLen := (h.cfg.RSAKey.Public().N.BitLen() + 7) / 8

	var ciphertext []byte
	if h.session.Minor == MinorSSL30 {
		ciphertext = body
	} else {
		r := wire.NewReader(body)
		var err error
		ciphertext, err = r.Vector16Bytes()
		if err != nil || r.Done() != nil {
			ciphertext = nil
		}
	}

	h.scratch.Premaster = memcontrol.GetSecretBuffer(48)
	pms := h.scratch.Premaster.Bytes()

	ok := len(ciphertext) == modulusLen
	var decrypted []byte
	if ok {
		var decErr error
		decrypted, decErr = h.cfg.RSAKey.Decrypt(h.cfg.RNG, ciphertext)
		ok = decErr == nil && len(decrypted) == 48 &&
			int(decrypted[0])<<8|int(decrypted[1]) == h.scratch.PeerMaxVersion
	}

	if ok {
		copy(pms, decrypted)
	} else if _, err := h.cfg.RNG.Read(pms); err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: RNG failure building substitute premaster")
	}
	return nil
}

// parseClientKeyExchangeDHE reads (16-bit length, GY) and computes the DH
// shared secret into the premaster.
func (h *Handshake) parseClientKeyExchangeDHE(body []byte) error {
	dh := h.scratch.DH
	if dh == nil {
		return fail(ErrFeatureUnavailable, nil, "client_key_exchange: no DH collaborator configured")
	}
	r := wire.NewReader(body)
	gy, err := r.Vector16Bytes()
	if err != nil || len(gy) < 1 || len(gy) > len(h.cfg.DHGroup.P) {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: bad DH public value length")
	}
	if err := r.Done(); err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: trailing data")
	}
	if err := dh.ReadPublic(gy); err != nil {
		return fail(ErrBadClientKeyExchangeReadPublic, err, "client_key_exchange: DH public value rejected")
	}
	z, err := dh.ComputeSecret()
	if err != nil {
		return fail(ErrBadClientKeyExchangeComputeSecret, err, "client_key_exchange: DH shared-secret computation failed")
	}
	h.scratch.Premaster = memcontrol.GetSecretBuffer(len(z))
	copy(h.scratch.Premaster.Bytes(), z)
	return nil
}

// parseClientKeyExchangeECDHE reads an 8-bit-length point, bounded by
// 2*|P|+2, and runs ECDH.
func (h *Handshake) parseClientKeyExchangeECDHE(body []byte) error {
	ecdh := h.scratch.ECDH
	if ecdh == nil {
		return fail(ErrFeatureUnavailable, nil, "client_key_exchange: no ECDH collaborator configured")
	}
	r := wire.NewReader(body)
	point, err := r.Vector8Bytes()
	if err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: bad EC point")
	}
	if err := r.Done(); err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: trailing data")
	}
	if len(point) > 2*66+2 { // generous bound: largest supported curve is secp521r1, |P| = 66 bytes
		return fail(ErrBadClientKeyExchange, nil, "client_key_exchange: EC point too large")
	}
	if err := ecdh.ReadPublic(point); err != nil {
		return fail(ErrBadClientKeyExchangeReadPublic, err, "client_key_exchange: EC point rejected")
	}
	z, err := ecdh.ComputeSecret()
	if err != nil {
		return fail(ErrBadClientKeyExchangeComputeSecret, err, "client_key_exchange: ECDH shared-secret computation failed")
	}
	h.scratch.Premaster = memcontrol.GetSecretBuffer(len(z))
	copy(h.scratch.Premaster.Bytes(), z)
	return nil
}

// parseClientKeyExchangePSK reads the client's PSK identity and builds
// premaster = (16-bit psk_len, psk_len zero bytes, 16-bit psk_len, psk).
func (h *Handshake) parseClientKeyExchangePSK(body []byte) error {
	r := wire.NewReader(body)
	identity, err := r.Vector16Bytes()
	if err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: bad PSK identity")
	}
	if err := r.Done(); err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: trailing data")
	}
	if !constantTimeEqual(identity, h.cfg.PSKIdentity) {
		sendFatal(h.rl, alertUnknownCA)
		return fail(ErrBadClientKeyExchange, nil, "client_key_exchange: unknown PSK identity")
	}
	return h.buildPSKPremaster(nil)
}

// parseClientKeyExchangeDHEPSK parses identity then DH public, computes
// the DH shared secret Z, and builds
// premaster = (16-bit |Z|, Z, 16-bit psk_len, psk).
func (h *Handshake) parseClientKeyExchangeDHEPSK(body []byte) error {
	dh := h.scratch.DH
	if dh == nil {
		return fail(ErrFeatureUnavailable, nil, "client_key_exchange: no DH collaborator configured")
	}
	r := wire.NewReader(body)
	identity, err := r.Vector16Bytes()
	if err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: bad PSK identity")
	}
	if !constantTimeEqual(identity, h.cfg.PSKIdentity) {
		sendFatal(h.rl, alertUnknownCA)
		return fail(ErrBadClientKeyExchange, nil, "client_key_exchange: unknown PSK identity")
	}
	gy, err := r.Vector16Bytes()
	if err != nil || len(gy) < 1 || len(gy) > len(h.cfg.DHGroup.P) {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: bad DH public value length")
	}
	if err := r.Done(); err != nil {
		return fail(ErrBadClientKeyExchange, err, "client_key_exchange: trailing data")
	}
	if err := dh.ReadPublic(gy); err != nil {
		return fail(ErrBadClientKeyExchangeReadPublic, err, "client_key_exchange: DH public value rejected")
	}
	z, err := dh.ComputeSecret()
	if err != nil {
		return fail(ErrBadClientKeyExchangeComputeSecret, err, "client_key_exchange: DH shared-secret computation failed")
	}
	return h.buildPSKPremaster(z)
}

// buildPSKPremaster assembles the premaster for PSK (z == nil) or
// DHE-PSK (z the DH shared secret), per §4.E.
func (h *Handshake) buildPSKPremaster(z []byte) error {
	psk := h.cfg.PSKKey
	w := wire.NewWriter()
	if z != nil {
		w.Vector16Bytes(z)
	} else {
		w.Vector16Bytes(make([]byte, len(psk)))
	}
	w.Vector16Bytes(psk)
	body, err := w.Finish()
	if err != nil {
		return fail(ErrBadInputData, err, "client_key_exchange: PSK premaster encode failed")
	}
	h.scratch.Premaster = memcontrol.GetSecretBuffer(len(body))
	copy(h.scratch.Premaster.Bytes(), body)
	return nil
}

// constantTimeEqual compares two byte slices without early exit on
// mismatch, appropriate for comparing peer-supplied identity fields
// against configuration even though neither side is itself secret here.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
