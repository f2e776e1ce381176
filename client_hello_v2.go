package sslhs

import "github.com/polarhs/sslhs/wire"

// parseClientHelloLegacy implements §4.C's SSLv2-compatible shape: no
// extensions, 3-byte ciphersuite entries, and a challenge that becomes
// the right-aligned client_random.
func (h *Handshake) parseClientHelloLegacy(fragment []byte) error {
	n := len(fragment)
	if n < 17 || n > 512 {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrBadClientHello, nil, "client_hello(v2): length out of bounds")
	}

	r := wire.NewReader(fragment)

	msgType, err := r.U8()
	if err != nil || msgType != msgTypeClientHello {
		return fail(ErrBadClientHello, err, "client_hello(v2): wrong message type")
	}
	major, err := r.U8()
	if err != nil || major != recordMajor {
		sendFatal(h.rl, alertProtocolVersion)
		return fail(ErrBadHsProtocolVersion, err, "client_hello(v2): bad major version")
	}
	peerMinor, err := r.U8()
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): bad minor version")
	}
	negotiatedMinor := minMinor(int(peerMinor), h.cfg.MaxMinor)
	if negotiatedMinor < h.cfg.MinMinor {
		sendFatal(h.rl, alertProtocolVersion)
		return fail(ErrBadHsProtocolVersion, nil, "client_hello(v2): version below configured minimum")
	}

	cipherLen, err := r.U16()
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): bad cipher_spec_length")
	}
	sessionLen, err := r.U16()
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): bad session_id_length")
	}
	challengeLen, err := r.U16()
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): bad challenge_length")
	}
	if cipherLen == 0 || cipherLen%3 != 0 {
		return fail(ErrBadClientHello, nil, "client_hello(v2): cipher_spec_length not a positive multiple of 3")
	}
	if sessionLen > 32 {
		return fail(ErrBadClientHello, nil, "client_hello(v2): session id too long")
	}
	if challengeLen < 8 || challengeLen > 32 {
		return fail(ErrBadClientHello, nil, "client_hello(v2): challenge length out of bounds")
	}

	cipherBytes, err := r.Bytes(int(cipherLen))
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): short cipher_specs")
	}
	sessionID, err := r.Bytes(int(sessionLen))
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): short session id")
	}
	challenge, err := r.Bytes(int(challengeLen))
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): short challenge")
	}
	if err := r.Done(); err != nil {
		return fail(ErrBadClientHello, err, "client_hello(v2): trailing data")
	}

	h.session.Major = recordMajor
	h.session.Minor = negotiatedMinor
	h.scratch.PeerMaxVersion = int(major)<<8 | int(peerMinor)
	h.session.SessionID = append([]byte(nil), sessionID...)
	h.session.Compression = compressionNull

	for i := range h.scratch.ClientRandom {
		h.scratch.ClientRandom[i] = 0
	}
	copy(h.scratch.ClientRandom[32-len(challenge):], challenge)

	clientCiphers := make([]CipherSuiteID, 0, len(cipherBytes)/3)
	scsvSeen := false
	for i := 0; i+2 < len(cipherBytes); i += 3 {
		b0, b1, b2 := cipherBytes[i], cipherBytes[i+1], cipherBytes[i+2]
		if [3]byte{b0, b1, b2} == legacySCSV {
			scsvSeen = true
			continue
		}
		if b0 != 0 {
			// High byte nonzero is an SSLv2-native cipher-kind marker, not
			// one of this engine's (EC-capable) suite IDs; §4.C restricts
			// legacy selection to high-byte-zero entries.
			continue
		}
		clientCiphers = append(clientCiphers, CipherSuiteID(uint16(b1)<<8|uint16(b2)))
	}
	if scsvSeen {
		h.secureRenegotiation = true
		h.clientSCSVSeen = true
	}
	h.renegInfoSeen = false

	if err := h.applyRenegotiationPolicy(); err != nil {
		return err
	}

	cs, ok := h.selectCipherSuite(clientCiphers, negotiatedMinor)
	if !ok {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrNoCipherChosen, nil, "client_hello(v2): no mutually acceptable ciphersuite")
	}
	h.session.CipherSuite = cs.ID
	h.scratch.KeyExchange = cs.KeyExchange

	// The legacy shape predates the handshake-message framing this
	// transcript otherwise accumulates verbatim; feeding the raw fragment
	// is a simplification a real record layer would instead reconstruct
	// as an equivalent modern ClientHello body before hashing.
	h.feedTranscript(fragment)
	return nil
}
