package sslhs

import (
	stderrors "errors"

	"github.com/polarhs/sslhs/wire"
)

// stepClientHello reads the first (or a renegotiated) ClientHello and
// advances to SERVER_HELLO, or fails the handshake per §4.C/§4.G.
func (h *Handshake) stepClientHello() error {
	legacy, fragment, err := h.rl.ReadClientHello()
	if err != nil {
		if stderrors.Is(err, ErrWouldBlock) {
			return err
		}
		return fail(ErrBadClientHello, err, "client_hello: read failed")
	}

	if legacy {
		if !h.cfg.Capabilities.LegacyV2ClientHello || h.renegotiating {
			sendFatal(h.rl, alertHandshakeFailure)
			return fail(ErrBadClientHello, nil, "client_hello: legacy shape not permitted here")
		}
		if err := h.parseClientHelloLegacy(fragment); err != nil {
			return err
		}
	} else {
		h.feedTranscript(fragment)
		if err := h.parseClientHelloModern(fragment); err != nil {
			return err
		}
	}

	h.state = stateServerHello
	return nil
}

// parseClientHelloModern implements §4.C's modern-shape steps 2-10 (step 1,
// the outer record fetch, already happened in ReadClientHello).
func (h *Handshake) parseClientHelloModern(fragment []byte) error {
	n := len(fragment)
	if n < 45 || n > 512 {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrBadClientHello, nil, "client_hello: length out of bounds")
	}

	r := wire.NewReader(fragment)

	msgType, err := r.U8()
	if err != nil || msgType != msgTypeClientHello {
		return fail(ErrBadClientHello, err, "client_hello: wrong message type")
	}
	hsLen, err := r.U24()
	if err != nil || int(hsLen) != n-4 {
		return fail(ErrBadClientHello, err, "client_hello: length field mismatch")
	}

	major, err := r.U8()
	if err != nil || major != recordMajor {
		sendFatal(h.rl, alertProtocolVersion)
		return fail(ErrBadHsProtocolVersion, err, "client_hello: bad major version")
	}
	peerMinor, err := r.U8()
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello: bad minor version")
	}
	negotiatedMinor := minMinor(int(peerMinor), h.cfg.MaxMinor)
	if negotiatedMinor < h.cfg.MinMinor {
		sendFatal(h.rl, alertProtocolVersion)
		return fail(ErrBadHsProtocolVersion, nil, "client_hello: version below configured minimum")
	}
	h.session.Major = recordMajor
	h.session.Minor = negotiatedMinor
	h.scratch.PeerMaxVersion = int(major)<<8 | int(peerMinor)

	random, err := r.Bytes(32)
	if err != nil {
		return fail(ErrBadClientHello, err, "client_hello: short client_random")
	}
	copy(h.scratch.ClientRandom[:], random)

	sessionID, err := r.Vector8Bytes()
	if err != nil || len(sessionID) > 32 {
		return fail(ErrBadClientHello, err, "client_hello: bad session id")
	}
	h.session.SessionID = sessionID

	cipherBytes, err := r.Vector16Bytes()
	if err != nil || len(cipherBytes) < 2 || len(cipherBytes) > 256 || len(cipherBytes)%2 != 0 {
		return fail(ErrBadClientHello, err, "client_hello: bad cipher_suites length")
	}
	clientCiphers := make([]CipherSuiteID, 0, len(cipherBytes)/2)
	for i := 0; i+1 < len(cipherBytes); i += 2 {
		id := CipherSuiteID(uint16(cipherBytes[i])<<8 | uint16(cipherBytes[i+1]))
		if id == sCSV {
			if h.renegotiating {
				sendFatal(h.rl, alertHandshakeFailure)
				return fail(ErrBadClientHello, nil, "client_hello: SCSV during renegotiation")
			}
			h.secureRenegotiation = true
			h.clientSCSVSeen = true
			continue
		}
		clientCiphers = append(clientCiphers, id)
	}

	compression, err := r.Vector8Bytes()
	if err != nil || len(compression) < 1 || len(compression) > 16 {
		return fail(ErrBadClientHello, err, "client_hello: bad compression_methods length")
	}
	chosenCompression := uint8(compressionNull)
	if h.cfg.Capabilities.Deflate {
		for _, m := range compression {
			if m == compressionDeflate {
				chosenCompression = compressionDeflate
				break
			}
		}
	}
	h.session.Compression = chosenCompression

	h.renegInfoSeen = false
	if r.Len() > 0 {
		extList, err := r.Vector16Bytes()
		if err != nil {
			return fail(ErrBadClientHello, err, "client_hello: bad extensions length")
		}
		if err := r.Done(); err != nil {
			return fail(ErrBadClientHello, err, "client_hello: trailing data")
		}
		if err := h.walkExtensions(extList); err != nil {
			return err
		}
	} else if err := r.Done(); err != nil {
		return fail(ErrBadClientHello, err, "client_hello: trailing data")
	}

	if err := h.applyRenegotiationPolicy(); err != nil {
		return err
	}

	cs, ok := h.selectCipherSuite(clientCiphers, negotiatedMinor)
	if !ok {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrNoCipherChosen, nil, "client_hello: no mutually acceptable ciphersuite")
	}
	h.session.CipherSuite = cs.ID
	h.scratch.KeyExchange = cs.KeyExchange
	return nil
}

// walkExtensions dispatches each (id, length)-prefixed extension body to
// §4.B, rejecting 1..3 bytes of unconsumed slack as a protocol error.
func (h *Handshake) walkExtensions(extList []byte) error {
	r := wire.NewReader(extList)
	for r.Len() > 0 {
		if r.Len() < 4 {
			return fail(ErrBadClientHello, nil, "extensions: trailing slack")
		}
		id, err := r.U16()
		if err != nil {
			return fail(ErrBadClientHello, err, "extensions: bad header")
		}
		body, err := r.Vector16Bytes()
		if err != nil {
			return fail(ErrBadClientHello, err, "extensions: bad body length")
		}

		switch extensionID(id) {
		case extServerName:
			if err := parseServerNameExtension(body, h.cfg.SNICallback); err != nil {
				var une *unrecognizedNameError
				if stderrors.As(err, &une) {
					sendFatal(h.rl, alertUnrecognizedName)
				} else {
					sendFatal(h.rl, alertHandshakeFailure)
				}
				return fail(ErrBadClientHello, err, "extensions: server_name rejected")
			}
		case extRenegotiationInfo:
			secure, err := parseRenegotiationInfoExtension(body, h.renegotiating, h.priorSecure, h.peerVerifyData)
			if err != nil {
				sendFatal(h.rl, alertHandshakeFailure)
				return err
			}
			h.secureRenegotiation = secure
			h.renegInfoSeen = true
		case extSignatureAlgorithms:
			sigAlg, err := parseSignatureAlgorithmsExtension(body, h.cfg)
			if err != nil {
				return err
			}
			h.scratch.SigAlg = sigAlg
		case extSupportedGroups:
			curve, ok, err := parseSupportedGroupsExtension(body)
			if err != nil {
				return err
			}
			if ok {
				h.scratch.ECCurve = curve
				h.scratch.HaveECCurve = true
			}
		case extECPointFormats:
			pf, ok, err := parseECPointFormatsExtension(body)
			if err != nil {
				return err
			}
			if ok {
				h.scratch.ECPointFormat = pf
			}
		default:
			// Unknown extensions are skipped per §4.B.
		}
	}
	return nil
}

// selectCipherSuite walks the server's preference list for minor and
// returns the first entry also advertised by the client (§4.C step 9).
func (h *Handshake) selectCipherSuite(clientCiphers []CipherSuiteID, minor int) (CipherSuite, bool) {
	for _, id := range h.cfg.suitesForMinor(minor) {
		cs, ok := lookupCipherSuite(id)
		if !ok || !cs.CompiledIn {
			continue
		}
		if !h.cfg.Capabilities.enabled(cs.KeyExchange) {
			continue
		}
		if !cs.Supports(minor, h.scratch.HaveECCurve) {
			continue
		}
		for _, clientID := range clientCiphers {
			if clientID == id {
				return cs, true
			}
		}
	}
	return CipherSuite{}, false
}
