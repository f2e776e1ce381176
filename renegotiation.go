package sslhs

// applyRenegotiationPolicy realises the four outcomes of §4.G, evaluated
// once per ClientHello after the extension walk has settled
// secureRenegotiation and renegInfoSeen.
func (h *Handshake) applyRenegotiationPolicy() error {
	isLegacyPeer := !h.secureRenegotiation

	if isLegacyPeer && h.cfg.RenegotiationPolicy == PolicyBreakHandshake {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrBadClientHello, nil, "renegotiation policy: legacy peer rejected by break_handshake")
	}

	if !h.renegotiating {
		return nil
	}

	if h.priorSecure && !h.renegInfoSeen {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrBadClientHello, nil, "renegotiation policy: secure downgrade attempt")
	}
	if isLegacyPeer && h.cfg.RenegotiationPolicy == PolicyNoRenegotiation {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrBadClientHello, nil, "renegotiation policy: legacy renegotiation disabled")
	}
	if isLegacyPeer && h.renegInfoSeen {
		sendFatal(h.rl, alertHandshakeFailure)
		return fail(ErrBadClientHello, nil, "renegotiation policy: illegal signalling combination")
	}
	return nil
}
