package sslhs

// stepServerHelloDone implements §4.D's empty-body ServerHelloDone and
// advances into the client response flight.
func (h *Handshake) stepServerHelloDone() error {
	msg := encodeHandshakeMessage(msgTypeServerHelloDone, nil)
	h.feedTranscript(msg)
	if err := h.rl.WriteHandshake(msgTypeServerHelloDone, nil); err != nil {
		return err
	}

	if h.cfg.AuthMode == AuthModeNone || h.scratch.KeyExchange.IsPSK() {
		h.state = stateClientKeyExchange
		return nil
	}
	h.state = stateClientCertificate
	return nil
}
