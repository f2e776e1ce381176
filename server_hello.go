package sslhs

import (
	"encoding/binary"
	"time"

	"github.com/polarhs/sslhs/wire"
	"golang.org/x/crypto/cryptobyte"
)

// stepServerHello implements §4.D's ServerHello builder, including the
// session-cache resumption shortcut that jumps straight to
// SERVER_CHANGE_CIPHER_SPEC.
func (h *Handshake) stepServerHello() error {
	if !h.renegotiating && h.cfg.SessionCache != nil && len(h.session.SessionID) > 0 {
		if cached, ok := h.cfg.SessionCache.Get(h.session.SessionID); ok {
			minor := h.session.Minor
			*h.session = *cached.clone()
			h.session.Major = recordMajor
			h.session.Minor = minor
			h.resumed = true
		}
	}

	if !h.resumed {
		sessionID := make([]byte, 32)
		if _, err := h.cfg.RNG.Read(sessionID); err != nil {
			return fail(ErrBadInputData, err, "server_hello: RNG failure generating session id")
		}
		h.session.SessionID = sessionID
	}

	if _, err := h.cfg.RNG.Read(h.scratch.ServerRandom[4:]); err != nil {
		return fail(ErrBadInputData, err, "server_hello: RNG failure generating server_random")
	}
	binary.BigEndian.PutUint32(h.scratch.ServerRandom[:4], uint32(time.Now().Unix()))

	w := wire.NewWriter()
	w.U8(recordMajor)
	w.U8(byte(h.session.Minor))
	w.Bytes(h.scratch.ServerRandom[:])
	w.Vector8Bytes(h.session.SessionID)
	w.U16(uint16(h.session.CipherSuite))
	w.U8(h.session.Compression)

	if h.secureRenegotiation {
		w.Vector16(func(b *cryptobyte.Builder) {
			b.AddUint16(uint16(extRenegotiationInfo))
			b.AddUint16LengthPrefixed(func(inner *cryptobyte.Builder) {
				inner.AddUint8LengthPrefixed(func(data *cryptobyte.Builder) {
					data.AddBytes(h.ownVerifyData)
					data.AddBytes(h.peerVerifyData)
				})
			})
		})
	}

	body, err := w.Finish()
	if err != nil {
		return fail(ErrBadInputData, err, "server_hello: encode failed")
	}

	msg := encodeHandshakeMessage(msgTypeServerHello, body)
	h.feedTranscript(msg)
	if err := h.rl.WriteHandshake(msgTypeServerHello, body); err != nil {
		return err
	}

	if h.resumed {
		if err := h.keySched.DeriveKeys(nil, h.scratch.ClientRandom, h.scratch.ServerRandom, h.session.Minor); err != nil {
			return fail(ErrBadInputData, err, "server_hello: resumed key derivation failed")
		}
		h.state = stateServerChangeCipherSpec
		return nil
	}

	h.state = stateServerCertificate
	return nil
}
