package sslhs

import (
	"crypto"

	"github.com/polarhs/sslhs/wire"
)

// stepServerKeyExchange implements §4.D's ServerKeyExchange builder. It is
// skipped entirely for the non-ephemeral families, which simply advance.
func (h *Handshake) stepServerKeyExchange() error {
	kx := h.scratch.KeyExchange
	if !kx.IsEphemeral() {
		h.state = stateCertificateRequest
		return nil
	}

	w := wire.NewWriter()

	if kx.IsPSK() {
		// Empty PSK identity hint (spec §4.D).
		w.Vector16Bytes(nil)
	}

	var params []byte
	switch kx {
	case KeyExchangeDHE_RSA, KeyExchangeDHE_PSK:
		if h.scratch.DH == nil {
			if h.cfg.DHFactory == nil {
				return fail(ErrFeatureUnavailable, nil, "server_key_exchange: no DH collaborator factory configured")
			}
			h.scratch.DH = h.cfg.DHFactory()
		}
		dh := h.scratch.DH
		if err := dh.LoadGroup(h.cfg.DHGroup.P, h.cfg.DHGroup.G); err != nil {
			return fail(ErrBadInputData, err, "server_key_exchange: bad configured DH group")
		}
		gx, err := dh.MakePublic(h.cfg.RNG)
		if err != nil {
			return fail(ErrBadInputData, err, "server_key_exchange: DH key generation failed")
		}
		dhW := wire.NewWriter()
		dhW.Vector16Bytes(h.cfg.DHGroup.P)
		dhW.Vector16Bytes(h.cfg.DHGroup.G)
		dhW.Vector16Bytes(gx)
		var err2 error
		params, err2 = dhW.Finish()
		if err2 != nil {
			return fail(ErrBadInputData, err2, "server_key_exchange: DH param encode failed")
		}
	case KeyExchangeECDHE_RSA:
		if h.scratch.ECDH == nil {
			if h.cfg.ECDHFactory == nil {
				return fail(ErrFeatureUnavailable, nil, "server_key_exchange: no ECDH collaborator factory configured")
			}
			h.scratch.ECDH = h.cfg.ECDHFactory()
		}
		ecdh := h.scratch.ECDH
		if err := ecdh.UseCurve(h.scratch.ECCurve); err != nil {
			return fail(ErrBadInputData, err, "server_key_exchange: curve setup failed")
		}
		point, err := ecdh.MakePublic(h.cfg.RNG)
		if err != nil {
			return fail(ErrBadInputData, err, "server_key_exchange: ECDH key generation failed")
		}
		ecW := wire.NewWriter()
		ecW.U8(3) // ECCurveType named_curve
		ecW.U16(uint16(h.scratch.ECCurve))
		ecW.Vector8Bytes(point)
		var err2 error
		params, err2 = ecW.Finish()
		if err2 != nil {
			return fail(ErrBadInputData, err2, "server_key_exchange: ECDH param encode failed")
		}
	}
	w.Bytes(params)

	if !kx.IsPSK() {
		sig, sigAlg, err := h.signServerParams(params)
		if err != nil {
			return err
		}
		if h.session.Minor == MinorTLS12 {
			w.U8(hashCodeFor(sigAlg))
			w.U8(sigAlgRSA)
		}
		w.Vector16Bytes(sig)
	}

	body, err := w.Finish()
	if err != nil {
		return fail(ErrBadInputData, err, "server_key_exchange: encode failed")
	}

	msg := encodeHandshakeMessage(msgTypeServerKeyExchange, body)
	h.feedTranscript(msg)
	if err := h.rl.WriteHandshake(msgTypeServerKeyExchange, body); err != nil {
		return err
	}
	h.state = stateCertificateRequest
	return nil
}

// signServerParams signs client_random || server_random || params per
// §4.D: the fixed MD5+SHA1 digest below TLS 1.2, or the negotiated
// sig_alg at TLS 1.2. Digesting always goes through the transcript-hash
// collaborator (a scratch copy, so the running transcript itself is
// untouched) — this core never calls a raw hash primitive directly.
func (h *Handshake) signServerParams(params []byte) (sig []byte, hash crypto.Hash, err error) {
	if h.cfg.RSAKey == nil {
		return nil, 0, fail(ErrPrivateKeyRequired, nil, "server_key_exchange: no RSA key configured")
	}
	if h.scratch.Transcript == nil {
		return nil, 0, fail(ErrFeatureUnavailable, nil, "server_key_exchange: no transcript-hash collaborator configured")
	}
	signed := make([]byte, 0, 64+len(params))
	signed = append(signed, h.scratch.ClientRandom[:]...)
	signed = append(signed, h.scratch.ServerRandom[:]...)
	signed = append(signed, params...)

	clone := h.scratch.Transcript.Clone()
	clone.Write(signed)

	if h.session.Minor < MinorTLS12 {
		sigBytes, err := h.cfg.RSAKey.SignPKCS1v15(h.cfg.RNG, crypto.MD5SHA1, clone.Sum12())
		return sigBytes, crypto.MD5SHA1, err
	}

	hash = h.scratch.SigAlg
	if hash == 0 {
		hash = crypto.SHA1
	}
	sigBytes, err := h.cfg.RSAKey.SignPKCS1v15(h.cfg.RNG, hash, clone.SumWith(hash))
	return sigBytes, hash, err
}

func hashCodeFor(h crypto.Hash) byte {
	switch h {
	case crypto.MD5:
		return hashMD5
	case crypto.SHA1, crypto.MD5SHA1:
		return hashSHA1
	case crypto.SHA224:
		return hashSHA224
	case crypto.SHA256:
		return hashSHA256
	case crypto.SHA384:
		return hashSHA384
	case crypto.SHA512:
		return hashSHA512
	default:
		return hashSHA1
	}
}
