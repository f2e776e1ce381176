package sslhs

import (
	"crypto"
	"crypto/rsa"

	"github.com/polarhs/sslhs/wire"
)

// stepCertificateVerify implements §4.E's CertificateVerify parser. It is
// only reached when the driver decided client authentication applies
// (see stepClientKeyExchange); any failure here is fatal, unlike the RSA
// ClientKeyExchange path.
func (h *Handshake) stepCertificateVerify() error {
	msgType, body, err := h.rl.ReadHandshake()
	if err != nil {
		return err
	}
	if msgType != msgTypeCertificateVerify {
		sendFatal(h.rl, alertUnexpectedMessage)
		return fail(ErrBadCertificateVerify, nil, "certificate_verify: unexpected message type")
	}

	if h.scratch.Transcript == nil {
		return fail(ErrFeatureUnavailable, nil, "certificate_verify: no transcript-hash collaborator configured")
	}
	// calc_verify: the hash is taken over every handshake byte seen so
	// far, NOT including this message itself. At TLS 1.2 the hash is the
	// one the server named in CertificateRequest (VerifySigAlg), not the
	// server's own ServerKeyExchange signing preference (SigAlg).
	expectedHash := h.scratch.VerifySigAlg
	var expected []byte
	if h.session.Minor < MinorTLS12 {
		expected = h.scratch.Transcript.Clone().Sum12()
	} else {
		if expectedHash == 0 {
			expectedHash = crypto.SHA1
		}
		expected = h.scratch.Transcript.Clone().SumWith(expectedHash)
	}

	r := wire.NewReader(body)
	if h.session.Minor == MinorTLS12 {
		hashCode, err := r.U8()
		if err != nil {
			return failCertVerify(h, err)
		}
		sigCode, err := r.U8()
		if err != nil {
			return failCertVerify(h, err)
		}
		got, ok := hashCodeToCryptoHash(hashCode)
		if !ok || sigCode != sigAlgRSA || got != h.scratch.VerifySigAlg {
			sendFatal(h.rl, alertDecodeError)
			return fail(ErrBadCertificateVerify, nil, "certificate_verify: sig_alg mismatch with CertificateRequest")
		}
	}

	sig, err := r.Vector16Bytes()
	if err != nil {
		return failCertVerify(h, err)
	}
	if err := r.Done(); err != nil {
		return failCertVerify(h, err)
	}

	peerKey := h.session.PeerCertificate
	if peerKey == nil {
		return fail(ErrBadCertificateVerify, nil, "certificate_verify: no peer RSA key available")
	}
	modulusLen := (peerKey.Public().N.BitLen() + 7) / 8
	if len(sig) != modulusLen {
		sendFatal(h.rl, alertDecryptError)
		return fail(ErrBadCertificateVerify, nil, "certificate_verify: signature length inconsistent with peer key size")
	}

	if err := rsa.VerifyPKCS1v15(peerKey.Public(), expectedHashForVerify(h), expected, sig); err != nil {
		sendFatal(h.rl, alertDecryptError)
		return fail(ErrBadCertificateVerify, err, "certificate_verify: signature verification failed")
	}

	h.feedTranscript(encodeHandshakeMessage(msgType, body))
	h.state = stateClientChangeCipherSpec
	return nil
}

func failCertVerify(h *Handshake, err error) error {
	sendFatal(h.rl, alertDecodeError)
	return fail(ErrBadCertificateVerify, err, "certificate_verify: framing error")
}

func expectedHashForVerify(h *Handshake) crypto.Hash {
	if h.session.Minor < MinorTLS12 {
		return crypto.MD5SHA1
	}
	if h.scratch.VerifySigAlg == 0 {
		return crypto.SHA1
	}
	return h.scratch.VerifySigAlg
}
