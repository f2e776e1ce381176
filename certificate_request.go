package sslhs

import (
	"context"
	"crypto"

	"github.com/polarhs/sslhs/errors"
	"github.com/polarhs/sslhs/wire"
)

const certTypeRSASign = 1

// maxCertificateRequestDNBytes bounds the aggregate DN-list output per
// §4.D; entries beyond this are dropped rather than overflowing the
// message.
const maxCertificateRequestDNBytes = 4096

// stepCertificateRequest implements §4.D's CertificateRequest builder,
// skipped for PSK families and when no client authentication is wanted.
func (h *Handshake) stepCertificateRequest() error {
	if h.scratch.KeyExchange.IsPSK() || h.cfg.AuthMode == AuthModeNone {
		h.state = stateServerHelloDone
		return nil
	}

	w := wire.NewWriter()
	w.Vector8Bytes([]byte{certTypeRSASign})

	if h.session.Minor == MinorTLS12 {
		verifyHash := crypto.SHA256
		if cs, ok := lookupCipherSuite(h.session.CipherSuite); ok && cs.Hash == crypto.SHA384 {
			verifyHash = crypto.SHA384
		}
		h.scratch.VerifySigAlg = verifyHash
		w.Vector16Bytes([]byte{hashCodeFor(verifyHash), sigAlgRSA})
	}

	h.dnTruncated = false
	dnTotal := 0
	dnBody := wire.NewWriter()
	for _, ca := range h.cfg.CAChain {
		entryLen := 2 + len(ca.SubjectDN)
		if dnTotal+entryLen > maxCertificateRequestDNBytes {
			h.dnTruncated = true
			break
		}
		dnBody.Vector16Bytes(ca.SubjectDN)
		dnTotal += entryLen
	}
	dnBytes, err := dnBody.Finish()
	if err != nil {
		return fail(ErrBadInputData, err, "certificate_request: DN list encode failed")
	}
	w.Vector16Bytes(dnBytes)

	if h.dnTruncated {
		errors.LogWarning(context.Background(), "certificate_request: CA chain DN list truncated at configured byte bound")
	}

	body, err := w.Finish()
	if err != nil {
		return fail(ErrBadInputData, err, "certificate_request: encode failed")
	}

	msg := encodeHandshakeMessage(msgTypeCertificateRequest, body)
	h.feedTranscript(msg)
	if err := h.rl.WriteHandshake(msgTypeCertificateRequest, body); err != nil {
		return err
	}
	h.state = stateServerHelloDone
	return nil
}
