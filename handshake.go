package sslhs

import stderrors "errors"

// state enumerates the handshake driver's position, in the exact order
// spec §4.F lists.
type state int

const (
	stateHelloRequest state = iota
	stateClientHello
	stateServerHello
	stateServerCertificate
	stateServerKeyExchange
	stateCertificateRequest
	stateServerHelloDone
	stateClientCertificate
	stateClientKeyExchange
	stateCertificateVerify
	stateClientChangeCipherSpec
	stateClientFinished
	stateServerChangeCipherSpec
	stateServerFinished
	stateFlushBuffers
	stateHandshakeWrapup
	stateHandshakeOver
)

// Handshake drives one server-side handshake to completion across
// however many calls to Step it takes. It owns no thread and no timer:
// every suspension happens inside RecordLayer and is resumed by calling
// Step again (spec §5).
type Handshake struct {
	cfg      *Config
	rl       RecordLayer
	keySched KeyScheduler

	state state

	session *Session
	scratch *HandshakeScratch

	renegotiating       bool
	secureRenegotiation bool
	renegInfoSeen       bool
	clientSCSVSeen      bool
	priorSecure         bool

	// peerVerifyData/ownVerifyData carry the previous handshake's
	// Finished values across a renegotiation, for the renegotiation_info
	// extension on both sides (RFC 5746).
	peerVerifyData []byte
	ownVerifyData  []byte

	resumed     bool
	dnTruncated bool
}

// NewHandshake constructs a driver ready to read the first ClientHello.
// transcript accumulates every handshake byte exchanged in the exact
// on-wire order (spec §5); a nil transcript is accepted for callers that
// only exercise message-level parsing and never reach Finished.
func NewHandshake(cfg *Config, rl RecordLayer, keySched KeyScheduler, transcript TranscriptHash) *Handshake {
	return &Handshake{
		cfg:      cfg,
		rl:       rl,
		keySched: keySched,
		state:    stateClientHello,
		session:  &Session{},
		scratch:  &HandshakeScratch{Transcript: transcript},
	}
}

// BeginRenegotiation resets the driver to renegotiate an existing
// connection, carrying forward the previous handshake's Finished
// verify_data for RFC 5746 signalling and whether that prior handshake
// was itself secure (for the secure-downgrade check in §4.G).
func (h *Handshake) BeginRenegotiation(transcript TranscriptHash, peerVerifyData, ownVerifyData []byte, wasSecure bool) {
	h.scratch.Release()
	h.scratch = &HandshakeScratch{Transcript: transcript}
	h.renegotiating = true
	h.priorSecure = wasSecure
	h.peerVerifyData = peerVerifyData
	h.ownVerifyData = ownVerifyData
	h.renegInfoSeen = false
	h.secureRenegotiation = false
	h.state = stateHelloRequest
}

// feedTranscript writes b to the running transcript hash, if one is
// wired up. No-op otherwise, so tests that only exercise a single
// message parser don't need to supply a collaborator they don't use.
func (h *Handshake) feedTranscript(b []byte) {
	if h.scratch.Transcript != nil {
		h.scratch.Transcript.Write(b)
	}
}

// State reports the driver's current position, mainly for tests.
func (h *Handshake) State() state { return h.state }

// Session returns the negotiated session state. Callers (a record layer
// switching in the bulk cipher, a connection object reporting its peer
// identity) may read it at any point; fields populate progressively as
// the handshake advances and are only complete once MasterSecretSet is
// true.
func (h *Handshake) Session() *Session { return h.session }

// Done reports whether the handshake has reached HANDSHAKE_OVER, which only
// a successful wrapup sets; a Step that returned an error leaves Done false.
func (h *Handshake) Done() bool { return h.state == stateHandshakeOver }

// Step performs exactly one unit of handshake work: read-and-process a
// single peer message, or build-and-send a single server message. The
// caller re-invokes it until it returns a non-nil error or the driver
// reports Done().
func (h *Handshake) Step() error {
	if h.state == stateHandshakeOver {
		return fail(ErrBadInputData, nil, "handshake already complete")
	}
	if err := h.rl.Flush(); err != nil {
		return err
	}

	var err error
	switch h.state {
	case stateHelloRequest:
		err = h.stepHelloRequest()
	case stateClientHello:
		err = h.stepClientHello()
	case stateServerHello:
		err = h.stepServerHello()
	case stateServerCertificate:
		err = h.stepServerCertificate()
	case stateServerKeyExchange:
		err = h.stepServerKeyExchange()
	case stateCertificateRequest:
		err = h.stepCertificateRequest()
	case stateServerHelloDone:
		err = h.stepServerHelloDone()
	case stateClientCertificate:
		err = h.stepClientCertificate()
	case stateClientKeyExchange:
		err = h.stepClientKeyExchange()
	case stateCertificateVerify:
		err = h.stepCertificateVerify()
	case stateClientChangeCipherSpec:
		err = h.stepClientChangeCipherSpec()
	case stateClientFinished:
		err = h.stepClientFinished()
	case stateServerChangeCipherSpec:
		err = h.stepServerChangeCipherSpec()
	case stateServerFinished:
		err = h.stepServerFinished()
	case stateFlushBuffers:
		err = h.stepFlushBuffers()
	case stateHandshakeWrapup:
		err = h.stepHandshakeWrapup()
	default:
		err = fail(ErrBadInputData, nil, "unknown handshake state")
	}

	// A terminal error ends the handshake for good: release scratch
	// secret material now rather than waiting on a caller that may never
	// call Step again. ErrWouldBlock is not terminal — the driver stays
	// in the same state and scratch must survive to the next call.
	if err != nil && !stderrors.Is(err, ErrWouldBlock) {
		h.scratch.Release()
	}
	return err
}

// stepHelloRequest sends a HelloRequest (empty handshake body) to invite
// the peer into a renegotiation, then waits for its ClientHello.
func (h *Handshake) stepHelloRequest() error {
	if err := h.rl.WriteHandshake(msgTypeHelloRequest, nil); err != nil {
		return err
	}
	h.state = stateClientHello
	return nil
}

// stepServerCertificate advances past the certificate flight. Chain
// emission itself is the external Certificate collaborator's job (spec
// §1); every key-exchange family this engine negotiates is either
// RSA-authenticated (collaborator sends the chain before this is called
// again) or PSK (no certificate at all), so there is nothing left for the
// core to decide here beyond the state transition.
func (h *Handshake) stepServerCertificate() error {
	h.state = stateServerKeyExchange
	return nil
}

// stepClientCertificate advances past the peer's certificate flight.
// Parsing it is the external Certificate collaborator's job; the
// collaborator is expected to have populated h.session.PeerCertificate
// by the time this runs whenever one was requested and sent.
func (h *Handshake) stepClientCertificate() error {
	h.state = stateClientKeyExchange
	return nil
}

func (h *Handshake) stepClientChangeCipherSpec() error {
	if err := h.rl.ReadChangeCipherSpec(); err != nil {
		return fail(ErrBadClientHello, err, "change_cipher_spec: rejected by record layer")
	}
	h.state = stateClientFinished
	return nil
}

func (h *Handshake) stepClientFinished() error {
	verifyData, err := h.rl.ReadFinished(h.scratch.Transcript)
	if err != nil {
		sendFatal(h.rl, alertDecryptError)
		return fail(ErrBadClientHello, err, "finished: verification failed")
	}
	h.peerVerifyData = verifyData
	if h.resumed {
		h.state = stateFlushBuffers
		return nil
	}
	h.state = stateServerChangeCipherSpec
	return nil
}

func (h *Handshake) stepServerChangeCipherSpec() error {
	if err := h.rl.WriteChangeCipherSpec(); err != nil {
		return err
	}
	h.state = stateServerFinished
	return nil
}

func (h *Handshake) stepServerFinished() error {
	verifyData, err := h.rl.WriteFinished(h.scratch.Transcript)
	if err != nil {
		return err
	}
	h.ownVerifyData = verifyData
	if h.resumed {
		h.state = stateClientChangeCipherSpec
		return nil
	}
	h.state = stateFlushBuffers
	return nil
}

func (h *Handshake) stepFlushBuffers() error {
	if err := h.rl.Flush(); err != nil {
		return err
	}
	h.state = stateHandshakeWrapup
	return nil
}

// stepHandshakeWrapup stores the negotiated session (so a later
// connection can resume it), releases all scratch secret material, and
// marks the handshake complete.
func (h *Handshake) stepHandshakeWrapup() error {
	h.session.MasterSecretSet = true
	if h.cfg.SessionCache != nil && !h.resumed {
		h.cfg.SessionCache.Set(h.session.clone())
	}
	h.scratch.Release()
	h.state = stateHandshakeOver
	return nil
}

const msgTypeHelloRequest = 0
