package sslhs

import (
	"bytes"
	"crypto"
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"io"
	"testing"

	"github.com/polarhs/sslhs/wire"
)

// --- test collaborator doubles ---------------------------------------

type testRSAKey struct{ priv *rsa.PrivateKey }

func (k *testRSAKey) Public() *rsa.PublicKey { return &k.priv.PublicKey }
func (k *testRSAKey) Decrypt(rnd io.Reader, ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rnd, k.priv, ciphertext)
}
func (k *testRSAKey) SignPKCS1v15(rnd io.Reader, h crypto.Hash, hashed []byte) ([]byte, error) {
	return rsa.SignPKCS1v15(rnd, k.priv, h, hashed)
}

type testPeerKey struct{ pub *rsa.PublicKey }

func (k *testPeerKey) Public() *rsa.PublicKey { return k.pub }

// testTranscript is a minimal TranscriptHash double: buffer everything,
// hash on demand. Deliberately independent of the primitives package
// default implementation so this file has no import-cycle risk.
type testTranscript struct{ buf []byte }

func (t *testTranscript) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	return len(p), nil
}
func (t *testTranscript) Sum12() []byte {
	m := md5.Sum(t.buf)
	s := sha1.Sum(t.buf)
	out := append([]byte{}, m[:]...)
	return append(out, s[:]...)
}
func (t *testTranscript) SumWith(h crypto.Hash) []byte {
	if h == crypto.MD5SHA1 {
		return t.Sum12()
	}
	hh := h.New()
	hh.Write(t.buf)
	return hh.Sum(nil)
}
func (t *testTranscript) Clone() TranscriptHash {
	return &testTranscript{buf: append([]byte{}, t.buf...)}
}

// testKeyScheduler just records its inputs; no real key material is
// needed for these handshake-state-machine tests.
type testKeyScheduler struct {
	called       bool
	premaster    []byte
	clientRandom [32]byte
	serverRandom [32]byte
	minor        int
}

func (k *testKeyScheduler) DeriveKeys(premaster []byte, clientRandom, serverRandom [32]byte, minor int) error {
	k.called = true
	k.premaster = append([]byte{}, premaster...)
	k.clientRandom = clientRandom
	k.serverRandom = serverRandom
	k.minor = minor
	return nil
}

type outMsg struct {
	msgType byte
	body    []byte
}

type alertRecord struct {
	level, description uint8
}

// fakeRecordLayer is an in-memory RecordLayer double: ReadClientHello
// returns the preloaded chFragment, ReadHandshake drains a preloaded inbox
// in order, writes land in outbox,
// CCS/Finished are no-ops that always succeed (their real implementation
// is out of this engine's scope).
type fakeRecordLayer struct {
	chLegacy    bool
	chFragment  []byte
	inbox       []outMsg
	inboxIdx    int
	outbox      []outMsg
	alerts      []alertRecord
	clientVerify []byte
	serverVerify []byte
}

func (f *fakeRecordLayer) ReadClientHello() (bool, []byte, error) {
	return f.chLegacy, f.chFragment, nil
}

func (f *fakeRecordLayer) ReadHandshake() (byte, []byte, error) {
	if f.inboxIdx >= len(f.inbox) {
		return 0, nil, ErrWouldBlock
	}
	m := f.inbox[f.inboxIdx]
	f.inboxIdx++
	return m.msgType, m.body, nil
}

func (f *fakeRecordLayer) WriteHandshake(msgType byte, body []byte) error {
	f.outbox = append(f.outbox, outMsg{msgType, append([]byte{}, body...)})
	return nil
}

func (f *fakeRecordLayer) SendAlert(level, description uint8) error {
	f.alerts = append(f.alerts, alertRecord{level, description})
	return nil
}

func (f *fakeRecordLayer) Flush() error { return nil }

func (f *fakeRecordLayer) ReadChangeCipherSpec() error  { return nil }
func (f *fakeRecordLayer) WriteChangeCipherSpec() error { return nil }

func (f *fakeRecordLayer) ReadFinished(transcript TranscriptHash) ([]byte, error) {
	if f.clientVerify == nil {
		f.clientVerify = []byte("client-verify-data")
	}
	return f.clientVerify, nil
}

func (f *fakeRecordLayer) WriteFinished(transcript TranscriptHash) ([]byte, error) {
	if f.serverVerify == nil {
		f.serverVerify = []byte("server-verify-data")
	}
	return f.serverVerify, nil
}

// --- ClientHello construction helpers --------------------------------

func modernClientHello(minor byte, ciphers []uint16, extensions []byte) []byte {
	w := wire.NewWriter()
	w.U8(recordMajor)
	w.U8(minor)
	var random [32]byte
	for i := range random {
		random[i] = byte(i + 1)
	}
	w.Bytes(random[:])
	w.Vector8Bytes(nil) // empty session_id

	cipherBytes := make([]byte, 0, len(ciphers)*2)
	for _, c := range ciphers {
		cipherBytes = append(cipherBytes, byte(c>>8), byte(c))
	}
	w.Vector16Bytes(cipherBytes)
	w.Vector8Bytes([]byte{compressionNull})
	if extensions != nil {
		w.Vector16Bytes(extensions)
	}
	body, err := w.Finish()
	if err != nil {
		panic(err)
	}
	return encodeHandshakeMessage(msgTypeClientHello, body)
}

func legacyClientHello(minor byte, cipherSpecs [][3]byte, challenge []byte) []byte {
	w := wire.NewWriter()
	w.U8(msgTypeClientHello)
	w.U8(recordMajor)
	w.U8(minor)
	w.U16(uint16(len(cipherSpecs) * 3))
	w.U16(0) // session_id_length
	w.U16(uint16(len(challenge)))
	for _, cs := range cipherSpecs {
		w.Bytes(cs[:])
	}
	w.Bytes(challenge)
	out, err := w.Finish()
	if err != nil {
		panic(err)
	}
	return out
}

func renegotiationInfoExtension(verifyData []byte) []byte {
	w := wire.NewWriter()
	w.U16(uint16(extRenegotiationInfo))
	inner := wire.NewWriter()
	inner.Vector8Bytes(verifyData)
	innerBytes, _ := inner.Finish()
	w.Vector16Bytes(innerBytes)
	out, _ := w.Finish()
	return out
}

// --- test fixtures -----------------------------------------------------

var testRSAPriv *rsa.PrivateKey

func init() {
	var err error
	testRSAPriv, err = rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		panic(err)
	}
}

func newTestConfig() *Config {
	return &Config{
		MinMinor:     MinorTLS10,
		MaxMinor:     MinorTLS12,
		Capabilities: DefaultCapabilities(),
		CipherSuites: map[int][]CipherSuiteID{
			MinorTLS10: {0x002F},
			MinorTLS11: {0x002F},
			MinorTLS12: {0x002F},
		},
		RSAKey:              &testRSAKey{priv: testRSAPriv},
		AuthMode:             AuthModeNone,
		RenegotiationPolicy:  PolicyAllowLegacy,
		RNG:                  rand.Reader,
		SignaturePreference:  []crypto.Hash{crypto.SHA256, crypto.SHA1},
	}
}

func driveUntilBlockedOrDone(t *testing.T, h *Handshake, maxSteps int) error {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		if h.Done() {
			return nil
		}
		if err := h.Step(); err != nil {
			return err
		}
	}
	t.Fatalf("handshake did not complete within %d steps (state=%d)", maxSteps, h.State())
	return nil
}

func buildRSAClientKeyExchange(t *testing.T, pub *rsa.PublicKey, minor int) []byte {
	t.Helper()
	pms := make([]byte, 48)
	if _, err := rand.Read(pms); err != nil {
		t.Fatal(err)
	}
	pms[0] = recordMajor
	pms[1] = byte(minor)
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, pub, pms)
	if err != nil {
		t.Fatal(err)
	}
	w := wire.NewWriter()
	w.Vector16Bytes(ciphertext)
	body, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	return encodeHandshakeMessage(msgTypeClientKeyExchange, body)
}

// --- S1: full RSA handshake -------------------------------------------

func TestFullRSAHandshake(t *testing.T) {
	cfg := newTestConfig()
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, nil),
	}
	keySched := &testKeyScheduler{}
	h := NewHandshake(cfg, rl, keySched, &testTranscript{})

	// Drive through ClientHello -> ServerHello -> Certificate ->
	// ServerKeyExchange (skipped, RSA is not ephemeral) ->
	// CertificateRequest (skipped, AuthModeNone) -> ServerHelloDone.
	for i := 0; i < 6; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if h.State() != stateClientKeyExchange {
		t.Fatalf("after server flight, state = %d, want stateClientKeyExchange", h.State())
	}

	rl.inbox = append(rl.inbox, outMsg{
		msgType: msgTypeClientKeyExchange,
		body:    buildRSAClientKeyExchange(t, &cfg.RSAKey.(*testRSAKey).priv.PublicKey, MinorTLS12)[4:],
	})

	if err := driveUntilBlockedOrDone(t, h, 10); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	if !h.Done() {
		t.Fatal("handshake did not reach HANDSHAKE_OVER")
	}
	if !keySched.called {
		t.Fatal("KeyScheduler.DeriveKeys was never invoked")
	}
	if len(keySched.premaster) != 48 {
		t.Fatalf("premaster length = %d, want 48", len(keySched.premaster))
	}
	if h.Session().CipherSuite != 0x002F {
		t.Fatalf("negotiated cipher suite = %#x, want 0x002F", h.Session().CipherSuite)
	}
	if !h.Session().MasterSecretSet {
		t.Fatal("MasterSecretSet not set after wrapup")
	}

	sawServerHello := false
	for _, m := range rl.outbox {
		if m.msgType == msgTypeServerHello {
			sawServerHello = true
		}
	}
	if !sawServerHello {
		t.Fatal("no ServerHello was written")
	}
}

// --- S2: version floor ---------------------------------------------

func TestVersionFloorRejected(t *testing.T) {
	cfg := newTestConfig()
	cfg.MinMinor = MinorTLS12
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS10), []uint16{0x002F}, nil),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})

	err := h.Step()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !Is(err, ErrBadHsProtocolVersion) {
		t.Fatalf("got %v, want ErrBadHsProtocolVersion", err)
	}
	if len(rl.alerts) != 1 || alert(rl.alerts[0].description) != alertProtocolVersion {
		t.Fatalf("alerts = %+v, want one protocol_version alert", rl.alerts)
	}
}

// --- S3: no common cipher -------------------------------------------

func TestNoCommonCipherRejected(t *testing.T) {
	cfg := newTestConfig()
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x1234}, nil),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})

	err := h.Step()
	if !Is(err, ErrNoCipherChosen) {
		t.Fatalf("got %v, want ErrNoCipherChosen", err)
	}
	if len(rl.alerts) != 1 || alert(rl.alerts[0].description) != alertHandshakeFailure {
		t.Fatalf("alerts = %+v, want one handshake_failure alert", rl.alerts)
	}
}

// --- S4: legacy SSLv2-compatible ClientHello -------------------------

func TestLegacySSLv2ClientHelloAccepted(t *testing.T) {
	cfg := newTestConfig()
	cfg.Capabilities.LegacyV2ClientHello = true
	challenge := bytes.Repeat([]byte{0x42}, 16)
	rl := &fakeRecordLayer{
		chLegacy:   true,
		chFragment: legacyClientHello(byte(MinorTLS12), [][3]byte{{0x00, 0x00, 0x2F}}, challenge),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})

	if err := h.Step(); err != nil {
		t.Fatalf("legacy ClientHello rejected: %v", err)
	}
	if h.State() != stateServerHello {
		t.Fatalf("state = %d, want stateServerHello", h.State())
	}
	if h.Session().CipherSuite != 0x002F {
		t.Fatalf("cipher suite = %#x, want 0x002F", h.Session().CipherSuite)
	}
}

func TestLegacySSLv2ClientHelloRejectedWhenDisabled(t *testing.T) {
	cfg := newTestConfig() // LegacyV2ClientHello left false
	rl := &fakeRecordLayer{
		chLegacy:   true,
		chFragment: legacyClientHello(byte(MinorTLS12), [][3]byte{{0x00, 0x00, 0x2F}}, bytes.Repeat([]byte{1}, 16)),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})

	if err := h.Step(); !Is(err, ErrBadClientHello) {
		t.Fatalf("got %v, want ErrBadClientHello", err)
	}
}

// --- S5: renegotiation without renegotiation_info ---------------------

func TestRenegotiationSecureDowngradeRejected(t *testing.T) {
	cfg := newTestConfig()
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, nil), // no renegotiation_info
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})
	h.BeginRenegotiation(&testTranscript{}, []byte("prev-client"), []byte("prev-server"), true)

	if err := h.Step(); err != nil { // HelloRequest
		t.Fatalf("HelloRequest step failed: %v", err)
	}
	if err := h.Step(); !Is(err, ErrBadClientHello) {
		t.Fatalf("got %v, want ErrBadClientHello (secure downgrade)", err)
	}
	if len(rl.alerts) != 1 || alert(rl.alerts[0].description) != alertHandshakeFailure {
		t.Fatalf("alerts = %+v", rl.alerts)
	}
}

func TestRenegotiationWithValidRenegotiationInfoAccepted(t *testing.T) {
	cfg := newTestConfig()
	ext := renegotiationInfoExtension([]byte("prev-client"))
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, ext),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})
	h.BeginRenegotiation(&testTranscript{}, []byte("prev-client"), []byte("prev-server"), true)

	if err := h.Step(); err != nil { // HelloRequest
		t.Fatalf("HelloRequest step failed: %v", err)
	}
	if err := h.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenegotiationLegacyWithMatchingRenegotiationInfoStaysLegacy(t *testing.T) {
	cfg := newTestConfig()
	ext := renegotiationInfoExtension([]byte("prev-client"))
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, ext),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})
	h.BeginRenegotiation(&testTranscript{}, []byte("prev-client"), []byte("prev-server"), false)

	if err := h.Step(); err != nil { // HelloRequest
		t.Fatalf("HelloRequest step failed: %v", err)
	}
	if err := h.Step(); !Is(err, ErrBadClientHello) {
		t.Fatalf("got %v, want ErrBadClientHello (illegal signalling combination)", err)
	}
	if h.secureRenegotiation {
		t.Fatalf("secureRenegotiation = true, want false: a matching renegotiation_info on a previously legacy connection must not promote it to secure")
	}
}

// --- S6: SNI callback rejects -----------------------------------------

func serverNameExtension(hostname string) []byte {
	w := wire.NewWriter()
	w.U16(0) // extServerName
	inner := wire.NewWriter()
	list := wire.NewWriter()
	list.U8(0) // host_name
	list.Vector16Bytes([]byte(hostname))
	listBytes, _ := list.Finish()
	inner.Vector16Bytes(listBytes)
	innerBytes, _ := inner.Finish()
	w.Vector16Bytes(innerBytes)
	out, _ := w.Finish()
	return out
}

func TestSNICallbackRejectsUnrecognizedName(t *testing.T) {
	cfg := newTestConfig()
	cfg.SNICallback = func(name []byte) error {
		return errSNIRejected
	}
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, serverNameExtension("evil.example.com")),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})

	err := h.Step()
	if !Is(err, ErrBadClientHello) {
		t.Fatalf("got %v, want ErrBadClientHello", err)
	}
	if len(rl.alerts) != 1 || alert(rl.alerts[0].description) != alertUnrecognizedName {
		t.Fatalf("alerts = %+v, want one unrecognized_name alert", rl.alerts)
	}
}

var errSNIRejected = &sniRejectedError{}

type sniRejectedError struct{}

func (*sniRejectedError) Error() string { return "sni: rejected by test callback" }

// --- cipher-suite selection follows server preference, not client order --

func TestCipherSuiteSelectionFollowsServerPreference(t *testing.T) {
	cfg := newTestConfig()
	cfg.CipherSuites[MinorTLS12] = []CipherSuiteID{0x0035, 0x002F} // server prefers 0x0035
	rl := &fakeRecordLayer{
		// client lists 0x002F first
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F, 0x0035}, nil),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})
	if err := h.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Session().CipherSuite != 0x0035 {
		t.Fatalf("selected %#x, want 0x0035 (server preference order)", h.Session().CipherSuite)
	}
}

// --- Bleichenbacher: any RSA ClientKeyExchange failure still yields a
// 48-byte premaster and no distinguishable error -----------------------

func TestBleichenbacherSubstitutesRandomPremaster(t *testing.T) {
	cfg := newTestConfig()
	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, nil),
	}
	keySched := &testKeyScheduler{}
	h := NewHandshake(cfg, rl, keySched, &testTranscript{})
	for i := 0; i < 6; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	// Malformed ciphertext: wrong length entirely.
	w := wire.NewWriter()
	w.Vector16Bytes([]byte{0x01, 0x02, 0x03})
	body, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	rl.inbox = append(rl.inbox, outMsg{msgType: msgTypeClientKeyExchange, body: body})

	if err := h.Step(); err != nil {
		t.Fatalf("ClientKeyExchange with malformed ciphertext must not surface an error: %v", err)
	}
	if !keySched.called {
		t.Fatal("DeriveKeys was not called")
	}
	if len(keySched.premaster) != 48 {
		t.Fatalf("premaster length = %d, want 48 (substitute random PMS)", len(keySched.premaster))
	}
}

// --- client authentication: CertificateRequest through CertificateVerify --

func TestClientAuthCertificateVerifyAccepted(t *testing.T) {
	clientPriv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}

	cfg := newTestConfig()
	cfg.AuthMode = AuthModeRequired
	cfg.CAChain = []CertificateEntry{{SubjectDN: []byte("test-ca")}}

	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, nil),
	}
	tr := &testTranscript{}
	keySched := &testKeyScheduler{}
	h := NewHandshake(cfg, rl, keySched, tr)

	// ClientHello -> ServerHello -> ServerCertificate -> ServerKeyExchange
	// (skipped) -> CertificateRequest -> ServerHelloDone.
	for i := 0; i < 6; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if h.State() != stateClientCertificate {
		t.Fatalf("state = %d, want stateClientCertificate", h.State())
	}

	// The external Certificate collaborator would have parsed the peer's
	// chain and populated this by now.
	h.Session().PeerCertificate = &testPeerKey{pub: &clientPriv.PublicKey}
	if err := h.Step(); err != nil { // stepClientCertificate, no-op transition
		t.Fatalf("client certificate step: %v", err)
	}

	rl.inbox = append(rl.inbox, outMsg{
		msgType: msgTypeClientKeyExchange,
		body:    buildRSAClientKeyExchange(t, &testRSAPriv.PublicKey, MinorTLS12)[4:],
	})
	if err := h.Step(); err != nil { // stepClientKeyExchange
		t.Fatalf("client key exchange step: %v", err)
	}
	if h.State() != stateCertificateVerify {
		t.Fatalf("state = %d, want stateCertificateVerify", h.State())
	}

	expected := tr.Clone().SumWith(crypto.SHA256) // VerifySigAlg chosen in CertificateRequest
	sig, err := rsa.SignPKCS1v15(rand.Reader, clientPriv, crypto.SHA256, expected)
	if err != nil {
		t.Fatal(err)
	}
	w := wire.NewWriter()
	w.U8(hashSHA256)
	w.U8(sigAlgRSA)
	w.Vector16Bytes(sig)
	body, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	rl.inbox = append(rl.inbox, outMsg{msgType: msgTypeCertificateVerify, body: body})

	if err := h.Step(); err != nil {
		t.Fatalf("certificate_verify rejected a valid signature: %v", err)
	}
	if h.State() != stateClientChangeCipherSpec {
		t.Fatalf("state = %d, want stateClientChangeCipherSpec", h.State())
	}
}

func TestClientAuthCertificateVerifyRejectsBadSignature(t *testing.T) {
	clientPriv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}

	cfg := newTestConfig()
	cfg.AuthMode = AuthModeRequired

	rl := &fakeRecordLayer{
		chFragment: modernClientHello(byte(MinorTLS12), []uint16{0x002F}, nil),
	}
	h := NewHandshake(cfg, rl, &testKeyScheduler{}, &testTranscript{})
	for i := 0; i < 6; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	h.Session().PeerCertificate = &testPeerKey{pub: &clientPriv.PublicKey}
	if err := h.Step(); err != nil {
		t.Fatal(err)
	}
	rl.inbox = append(rl.inbox, outMsg{
		msgType: msgTypeClientKeyExchange,
		body:    buildRSAClientKeyExchange(t, &testRSAPriv.PublicKey, MinorTLS12)[4:],
	})
	if err := h.Step(); err != nil {
		t.Fatal(err)
	}

	w := wire.NewWriter()
	w.U8(hashSHA256)
	w.U8(sigAlgRSA)
	w.Vector16Bytes(bytes.Repeat([]byte{0xAA}, 128)) // garbage signature
	body, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	rl.inbox = append(rl.inbox, outMsg{msgType: msgTypeCertificateVerify, body: body})

	if err := h.Step(); !Is(err, ErrBadCertificateVerify) {
		t.Fatalf("got %v, want ErrBadCertificateVerify", err)
	}
}

// --- renegotiation policy: table over the renegotiation flags and policy --

func TestRenegotiationPolicyTable(t *testing.T) {
	cases := []struct {
		name          string
		renegotiating bool
		secure        bool // h.secureRenegotiation
		priorSecure   bool
		renegInfoSeen bool
		policy        RenegotiationPolicy
		wantErr       bool
	}{
		{"initial handshake, legacy peer, allow", false, false, false, false, PolicyAllowLegacy, false},
		{"initial handshake, legacy peer, break", false, false, false, false, PolicyBreakHandshake, true},
		{"initial handshake, secure peer, break", false, true, false, false, PolicyBreakHandshake, false},
		{"reneg, secure peer, prior secure", true, true, true, true, PolicyAllowLegacy, false},
		{"reneg, secure downgrade", true, false, true, false, PolicyAllowLegacy, true},
		{"reneg, legacy, no_renegotiation policy", true, false, false, false, PolicyNoRenegotiation, true},
		{"reneg, legacy peer sends renegInfo anyway", true, false, false, true, PolicyAllowLegacy, true},
		{"reneg, legacy peer allowed", true, false, false, false, PolicyAllowLegacy, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.RenegotiationPolicy = c.policy
			h := &Handshake{
				cfg:                 cfg,
				rl:                  &fakeRecordLayer{},
				renegotiating:       c.renegotiating,
				secureRenegotiation: c.secure,
				priorSecure:         c.priorSecure,
				renegInfoSeen:       c.renegInfoSeen,
				scratch:             &HandshakeScratch{},
			}
			err := h.applyRenegotiationPolicy()
			if c.wantErr && err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
