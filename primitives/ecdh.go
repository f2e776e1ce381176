package primitives

import (
	stdecdh "crypto/ecdh"
	"errors"
	"io"

	"github.com/polarhs/sslhs"
)

// ECDH is a crypto/ecdh-backed default implementation of
// sslhs.ECDHCollaborator, one instance per handshake.
type ECDH struct {
	curve stdecdh.Curve
	priv  *stdecdh.PrivateKey
	peer  *stdecdh.PublicKey
}

func NewECDH() *ECDH { return &ECDH{} }

func (e *ECDH) UseCurve(curve sslhs.ECCurve) error {
	switch curve {
	case sslhs.CurveSECP256R1:
		e.curve = stdecdh.P256()
	case sslhs.CurveSECP384R1:
		e.curve = stdecdh.P384()
	case sslhs.CurveSECP521R1:
		e.curve = stdecdh.P521()
	default:
		return errors.New("primitives: unsupported EC curve for ECDH collaborator")
	}
	return nil
}

func (e *ECDH) MakePublic(rnd io.Reader) ([]byte, error) {
	if e.curve == nil {
		return nil, errors.New("primitives: no curve selected")
	}
	priv, err := e.curve.GenerateKey(rnd)
	if err != nil {
		return nil, err
	}
	e.priv = priv
	return priv.PublicKey().Bytes(), nil
}

func (e *ECDH) ReadPublic(point []byte) error {
	if e.curve == nil {
		return errors.New("primitives: no curve selected")
	}
	pub, err := e.curve.NewPublicKey(point)
	if err != nil {
		return err
	}
	e.peer = pub
	return nil
}

func (e *ECDH) ComputeSecret() ([]byte, error) {
	if e.priv == nil || e.peer == nil {
		return nil, errors.New("primitives: ECDH exchange incomplete")
	}
	return e.priv.ECDH(e.peer)
}

// Release drops the ephemeral private key and peer point. crypto/ecdh
// keeps its key material behind an opaque type with no exported zeroing
// API, so this is a best-effort reference drop, not a byte-level scrub.
func (e *ECDH) Release() {
	e.curve, e.priv, e.peer = nil, nil, nil
}
