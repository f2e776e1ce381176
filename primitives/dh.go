package primitives

import (
	"errors"
	"io"
	"math/big"
)

// DH is a math/big-backed default implementation of
// sslhs.DHCollaborator, one instance per handshake.
type DH struct {
	p, g *big.Int
	x    *big.Int // server's own ephemeral private exponent
	y    *big.Int // peer's public value
}

// NewDH constructs an empty DH collaborator; LoadGroup must be called
// before use.
func NewDH() *DH { return &DH{} }

func (d *DH) LoadGroup(p, g []byte) error {
	P := new(big.Int).SetBytes(p)
	G := new(big.Int).SetBytes(g)
	if P.Sign() <= 0 || G.Sign() <= 0 {
		return errors.New("primitives: DH group parameters must be positive")
	}
	d.p, d.g = P, G
	return nil
}

func (d *DH) MakePublic(rnd io.Reader) ([]byte, error) {
	if d.p == nil {
		return nil, errors.New("primitives: DH group not loaded")
	}
	xBytes := make([]byte, (d.p.BitLen()+7)/8)
	if _, err := io.ReadFull(rnd, xBytes); err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(xBytes)
	x.Mod(x, d.p)
	if x.Sign() == 0 {
		x.SetInt64(1)
	}
	d.x = x
	gx := new(big.Int).Exp(d.g, d.x, d.p)
	return gx.Bytes(), nil
}

func (d *DH) ReadPublic(gy []byte) error {
	if d.p == nil {
		return errors.New("primitives: DH group not loaded")
	}
	y := new(big.Int).SetBytes(gy)
	one := big.NewInt(1)
	if y.Cmp(one) < 0 || y.Cmp(d.p) >= 0 {
		return errors.New("primitives: DH public value out of range")
	}
	d.y = y
	return nil
}

func (d *DH) ComputeSecret() ([]byte, error) {
	if d.x == nil || d.y == nil {
		return nil, errors.New("primitives: DH exchange incomplete")
	}
	k := new(big.Int).Exp(d.y, d.x, d.p)
	return k.Bytes(), nil
}

func (d *DH) Params() (p, g []byte) {
	if d.p == nil {
		return nil, nil
	}
	return d.p.Bytes(), d.g.Bytes()
}

// Release zeroes the ephemeral private exponent in place, then drops
// every field so a leaked reference to *DH can't recover key material.
func (d *DH) Release() {
	if d.x != nil {
		d.x.SetInt64(0)
	}
	if d.y != nil {
		d.y.SetInt64(0)
	}
	d.p, d.g, d.x, d.y = nil, nil, nil, nil
}
