// Package commitment implements Pedersen commitments m·G + r·H over any of
// the supported curves. H is derived from a common reference string by
// hashing to the curve, so nobody knows its discrete logarithm.
package commitment

import (
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/ecc"
)

// Key is a Pedersen commitment key. G is the curve generator and H an
// independent generator.
type Key struct {
	H ecc.Point
}

// NewKey derives the commitment key for the given curve from crs.
func NewKey(curve ecc.Point, crs []byte) (*Key, error) {
	h := curve.New()
	if err := h.HashToPoint(crs); err != nil {
		return nil, fmt.Errorf("cannot derive commitment key: %w", err)
	}
	return &Key{H: h}, nil
}

// KeyFromBytes decodes a commitment key of the given curve.
func KeyFromBytes(curve ecc.Point, buf []byte) (*Key, error) {
	h, err := ecc.Decode(curve, buf)
	if err != nil {
		return nil, fmt.Errorf("invalid commitment key: %w", err)
	}
	return &Key{H: h}, nil
}

// Bytes returns the canonical encoding of H.
func (ck *Key) Bytes() []byte {
	return ck.H.Marshal()
}

// Curve returns the identity of the key curve.
func (ck *Key) Curve() ecc.Point {
	return ck.H.New()
}

// Commit returns m·G + r·H.
func (ck *Key) Commit(m, r ecc.Scalar) *Commitment {
	c := ecc.BaseMul(ck.H, m)
	c.Add(c, ecc.Mul(ck.H, r))
	return &Commitment{C: c}
}

// CommitBool commits to 0 or 1 with fresh randomness, which is returned.
func (ck *Key) CommitBool(rng io.Reader, b bool) (*Commitment, ecc.Scalar, error) {
	r, err := ecc.RandomScalar(rng, ck.H)
	if err != nil {
		return nil, ecc.Scalar{}, err
	}
	m := ecc.NewScalar(ck.H)
	if b {
		m = m.One()
	}
	return ck.Commit(m, r), r, nil
}

// Verify reports whether c opens to m with randomness r.
func (ck *Key) Verify(c *Commitment, m, r ecc.Scalar) bool {
	return c != nil && ck.Commit(m, r).Equal(c)
}

// Commitment is a Pedersen commitment.
type Commitment struct {
	C ecc.Point
}

// Add returns c + o, a commitment to the sum of both messages.
func (c *Commitment) Add(o *Commitment) *Commitment {
	return &Commitment{C: ecc.Sum(c.C, o.C)}
}

// Mul returns s·c.
func (c *Commitment) Mul(s ecc.Scalar) *Commitment {
	return &Commitment{C: ecc.Mul(c.C, s)}
}

// Equal reports whether both commitments hold the same point.
func (c *Commitment) Equal(o *Commitment) bool {
	return o != nil && c.C.Equal(o.C)
}

// Marshal returns the canonical encoding of the commitment point.
func (c *Commitment) Marshal() []byte {
	return c.C.Marshal()
}
