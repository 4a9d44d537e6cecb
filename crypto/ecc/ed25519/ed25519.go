// Package ed25519 implements the ecc.Point interface over the prime order
// subgroup of Curve25519 in twisted Edwards form, backed by kyber.
package ed25519

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/group/edwards25519"
	curve "github.com/vocdoni/private-voting/crypto/ecc"
	"golang.org/x/crypto/blake2b"
)

const CurveType = "ed25519"

const pointSize = 32

var (
	suite = edwards25519.NewBlakeSHA256Ed25519()
	// order is l = 2^252 + 27742317777372353535851937790883648493.
	order, _    = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
	orderMinus1 = new(big.Int).Sub(order, big.NewInt(1))
	hashDomain  = []byte("private-voting/ed25519/hash-to-point")
)

// Point wraps a kyber edwards25519 point.
type Point struct {
	inner kyber.Point
	lock  sync.Mutex
}

// New returns the identity element.
func New() curve.Point {
	return (&Point{}).New()
}

func (g *Point) New() curve.Point {
	return &Point{inner: suite.Point().Null()}
}

func (g *Point) Order() *big.Int {
	return new(big.Int).Set(order)
}

// toScalar converts a big integer into a kyber scalar. Kyber scalars use a
// little-endian encoding and SetBytes reduces modulo l.
func toScalar(v *big.Int) kyber.Scalar {
	r := new(big.Int).Mod(v, order)
	be := r.FillBytes(make([]byte, 32))
	le := make([]byte, 32)
	for i := range be {
		le[i] = be[31-i]
	}
	return suite.Scalar().SetBytes(le)
}

func (g *Point) Add(a, b curve.Point) {
	g.inner = suite.Point().Add(a.(*Point).inner, b.(*Point).inner)
}

func (g *Point) SafeAdd(a, b curve.Point) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Add(a, b)
}

func (g *Point) Sub(a, b curve.Point) {
	g.inner = suite.Point().Sub(a.(*Point).inner, b.(*Point).inner)
}

func (g *Point) ScalarMult(a curve.Point, scalar *big.Int) {
	g.inner = suite.Point().Mul(toScalar(scalar), a.(*Point).inner)
}

func (g *Point) ScalarBaseMult(scalar *big.Int) {
	g.inner = suite.Point().Mul(toScalar(scalar), nil)
}

func (g *Point) Marshal() []byte {
	buf, err := g.inner.MarshalBinary()
	if err != nil {
		// kyber never fails to encode an edwards25519 point
		panic(err)
	}
	return buf
}

// Unmarshal decodes a point and rejects encodings of points with a small
// order component.
func (g *Point) Unmarshal(buf []byte) error {
	if err := curve.CheckLength(CurveType+" point", buf, pointSize); err != nil {
		return err
	}
	p := suite.Point()
	if err := p.UnmarshalBinary(buf); err != nil {
		return curve.NewDecodingError(CurveType+" point", "%v", err)
	}
	enc, err := p.MarshalBinary()
	if err != nil || !bytes.Equal(enc, buf) {
		return curve.NewDecodingError(CurveType+" point", "non canonical encoding")
	}
	// (l-1)·P + P is the identity only for points of the prime order subgroup
	check := suite.Point().Mul(toScalar(orderMinus1), p)
	check.Add(check, p)
	if !check.Equal(suite.Point().Null()) {
		return curve.NewDecodingError(CurveType+" point", "point is not in the prime order subgroup")
	}
	g.inner = p
	return nil
}

func (g *Point) MarshalSize() int {
	return pointSize
}

// HashToPoint picks a point from a blake2b seeded XOF stream. Pick already
// clears the cofactor.
func (g *Point) HashToPoint(msg []byte) error {
	seed := blake2b.Sum256(append(append([]byte{}, hashDomain...), msg...))
	g.inner = suite.Point().Pick(suite.XOF(seed[:]))
	return nil
}

func (g *Point) Equal(a curve.Point) bool {
	return g.inner.Equal(a.(*Point).inner)
}

func (g *Point) IsZero() bool {
	return g.inner.Equal(suite.Point().Null())
}

func (g *Point) Neg(a curve.Point) {
	g.inner = suite.Point().Neg(a.(*Point).inner)
}

func (g *Point) SetZero() {
	g.inner = suite.Point().Null()
}

func (g *Point) Set(a curve.Point) {
	g.inner = a.(*Point).inner.Clone()
}

func (g *Point) SetGenerator() {
	g.inner = suite.Point().Base()
}

func (g *Point) String() string {
	return fmt.Sprintf("%x", g.Marshal())
}

func (g *Point) Type() string {
	return CurveType
}
