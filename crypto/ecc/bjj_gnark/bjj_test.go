package bjj

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	iden3 "github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/vocdoni/private-voting/crypto/ecc"
)

// sameAsIden3 checks that p has the coordinates of the iden3 point q.
func sameAsIden3(c *qt.C, p ecc.Point, q *iden3.Point) {
	x, y := p.(*BJJ).Point()
	c.Assert(x.String(), qt.Equals, q.X.String())
	c.Assert(y.String(), qt.Equals, q.Y.String())
}

func TestGeneratorAndOrder(t *testing.T) {
	c := qt.New(t)
	g := New()
	g.SetGenerator()
	sameAsIden3(c, g, iden3.B8)
	c.Assert(g.Order().String(), qt.Equals, iden3.SubOrder.String())

	zero := New()
	c.Assert(zero.IsZero(), qt.IsTrue)
	sameAsIden3(c, zero, iden3.NewPoint())
}

func TestArithmeticMatchesIden3(t *testing.T) {
	c := qt.New(t)
	a, b := big.NewInt(123456789), big.NewInt(987654321)

	pa, pb := New(), New()
	pa.ScalarBaseMult(a)
	pb.ScalarBaseMult(b)
	qa := iden3.NewPoint().Mul(a, iden3.B8)
	qb := iden3.NewPoint().Mul(b, iden3.B8)
	sameAsIden3(c, pa, qa)

	sum := New()
	sum.Add(pa, pb)
	sameAsIden3(c, sum, iden3.NewPoint().Projective().Add(qa.Projective(), qb.Projective()).Affine())

	dbl := New()
	dbl.Add(pa, pa)
	sameAsIden3(c, dbl, iden3.NewPoint().Mul(big.NewInt(2*123456789), iden3.B8))

	k := big.NewInt(88)
	mul := New()
	mul.ScalarMult(pa, k)
	sameAsIden3(c, mul, iden3.NewPoint().Mul(k, qa))

	// a + (-a) is the identity
	neg := New()
	neg.Neg(pa)
	neg.Add(neg, pa)
	c.Assert(neg.IsZero(), qt.IsTrue)

	diff := New()
	diff.Sub(sum, pb)
	c.Assert(diff.Equal(pa), qt.IsTrue)
	c.Assert(diff.Equal(pb), qt.IsFalse)
}

func TestEncodingMatchesIden3(t *testing.T) {
	c := qt.New(t)
	p := New()
	p.ScalarBaseMult(big.NewInt(42))
	q := iden3.NewPoint().Mul(big.NewInt(42), iden3.B8)
	compressed := q.Compress()
	c.Assert(p.Marshal(), qt.DeepEquals, compressed[:])

	decoded := New()
	c.Assert(decoded.Unmarshal(compressed[:]), qt.IsNil)
	c.Assert(decoded.Equal(p), qt.IsTrue)

	// both signs of x decode to the matching point
	for _, k := range []int64{1, 2, 3, 5, 8, 13, 21, 34} {
		q := iden3.NewPoint().Mul(big.NewInt(k), iden3.B8)
		compressed := q.Compress()
		p := New()
		c.Assert(p.Unmarshal(compressed[:]), qt.IsNil)
		sameAsIden3(c, p, q)
		c.Assert(p.Marshal(), qt.DeepEquals, compressed[:])
	}

	c.Assert(decoded.Unmarshal(compressed[:31]), qt.ErrorIs, ecc.ErrDecoding)
}

func TestHashToPoint(t *testing.T) {
	c := qt.New(t)
	h1, h2 := New(), New()
	c.Assert(h1.HashToPoint([]byte("a")), qt.IsNil)
	c.Assert(h2.HashToPoint([]byte("a")), qt.IsNil)
	c.Assert(h1.Equal(h2), qt.IsTrue)
	c.Assert(h1.IsZero(), qt.IsFalse)

	// the result is in the prime order subgroup
	check := New()
	check.ScalarMult(h1, h1.Order())
	c.Assert(check.IsZero(), qt.IsTrue)

	c.Assert(h2.HashToPoint([]byte("b")), qt.IsNil)
	c.Assert(h1.Equal(h2), qt.IsFalse)
}
