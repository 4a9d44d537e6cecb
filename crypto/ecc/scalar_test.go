package ecc_test

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/util"
)

func TestScalarArithmetic(t *testing.T) {
	c := qt.New(t)
	curve := curves.New(curves.CurveTypeBN254)

	a := ecc.ScalarFromUint64(curve, 10)
	b := ecc.ScalarFromUint64(curve, 3)
	c.Assert(a.Add(b).Equal(ecc.ScalarFromUint64(curve, 13)), qt.IsTrue)
	c.Assert(a.Sub(b).Equal(ecc.ScalarFromUint64(curve, 7)), qt.IsTrue)
	c.Assert(a.Mul(b).Equal(ecc.ScalarFromUint64(curve, 30)), qt.IsTrue)
	c.Assert(a.MulUint64(4).Equal(ecc.ScalarFromUint64(curve, 40)), qt.IsTrue)

	// subtraction wraps around the group order
	negSeven := b.Sub(a)
	c.Assert(negSeven.Equal(ecc.ScalarFromUint64(curve, 7).Neg()), qt.IsTrue)
	expected := new(big.Int).Sub(curve.Order(), big.NewInt(7))
	c.Assert(negSeven.BigInt().Cmp(expected), qt.Equals, 0)

	inv, err := b.Inverse()
	c.Assert(err, qt.IsNil)
	c.Assert(inv.Mul(b).Equal(b.One()), qt.IsTrue)

	_, err = ecc.NewScalar(curve).Inverse()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestScalarExpAndPowers(t *testing.T) {
	c := qt.New(t)
	curve := curves.New(curves.CurveTypeEd25519)

	x, err := ecc.RandomScalar(util.NewSeededReader([]byte("exp")), curve)
	c.Assert(err, qt.IsNil)

	powers := x.Powers(10)
	c.Assert(powers, qt.HasLen, 10)
	c.Assert(powers[0].Equal(x.One()), qt.IsTrue)
	for i, p := range powers {
		c.Assert(p.Equal(x.Exp(uint64(i))), qt.IsTrue, qt.Commentf("power %d", i))
	}

	// Fermat: x^(n-1) = 1 for the prime order n, checked via big.Int
	n := curve.Order()
	expected := new(big.Int).Exp(x.BigInt(), big.NewInt(1000003), n)
	c.Assert(x.Exp(1000003).BigInt().Cmp(expected), qt.Equals, 0)
	c.Assert(x.Exp(0).Equal(x.One()), qt.IsTrue)
}

func TestScalarEncoding(t *testing.T) {
	for _, curveType := range curves.Curves() {
		t.Run(curveType, func(t *testing.T) {
			c := qt.New(t)
			curve := curves.New(curveType)
			rng := util.NewSeededReader([]byte(curveType))

			for i := 0; i < 10; i++ {
				s, err := ecc.RandomScalar(rng, curve)
				c.Assert(err, qt.IsNil)
				buf := s.Bytes()
				c.Assert(buf, qt.HasLen, ecc.ScalarSize)
				decoded, err := ecc.ScalarFromBytes(curve, buf)
				c.Assert(err, qt.IsNil)
				c.Assert(decoded.Equal(s), qt.IsTrue)
			}

			_, err := ecc.ScalarFromBytes(curve, make([]byte, 31))
			c.Assert(err, qt.ErrorIs, ecc.ErrDecoding)

			// the order itself is not a canonical scalar
			_, err = ecc.ScalarFromBytes(curve, curve.Order().FillBytes(make([]byte, ecc.ScalarSize)))
			c.Assert(err, qt.ErrorIs, ecc.ErrDecoding)
		})
	}
}

func TestScalarFromHashReduces(t *testing.T) {
	c := qt.New(t)
	curve := curves.New(curves.CurveTypeBabyJubJub)
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = 0xff
	}
	s := ecc.ScalarFromHash(curve, digest)
	c.Assert(s.BigInt().Cmp(curve.Order()) < 0, qt.IsTrue)
}
