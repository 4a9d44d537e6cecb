package commitment

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/util"
)

func TestCommitOpen(t *testing.T) {
	for _, curveType := range curves.Curves() {
		t.Run(curveType, func(t *testing.T) {
			c := qt.New(t)
			curve := curves.New(curveType)
			rng := util.NewSeededReader([]byte("pedersen " + curveType))

			ck, err := NewKey(curve, []byte("crs"))
			c.Assert(err, qt.IsNil)
			c.Assert(ck.H.Equal(ecc.Generator(curve)), qt.IsFalse)

			// the key is deterministic and encodes canonically
			ck2, err := NewKey(curve, []byte("crs"))
			c.Assert(err, qt.IsNil)
			c.Assert(ck2.H.Equal(ck.H), qt.IsTrue)
			decoded, err := KeyFromBytes(curve, ck.Bytes())
			c.Assert(err, qt.IsNil)
			c.Assert(decoded.H.Equal(ck.H), qt.IsTrue)

			m, err := ecc.RandomScalar(rng, curve)
			c.Assert(err, qt.IsNil)
			r, err := ecc.RandomScalar(rng, curve)
			c.Assert(err, qt.IsNil)
			com := ck.Commit(m, r)
			c.Assert(ck.Verify(com, m, r), qt.IsTrue)
			c.Assert(ck.Verify(com, m.Add(m.One()), r), qt.IsFalse)
			c.Assert(ck.Verify(com, m, r.Add(r.One())), qt.IsFalse)
			c.Assert(ck.Verify(nil, m, r), qt.IsFalse)

			one, rb, err := ck.CommitBool(rng, true)
			c.Assert(err, qt.IsNil)
			c.Assert(ck.Verify(one, m.One(), rb), qt.IsTrue)
			zero, rz, err := ck.CommitBool(rng, false)
			c.Assert(err, qt.IsNil)
			c.Assert(ck.Verify(zero, m.Zero(), rz), qt.IsTrue)
		})
	}
}

func TestCommitHomomorphism(t *testing.T) {
	c := qt.New(t)
	curve := curves.New(curves.CurveTypeBN254)
	ck, err := NewKey(curve, []byte("homomorphic"))
	c.Assert(err, qt.IsNil)

	m1, r1 := ecc.ScalarFromUint64(curve, 5), ecc.ScalarFromUint64(curve, 11)
	m2, r2 := ecc.ScalarFromUint64(curve, 7), ecc.ScalarFromUint64(curve, 13)
	sum := ck.Commit(m1, r1).Add(ck.Commit(m2, r2))
	c.Assert(ck.Verify(sum, m1.Add(m2), r1.Add(r2)), qt.IsTrue)

	k := ecc.ScalarFromUint64(curve, 3)
	scaled := ck.Commit(m1, r1).Mul(k)
	c.Assert(scaled.Equal(ck.Commit(m1.Mul(k), r1.Mul(k))), qt.IsTrue)
}

func TestDifferentCRS(t *testing.T) {
	c := qt.New(t)
	curve := curves.New(curves.CurveTypeBabyJubJub)
	ck1, err := NewKey(curve, []byte("election-1"))
	c.Assert(err, qt.IsNil)
	ck2, err := NewKey(curve, []byte("election-2"))
	c.Assert(err, qt.IsNil)
	c.Assert(ck1.H.Equal(ck2.H), qt.IsFalse)
}
