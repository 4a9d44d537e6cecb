package unitvector

import (
	"io"

	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
)

// BlindingRandomness holds the secret randomness used to commit to one bit
// of the chosen index.
type BlindingRandomness struct {
	alpha ecc.Scalar
	beta  ecc.Scalar
	gamma ecc.Scalar
	delta ecc.Scalar
}

// Announcement is the first prover message for one bit i of the index:
//
//	I = Com(i, alpha), B = Com(beta, gamma), A = Com(i·beta, delta)
type Announcement struct {
	I ecc.Point
	B ecc.Point
	A ecc.Point
}

// ResponseRandomness is the prover response for one bit.
type ResponseRandomness struct {
	Z ecc.Scalar
	W ecc.Scalar
	V ecc.Scalar
}

// bitScalar returns 1 or 0 as a scalar of the given curve.
func bitScalar(curve ecc.Point, bit bool) ecc.Scalar {
	s := ecc.NewScalar(curve)
	if bit {
		return s.One()
	}
	return s
}

// generateAndCommit draws the blinding randomness of a bit and computes its
// announcement.
func generateAndCommit(rng io.Reader, ck *commitment.Key, bit bool) (*BlindingRandomness, *Announcement, error) {
	curve := ck.Curve()
	scalars := make([]ecc.Scalar, 4)
	for i := range scalars {
		s, err := ecc.RandomScalar(rng, curve)
		if err != nil {
			return nil, nil, err
		}
		scalars[i] = s
	}
	br := &BlindingRandomness{
		alpha: scalars[0],
		beta:  scalars[1],
		gamma: scalars[2],
		delta: scalars[3],
	}
	i := bitScalar(curve, bit)
	return br, &Announcement{
		I: ck.Commit(i, br.alpha).C,
		B: ck.Commit(br.beta, br.gamma).C,
		A: ck.Commit(i.Mul(br.beta), br.delta).C,
	}, nil
}

// response computes z = i·cx + beta, w = alpha·cx + gamma and
// v = alpha·(cx - z) + delta.
func (br *BlindingRandomness) response(cx ecc.Scalar, bit bool) ResponseRandomness {
	z := br.beta
	if bit {
		z = cx.Add(br.beta)
	}
	return ResponseRandomness{
		Z: z,
		W: br.alpha.Mul(cx).Add(br.gamma),
		V: br.alpha.Mul(cx.Sub(z)).Add(br.delta),
	}
}
