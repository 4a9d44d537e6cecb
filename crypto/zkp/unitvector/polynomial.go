package unitvector

import "github.com/vocdoni/private-voting/crypto/ecc"

// polynomial holds its coefficients, lowest degree first.
type polynomial []ecc.Scalar

// mul returns p·q.
func (p polynomial) mul(q polynomial) polynomial {
	out := make(polynomial, len(p)+len(q)-1)
	for i := range out {
		out[i] = p[0].Zero()
	}
	for i, a := range p {
		for j, b := range q {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return out
}

// coefficient returns the coefficient of x^i, zero if beyond the degree.
func (p polynomial) coefficient(i int) ecc.Scalar {
	if i < len(p) {
		return p[i]
	}
	return p[0].Zero()
}

// generatePolys builds, for every index j of a vector of size n, the
// polynomial
//
//	p_j(x) = Π_k (bit_k(j) ? beta_k + i_k·x : -beta_k + (1-i_k)·x)
//
// whose coefficient of x^bits is 1 only for j equal to the chosen index.
func generatePolys(curve ecc.Point, n int, index []bool, blinding []*BlindingRandomness) []polynomial {
	one := ecc.NewScalar(curve).One()
	// the two possible linear factors of every bit
	factors := make([][2]polynomial, len(index))
	for k, bit := range index {
		i := bitScalar(curve, bit)
		beta := blinding[k].beta
		factors[k] = [2]polynomial{
			{beta.Neg(), one.Sub(i)},
			{beta, i},
		}
	}

	polys := make([]polynomial, n)
	for j := 0; j < n; j++ {
		p := polynomial{one}
		for k, bit := range Binrep(uint64(j), len(index)) {
			if bit {
				p = p.mul(factors[k][1])
			} else {
				p = p.mul(factors[k][0])
			}
		}
		polys[j] = p
	}
	return polys
}
