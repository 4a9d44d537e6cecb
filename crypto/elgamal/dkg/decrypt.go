package dkg

import (
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
)

// ComputePartialDecryption computes the partial decryption using the participant's private share.
func (p *Participant) ComputePartialDecryption(c1 ecc.Point) ecc.Point {
	// Compute s_i = privateShare * C1.
	return ecc.Mul(c1, p.PrivateShare)
}

// LagrangeCoefficients returns the Lagrange coefficients at x = 0 for the
// given set of participant ids:
//
//	λ_i = Π_{j≠i} j / (j - i)
func LagrangeCoefficients(curve ecc.Point, participants []int) (map[int]ecc.Scalar, error) {
	seen := make(map[int]bool, len(participants))
	for _, id := range participants {
		if id <= 0 {
			return nil, fmt.Errorf("participant id must be positive, got %d", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicated participant id %d", id)
		}
		seen[id] = true
	}

	coeffs := make(map[int]ecc.Scalar, len(participants))
	for _, i := range participants {
		xi := ecc.ScalarFromUint64(curve, uint64(i))
		num := xi.One()
		den := xi.One()
		for _, j := range participants {
			if i == j {
				continue
			}
			xj := ecc.ScalarFromUint64(curve, uint64(j))
			num = num.Mul(xj)
			den = den.Mul(xj.Sub(xi))
		}
		inv, err := den.Inverse()
		if err != nil {
			return nil, fmt.Errorf("lagrange denominator for participant %d: %w", i, err)
		}
		coeffs[i] = num.Mul(inv)
	}
	return coeffs, nil
}

// CombineShares interpolates at zero the partial decryptions of the given
// participants, returning Σ λ_i·D_i = sk·C1.
func CombineShares(curve ecc.Point, partialDecryptions map[int]ecc.Point, participants []int) (ecc.Point, error) {
	lagrangeCoeffs, err := LagrangeCoefficients(curve, participants)
	if err != nil {
		return nil, fmt.Errorf("failed to compute Lagrange coefficients: %w", err)
	}
	s := curve.New()
	for _, id := range participants {
		pd, ok := partialDecryptions[id]
		if !ok {
			return nil, fmt.Errorf("missing partial decryption of participant %d", id)
		}
		s.Add(s, ecc.Mul(pd, lagrangeCoeffs[id]))
	}
	return s, nil
}

// CombinePartialDecryptions combines partial decryptions to recover the
// message of the ciphertext whose second component is c2.
func CombinePartialDecryptions(c2 ecc.Point, partialDecryptions map[int]ecc.Point, participants []int, maxMessage uint64) (uint64, error) {
	s, err := CombineShares(c2, partialDecryptions, participants)
	if err != nil {
		return 0, err
	}
	// Compute M = C2 - s.
	m := ecc.Diff(c2, s)
	message, err := elgamal.BabyStepGiantStep(m, ecc.Generator(c2), maxMessage)
	if err != nil {
		return 0, fmt.Errorf("failed to decrypt message: %w", err)
	}
	return message, nil
}
