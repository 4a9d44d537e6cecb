// Package unitvector implements the Zhang-Oliynykov-Balogun zero knowledge
// argument that a vector of ElGamal ciphertexts encrypts a unit vector. The
// proof size is logarithmic in the vector length.
package unitvector

import (
	"errors"
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
)

// ErrInvalidWitness is returned by Generate when the witness does not match
// the statement.
var ErrInvalidWitness = errors.New("invalid unit vector witness")

// Proof is a non interactive unit vector proof.
type Proof struct {
	Announcements []*Announcement
	Ds            []*elgamal.Ciphertext
	Responses     []ResponseRandomness
	R             ecc.Scalar
}

// Bits returns the number of index bits covered by the proof.
func (p *Proof) Bits() int {
	return len(p.Announcements)
}

// Generate proves that ciphers encrypt the index-th unit vector under pk.
// randomness holds the encryption randomness of each ciphertext. Shorter
// vectors are padded to the next power of two with zero ciphertexts.
func Generate(
	rng io.Reader,
	ck *commitment.Key,
	pk *elgamal.PublicKey,
	ciphers []*elgamal.Ciphertext,
	randomness []ecc.Scalar,
	index int,
) (*Proof, error) {
	if len(ciphers) == 0 || len(ciphers) != len(randomness) {
		return nil, fmt.Errorf("%w: %d ciphertexts and %d randomness values",
			ErrInvalidWitness, len(ciphers), len(randomness))
	}
	if index < 0 || index >= len(ciphers) {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidWitness, index, len(ciphers))
	}
	curve := pk.Curve()
	paddedCiphers := padCiphertexts(curve, ciphers)
	paddedRandomness := padRandomness(curve, randomness)
	bits := Bits(len(paddedCiphers))
	if bits > MaxBits {
		return nil, fmt.Errorf("%w: vector too large", ErrInvalidWitness)
	}

	indexBits := Binrep(uint64(index), bits)
	blinding := make([]*BlindingRandomness, bits)
	announcements := make([]*Announcement, bits)
	for k, bit := range indexBits {
		br, ann, err := generateAndCommit(rng, ck, bit)
		if err != nil {
			return nil, fmt.Errorf("cannot generate announcement: %w", err)
		}
		blinding[k], announcements[k] = br, ann
	}

	// First verifier challenge
	cc := NewChallengeContext(ck, pk, paddedCiphers)
	cy := cc.FirstChallenge(announcements)

	// Encrypt the low degree coefficients of Σ_j cy^j·p_j
	polys := generatePolys(curve, len(paddedCiphers), indexBits, blinding)
	cyPowers := cy.Powers(len(paddedCiphers))
	ds := make([]*elgamal.Ciphertext, bits)
	rs := make([]ecc.Scalar, bits)
	for l := 0; l < bits; l++ {
		sum := ecc.NewScalar(curve)
		for j, p := range polys {
			sum = sum.Add(cyPowers[j].Mul(p.coefficient(l)))
		}
		d, r, err := pk.EncryptScalar(rng, sum)
		if err != nil {
			return nil, fmt.Errorf("cannot encrypt polynomial coefficient: %w", err)
		}
		ds[l], rs[l] = d, r
	}

	// Second verifier challenge
	cx := cc.SecondChallenge(ds)

	responses := make([]ResponseRandomness, bits)
	for k, bit := range indexBits {
		responses[k] = blinding[k].response(cx, bit)
	}

	// R = Σ_j r_j·cx^bits·cy^j + Σ_l R_l·cx^l
	cxPow := cx.Exp(uint64(bits))
	response := ecc.NewScalar(curve)
	for j, r := range paddedRandomness {
		response = response.Add(r.Mul(cxPow).Mul(cyPowers[j]))
	}
	for l, cxPowL := range cx.Powers(bits) {
		response = response.Add(rs[l].Mul(cxPowL))
	}

	return &Proof{
		Announcements: announcements,
		Ds:            ds,
		Responses:     responses,
		R:             response,
	}, nil
}

// Verify checks that ciphers encrypt a unit vector under pk. It returns false
// for any malformed input.
func Verify(ck *commitment.Key, pk *elgamal.PublicKey, ciphers []*elgamal.Ciphertext, proof *Proof) bool {
	if ck == nil || pk == nil || proof == nil || len(ciphers) == 0 {
		return false
	}
	curve := pk.Curve()
	if !wellFormed(curve, ck, ciphers, proof) {
		return false
	}
	paddedCiphers := padCiphertexts(curve, ciphers)
	bits := Bits(len(paddedCiphers))
	if proof.Bits() != bits || len(proof.Ds) != bits || len(proof.Responses) != bits {
		return false
	}

	cc := NewChallengeContext(ck, pk, paddedCiphers)
	cy := cc.FirstChallenge(proof.Announcements)
	cx := cc.SecondChallenge(proof.Ds)

	// check the committed index bits are 0 or 1
	for k, ann := range proof.Announcements {
		zwv := proof.Responses[k]
		// I·cx + B == Com(z, w)
		lhs := ecc.Sum(ecc.Mul(ann.I, cx), ann.B)
		if !ck.Commit(zwv.Z, zwv.W).C.Equal(lhs) {
			return false
		}
		// I·(cx - z) + A == Com(0, v)
		lhs = ecc.Sum(ecc.Mul(ann.I, cx.Sub(zwv.Z)), ann.A)
		if !ck.Commit(zwv.Z.Zero(), zwv.V).C.Equal(lhs) {
			return false
		}
	}

	// Σ_j cy^j·(C_j·cx^bits + Enc(-Π_k f_k(j); 0)) + Σ_l cx^l·D_l == Enc(0; R)
	cxPow := cx.Exp(uint64(bits))
	cyPowers := cy.Powers(len(paddedCiphers))
	acc := elgamal.NewCiphertext(curve)
	for j, c := range paddedCiphers {
		product := cx.One()
		for k, bit := range Binrep(uint64(j), bits) {
			z := proof.Responses[k].Z
			if bit {
				product = product.Mul(z)
			} else {
				product = product.Mul(cx.Sub(z))
			}
		}
		term := elgamal.NewCiphertext(curve).Mul(c, cxPow)
		term.C2.Sub(term.C2, ecc.BaseMul(curve, product))
		acc.Add(acc, term.Mul(term, cyPowers[j]))
	}
	for l, cxPowL := range cx.Powers(bits) {
		acc.Add(acc, elgamal.NewCiphertext(curve).Mul(proof.Ds[l], cxPowL))
	}
	return acc.Equal(pk.EncryptWithRandomness(proof.R.Zero(), proof.R))
}

// wellFormed checks every element of the statement and the proof is present
// and belongs to the curve of the public key.
func wellFormed(curve ecc.Point, ck *commitment.Key, ciphers []*elgamal.Ciphertext, proof *Proof) bool {
	points := []ecc.Point{ck.H}
	for _, c := range ciphers {
		if c == nil {
			return false
		}
		points = append(points, c.C1, c.C2)
	}
	for _, a := range proof.Announcements {
		if a == nil {
			return false
		}
		points = append(points, a.I, a.B, a.A)
	}
	for _, d := range proof.Ds {
		if d == nil {
			return false
		}
		points = append(points, d.C1, d.C2)
	}
	for _, p := range points {
		if p == nil || !ecc.SameCurve(curve, p) {
			return false
		}
	}
	if !proof.R.Valid() {
		return false
	}
	for _, r := range proof.Responses {
		if !r.Z.Valid() || !r.W.Valid() || !r.V.Valid() {
			return false
		}
	}
	return true
}
