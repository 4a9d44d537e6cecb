// Package dleq implements the Chaum-Pedersen proof of discrete logarithm
// equality used by committee members to show that a decrypt share sk·C1 was
// computed with the secret key behind their public share sk·G.
package dleq

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"golang.org/x/crypto/blake2b"
)

// Proof is a non interactive DLEQ proof in its compact form: the Fiat-Shamir
// challenge and the response.
type Proof struct {
	Challenge ecc.Scalar
	Response  ecc.Scalar
}

// Size is the size of the encoding of a proof.
const Size = 2 * ecc.ScalarSize

// challenge hashes G || pk || C1 || share || A1 || A2.
func challenge(c1, share, pk, a1, a2 ecc.Point) ecc.Scalar {
	h, _ := blake2b.New256(nil)
	h.Write(ecc.Generator(pk).Marshal())
	h.Write(pk.Marshal())
	h.Write(c1.Marshal())
	h.Write(share.Marshal())
	h.Write(a1.Marshal())
	h.Write(a2.Marshal())
	return ecc.ScalarFromHash(pk, h.Sum(nil))
}

// Generate proves that share = sk·c1 for the secret sk of pk = sk·G. The
// share itself is returned so callers compute it only once.
func Generate(rng io.Reader, c1 ecc.Point, sk ecc.Scalar) (ecc.Point, *Proof, error) {
	pk := ecc.BaseMul(c1, sk)
	share := ecc.Mul(c1, sk)
	w, err := ecc.RandomScalar(rng, c1)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot generate dleq proof: %w", err)
	}
	a1 := ecc.BaseMul(c1, w)
	a2 := ecc.Mul(c1, w)
	e := challenge(c1, share, pk, a1, a2)
	return share, &Proof{
		Challenge: e,
		Response:  w.Add(e.Mul(sk)),
	}, nil
}

// Verify checks the proof that log_G(pk) == log_c1(share).
func Verify(c1, share, pk ecc.Point, proof *Proof) bool {
	if proof == nil || c1 == nil || share == nil || pk == nil {
		return false
	}
	if !ecc.SameCurve(c1, share) || !ecc.SameCurve(c1, pk) {
		return false
	}
	// A1 = z·G - e·pk, A2 = z·C1 - e·share
	a1 := ecc.Diff(ecc.BaseMul(pk, proof.Response), ecc.Mul(pk, proof.Challenge))
	a2 := ecc.Diff(ecc.Mul(c1, proof.Response), ecc.Mul(share, proof.Challenge))
	return challenge(c1, share, pk, a1, a2).Equal(proof.Challenge)
}

// Marshal returns challenge || response.
func (p *Proof) Marshal() []byte {
	var buf bytes.Buffer
	buf.Write(p.Challenge.Bytes())
	buf.Write(p.Response.Bytes())
	return buf.Bytes()
}

// Unmarshal decodes a proof for the given curve.
func Unmarshal(curve ecc.Point, data []byte) (*Proof, error) {
	if err := ecc.CheckLength("dleq proof", data, Size); err != nil {
		return nil, err
	}
	e, err := ecc.ScalarFromBytes(curve, data[:ecc.ScalarSize])
	if err != nil {
		return nil, fmt.Errorf("dleq challenge: %w", err)
	}
	z, err := ecc.ScalarFromBytes(curve, data[ecc.ScalarSize:])
	if err != nil {
		return nil, fmt.Errorf("dleq response: %w", err)
	}
	return &Proof{Challenge: e, Response: z}, nil
}
