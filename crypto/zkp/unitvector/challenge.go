package unitvector

import (
	"hash"

	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"golang.org/x/crypto/blake2b"
)

// ChallengeContext is the Fiat-Shamir transcript of a unit vector proof. It
// absorbs, in this order, the commitment key, the public key, every
// ciphertext, the announcements and finally the encrypted coefficients.
type ChallengeContext struct {
	curve ecc.Point
	h     hash.Hash
}

// NewChallengeContext seeds the transcript with the statement.
func NewChallengeContext(ck *commitment.Key, pk *elgamal.PublicKey, ciphers []*elgamal.Ciphertext) *ChallengeContext {
	h, _ := blake2b.New256(nil)
	h.Write(ck.Bytes())
	h.Write(pk.Bytes())
	for _, c := range ciphers {
		h.Write(c.Marshal())
	}
	return &ChallengeContext{curve: pk.Curve(), h: h}
}

// challenge hashes the current state without altering it.
func (cc *ChallengeContext) challenge() ecc.Scalar {
	return ecc.ScalarFromHash(cc.curve, cc.h.Sum(nil))
}

// FirstChallenge absorbs I, B and A of every announcement and returns cy.
func (cc *ChallengeContext) FirstChallenge(announcements []*Announcement) ecc.Scalar {
	for _, a := range announcements {
		cc.h.Write(a.I.Marshal())
		cc.h.Write(a.B.Marshal())
		cc.h.Write(a.A.Marshal())
	}
	return cc.challenge()
}

// SecondChallenge absorbs the encrypted polynomial coefficients and returns
// cx.
func (cc *ChallengeContext) SecondChallenge(ds []*elgamal.Ciphertext) ecc.Scalar {
	for _, d := range ds {
		cc.h.Write(d.Marshal())
	}
	return cc.challenge()
}
