package tally

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/elgamal/dkg"
	"github.com/vocdoni/private-voting/util"
	"github.com/vocdoni/private-voting/vote"
)

type testElection struct {
	curve        ecc.Point
	pk           *elgamal.PublicKey
	ck           *commitment.Key
	fingerprint  vote.Fingerprint
	threshold    int
	secrets      map[int]ecc.Scalar
	publicShares map[int]ecc.Point
}

// newTestElection runs an honest key generation between members 1..n.
func newTestElection(c *qt.C, curveType string, threshold, n int) *testElection {
	curve := curves.New(curveType)
	rng := util.NewSeededReader([]byte(fmt.Sprintf("tally %s %d %d", curveType, threshold, n)))
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	participants := make(map[int]*dkg.Participant, n)
	coeffs := make(map[int][]ecc.Point, n)
	for _, id := range ids {
		p, err := dkg.NewParticipant(id, threshold, ids, curve)
		c.Assert(err, qt.IsNil)
		c.Assert(p.GenerateSecretPolynomial(rng), qt.IsNil)
		p.ComputeShares()
		participants[id] = p
		coeffs[id] = p.PublicCoeffs
	}
	for _, p := range participants {
		for id, other := range participants {
			if id != p.ID {
				c.Assert(p.ReceiveShare(id, other.SecretShares[p.ID], other.PublicCoeffs), qt.IsNil)
			}
		}
	}
	e := &testElection{
		curve:        curve,
		threshold:    threshold,
		secrets:      make(map[int]ecc.Scalar, n),
		publicShares: make(map[int]ecc.Point, n),
	}
	for id, p := range participants {
		c.Assert(p.AggregateShares(), qt.IsNil)
		e.secrets[id] = p.PrivateShare
		e.publicShares[id] = p.PublicShare()
	}
	e.pk = &elgamal.PublicKey{Point: dkg.AggregatePublicKey(curve, coeffs)}
	crs := []byte("tally test crs")
	ck, err := commitment.NewKey(curve, crs)
	c.Assert(err, qt.IsNil)
	e.ck = ck
	e.fingerprint = vote.NewFingerprint(crs, e.pk)
	return e
}

func (e *testElection) ballot(c *qt.C, options, choice int, seed string) *vote.Ballot {
	rng := util.NewSeededReader([]byte(seed))
	u, err := vote.NewUnitVector(options, choice)
	c.Assert(err, qt.IsNil)
	ev, err := vote.Prepare(rng, e.pk, u)
	c.Assert(err, qt.IsNil)
	b, err := ev.Ballot(rng, e.ck, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(b.Verify(e.pk, e.ck, e.fingerprint, options), qt.IsNil)
	return b
}

func (e *testElection) shares(c *qt.C, t *EncryptedTally, members ...int) []*DecryptShare {
	rng := util.NewSeededReader([]byte(fmt.Sprintf("shares %v", members)))
	var shares []*DecryptShare
	for _, id := range members {
		ds, err := NewDecryptShare(rng, t, id, e.secrets[id])
		c.Assert(err, qt.IsNil)
		c.Assert(ds.Verify(t, e.publicShares[id]), qt.IsNil)
		shares = append(shares, ds)
	}
	return shares
}

func TestTallyDecryption(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBN254, 3, 5)

	const options = 3
	tally, err := New(e.curve, options, e.fingerprint)
	c.Assert(err, qt.IsNil)
	for i, choice := range []int{0, 0, 1, 2} {
		b := e.ballot(c, options, choice, fmt.Sprintf("voter %d", i))
		c.Assert(tally.AddVote(b, 1), qt.IsNil)
	}

	for _, members := range [][]int{{1, 2, 3}, {2, 4, 5}, {1, 2, 3, 4, 5}} {
		shares := e.shares(c, tally, members...)
		result, err := Finish(tally, shares, e.publicShares, e.threshold, 10)
		c.Assert(err, qt.IsNil, qt.Commentf("members %v", members))
		c.Assert(result.Votes, qt.DeepEquals, []uint64{2, 1, 1})
		c.Assert(result.Verify(tally, shares, e.publicShares, e.threshold), qt.IsNil)

		wrong := &DecryptedTally{Votes: []uint64{1, 2, 1}}
		c.Assert(wrong.Verify(tally, shares, e.publicShares, e.threshold), qt.IsNotNil)
	}
}

func TestTallyWeights(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBabyJubJub, 2, 3)

	tally, err := New(e.curve, 2, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 2, 0, "w1"), 5), qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 2, 1, "w2"), 3), qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 2, 0, "w3"), 1), qt.IsNil)

	result, err := Finish(tally, e.shares(c, tally, 1, 3), e.publicShares, e.threshold, 100)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Votes, qt.DeepEquals, []uint64{6, 3})
}

func TestEmptyTally(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeEd25519, 1, 1)

	tally, err := New(e.curve, 4, e.fingerprint)
	c.Assert(err, qt.IsNil)
	result, err := Finish(tally, e.shares(c, tally, 1), e.publicShares, e.threshold, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Votes, qt.DeepEquals, []uint64{0, 0, 0, 0})

	_, err = New(e.curve, 0, e.fingerprint)
	c.Assert(err, qt.ErrorIs, ErrInvalidVectorLength)
}

func TestAddVoteErrors(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBN254, 1, 1)

	tally, err := New(e.curve, 3, e.fingerprint)
	c.Assert(err, qt.IsNil)
	b := e.ballot(c, 3, 2, "errors")
	before := tally.SnapshotHash()

	c.Assert(tally.AddVote(b, 0), qt.ErrorIs, ErrInvalidWeight)

	other, err := New(e.curve, 3, vote.Fingerprint{1})
	c.Assert(err, qt.IsNil)
	c.Assert(other.AddVote(b, 1), qt.ErrorIs, ErrWrongElection)

	// a ballot of five options pads to eight ciphertexts
	wide, err := New(e.curve, 5, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(wide.AddVote(b, 1), qt.ErrorIs, ErrInvalidVectorLength)

	c.Assert(tally.SnapshotHash(), qt.Equals, before)
}

func TestAddVoteRejectedBallotLeavesTally(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBN254, 1, 1)

	tally, err := New(e.curve, 3, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 3, 0, "first"), 1), qt.IsNil)
	before := tally.SnapshotHash()
	b := e.ballot(c, 3, 1, "second")

	foreign := elgamal.NewCiphertext(curves.New(curves.CurveTypeBabyJubJub))
	for name, replace := range map[string]func(cs []*elgamal.Ciphertext){
		"other curve last option": func(cs []*elgamal.Ciphertext) { cs[2] = foreign },
		"nil last option":         func(cs []*elgamal.Ciphertext) { cs[2] = nil },
		"nil padding entry":       func(cs []*elgamal.Ciphertext) { cs[3] = nil },
		"missing point":           func(cs []*elgamal.Ciphertext) { cs[1] = &elgamal.Ciphertext{C1: cs[1].C1} },
	} {
		c.Run(name, func(c *qt.C) {
			bad := *b
			bad.Ciphertexts = append([]*elgamal.Ciphertext{}, b.Ciphertexts...)
			replace(bad.Ciphertexts)
			c.Assert(tally.AddVote(&bad, 1), qt.ErrorIs, ErrDecoding)
			c.Assert(tally.SnapshotHash(), qt.Equals, before)
		})
	}

	other, err := New(curves.New(curves.CurveTypeBabyJubJub), 3, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(tally.Merge(other), qt.ErrorIs, ErrDecoding)
	c.Assert(tally.SnapshotHash(), qt.Equals, before)

	// the untouched tally still accepts the valid ballot
	c.Assert(tally.AddVote(b, 1), qt.IsNil)
	c.Assert(tally.SnapshotHash(), qt.Not(qt.Equals), before)
}

func TestMerge(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBN254, 1, 1)

	ballots := []*vote.Ballot{
		e.ballot(c, 2, 0, "m1"),
		e.ballot(c, 2, 1, "m2"),
		e.ballot(c, 2, 1, "m3"),
	}
	full, err := New(e.curve, 2, e.fingerprint)
	c.Assert(err, qt.IsNil)
	for _, b := range ballots {
		c.Assert(full.AddVote(b, 1), qt.IsNil)
	}

	shardA, err := New(e.curve, 2, e.fingerprint)
	c.Assert(err, qt.IsNil)
	shardB := shardA.Clone()
	c.Assert(shardA.AddVote(ballots[2], 1), qt.IsNil)
	c.Assert(shardB.AddVote(ballots[0], 1), qt.IsNil)
	c.Assert(shardB.AddVote(ballots[1], 1), qt.IsNil)
	c.Assert(shardA.Merge(shardB), qt.IsNil)
	c.Assert(shardA.SnapshotHash(), qt.Equals, full.SnapshotHash())

	other, err := New(e.curve, 2, vote.Fingerprint{7})
	c.Assert(err, qt.IsNil)
	c.Assert(full.Merge(other), qt.ErrorIs, ErrWrongElection)
	three, err := New(e.curve, 3, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(full.Merge(three), qt.ErrorIs, ErrInvalidVectorLength)
}

func TestFinishErrors(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBN254, 3, 5)

	tally, err := New(e.curve, 2, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 2, 0, "f1"), 1), qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 2, 0, "f2"), 1), qt.IsNil)
	shares := e.shares(c, tally, 1, 2, 3)

	c.Run("insufficient", func(c *qt.C) {
		_, err := Finish(tally, shares[:2], e.publicShares, e.threshold, 10)
		c.Assert(err, qt.ErrorIs, ErrInsufficientShares)
	})

	c.Run("duplicated member counts once", func(c *qt.C) {
		dup := []*DecryptShare{shares[0], shares[1], shares[1]}
		_, err := Finish(tally, dup, e.publicShares, e.threshold, 10)
		c.Assert(err, qt.ErrorIs, ErrInsufficientShares)
	})

	c.Run("stale snapshot", func(c *qt.C) {
		newer := tally.Clone()
		c.Assert(newer.AddVote(e.ballot(c, 2, 1, "f3"), 1), qt.IsNil)
		_, err := Finish(newer, shares, e.publicShares, e.threshold, 10)
		c.Assert(err, qt.ErrorIs, ErrStaleTallySnapshot)
	})

	c.Run("tampered share", func(c *qt.C) {
		bad := *shares[2]
		bad.Elements = []ShareElement{shares[2].Elements[1], shares[2].Elements[0]}
		_, err := Finish(tally, []*DecryptShare{shares[0], shares[1], &bad}, e.publicShares, e.threshold, 10)
		c.Assert(err, qt.ErrorIs, ErrProofVerificationFailed)
	})

	c.Run("share of another member", func(c *qt.C) {
		bad := *shares[2]
		bad.MemberIndex = 4
		_, err := Finish(tally, []*DecryptShare{shares[0], shares[1], &bad}, e.publicShares, e.threshold, 10)
		c.Assert(err, qt.ErrorIs, ErrProofVerificationFailed)
	})

	c.Run("unknown member", func(c *qt.C) {
		bad := *shares[2]
		bad.MemberIndex = 9
		_, err := Finish(tally, []*DecryptShare{shares[0], shares[1], &bad}, e.publicShares, e.threshold, 10)
		c.Assert(err, qt.ErrorIs, ErrProofVerificationFailed)
	})

	c.Run("max votes exceeded", func(c *qt.C) {
		_, err := Finish(tally, shares, e.publicShares, e.threshold, 1)
		c.Assert(err, qt.ErrorIs, ErrMaxVotesExceeded)
		result, err := Finish(tally, shares, e.publicShares, e.threshold, 2)
		c.Assert(err, qt.IsNil)
		c.Assert(result.Votes, qt.DeepEquals, []uint64{2, 0})
	})
}

func TestEncoding(t *testing.T) {
	c := qt.New(t)
	e := newTestElection(c, curves.CurveTypeBabyJubJub, 1, 2)

	tally, err := New(e.curve, 3, e.fingerprint)
	c.Assert(err, qt.IsNil)
	c.Assert(tally.AddVote(e.ballot(c, 3, 1, "enc"), 2), qt.IsNil)

	encoded := tally.Marshal()
	decoded, err := Unmarshal(e.curve, encoded)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded.Fingerprint(), qt.Equals, tally.Fingerprint())
	c.Assert(decoded.SnapshotHash(), qt.Equals, tally.SnapshotHash())

	for _, data := range [][]byte{nil, encoded[:10], encoded[:len(encoded)-1], append(append([]byte{}, encoded...), 1)} {
		_, err := Unmarshal(e.curve, data)
		c.Assert(err, qt.ErrorIs, ErrDecoding, qt.Commentf("length %d", len(data)))
	}

	ds := e.shares(c, tally, 2)[0]
	shareBytes := ds.Marshal()
	decodedShare, err := UnmarshalDecryptShare(e.curve, shareBytes)
	c.Assert(err, qt.IsNil)
	c.Assert(decodedShare.MemberIndex, qt.Equals, 2)
	c.Assert(decodedShare.Marshal(), qt.DeepEquals, shareBytes)
	c.Assert(decodedShare.Verify(decoded, e.publicShares[2]), qt.IsNil)

	_, err = UnmarshalDecryptShare(e.curve, shareBytes[:len(shareBytes)-1])
	c.Assert(err, qt.ErrorIs, ErrDecoding)
	zero := append([]byte{}, shareBytes...)
	copy(zero[:4], []byte{0, 0, 0, 0})
	_, err = UnmarshalDecryptShare(e.curve, zero)
	c.Assert(err, qt.ErrorIs, ErrDecoding)
}
