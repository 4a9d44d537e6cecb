package tally

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/elgamal/dkg"
	"github.com/vocdoni/private-voting/log"
)

// DecryptedTally is the final result of an election: the number of weighted
// votes of each option.
type DecryptedTally struct {
	Votes []uint64 `json:"votes"`
}

// validShares verifies every share and returns the distinct members that
// contributed, in ascending order. A stale or invalid share fails the whole
// call. Repeated shares of the same member are ignored after the first one.
func validShares(t *EncryptedTally, shares []*DecryptShare, publicShares map[int]ecc.Point, threshold int) (map[int]*DecryptShare, []int, error) {
	if threshold <= 0 {
		return nil, nil, fmt.Errorf("invalid threshold %d", threshold)
	}
	byMember := make(map[int]*DecryptShare, len(shares))
	for _, ds := range shares {
		if ds == nil {
			continue
		}
		if _, ok := byMember[ds.MemberIndex]; ok {
			continue
		}
		pub, ok := publicShares[ds.MemberIndex]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown committee member %d", ErrProofVerificationFailed, ds.MemberIndex)
		}
		if err := ds.Verify(t, pub); err != nil {
			return nil, nil, err
		}
		byMember[ds.MemberIndex] = ds
	}
	if len(byMember) < threshold {
		return nil, nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientShares, len(byMember), threshold)
	}
	ids := make([]int, 0, len(byMember))
	for id := range byMember {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return byMember, ids, nil
}

// plaintexts combines the shares and returns the message points M_i = m_i·G
// of every option.
func plaintexts(t *EncryptedTally, byMember map[int]*DecryptShare, ids []int) ([]ecc.Point, error) {
	curve := t.Curve()
	points := make([]ecc.Point, t.Options())
	for i, ct := range t.ciphertexts {
		partials := make(map[int]ecc.Point, len(ids))
		for _, id := range ids {
			partials[id] = byMember[id].Elements[i].Share
		}
		s, err := dkg.CombineShares(curve, partials, ids)
		if err != nil {
			return nil, err
		}
		points[i] = ecc.Diff(ct.C2, s)
	}
	return points, nil
}

// Finish verifies the decrypt shares and decrypts every option of the tally.
// At least threshold distinct members must have contributed a share bound to
// the current tally snapshot. Counts are searched in [0, maxVotes].
func Finish(t *EncryptedTally, shares []*DecryptShare, publicShares map[int]ecc.Point, threshold int, maxVotes uint64) (*DecryptedTally, error) {
	byMember, ids, err := validShares(t, shares, publicShares, threshold)
	if err != nil {
		return nil, err
	}
	points, err := plaintexts(t, byMember, ids)
	if err != nil {
		return nil, err
	}
	g := ecc.Generator(t.Curve())
	result := &DecryptedTally{Votes: make([]uint64, len(points))}
	for i, m := range points {
		v, err := elgamal.BabyStepGiantStep(m, g, maxVotes)
		if errors.Is(err, elgamal.ErrDiscreteLogNotFound) {
			return nil, fmt.Errorf("%w: option %d, max %d", ErrMaxVotesExceeded, i, maxVotes)
		}
		if err != nil {
			return nil, err
		}
		result.Votes[i] = v
	}
	log.Debugw("tally decrypted", "options", len(result.Votes), "members", ids)
	return result, nil
}

// Verify checks that the result is the decryption of the tally under the
// given shares, without searching any discrete logarithm.
func (r *DecryptedTally) Verify(t *EncryptedTally, shares []*DecryptShare, publicShares map[int]ecc.Point, threshold int) error {
	if len(r.Votes) != t.Options() {
		return fmt.Errorf("%w: result has %d options, tally %d", ErrInvalidVectorLength, len(r.Votes), t.Options())
	}
	byMember, ids, err := validShares(t, shares, publicShares, threshold)
	if err != nil {
		return err
	}
	points, err := plaintexts(t, byMember, ids)
	if err != nil {
		return err
	}
	curve := t.Curve()
	for i, m := range points {
		expected := ecc.BaseMul(curve, ecc.ScalarFromUint64(curve, r.Votes[i]))
		if !m.Equal(expected) {
			return fmt.Errorf("result does not match the tally at option %d", i)
		}
	}
	return nil
}
