// Package election decodes the cryptographic parameters of a stored election
// setup, so the sequencer and the API verify ballots and shares the same way.
package election

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/elgamal/dkg"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
	"github.com/vocdoni/private-voting/vote"
)

// Keys holds the decoded parameters of an election.
type Keys struct {
	Election      *types.Election
	Curve         ecc.Point
	PublicKey     *elgamal.PublicKey
	CommitmentKey *commitment.Key
	Fingerprint   vote.Fingerprint
	PublicShares  map[int]ecc.Point
}

// Load decodes and checks the parameters of an election setup. The stored
// fingerprint must match the one derived from the CRS and the public key.
func Load(e *types.Election) (*Keys, error) {
	if !curves.IsValid(e.Curve) {
		return nil, fmt.Errorf("unsupported curve %q", e.Curve)
	}
	curve := curves.New(e.Curve)
	pk, err := elgamal.PublicKeyFromBytes(curve, e.PublicKey)
	if err != nil {
		return nil, err
	}
	ck, err := commitment.NewKey(curve, e.CRS)
	if err != nil {
		return nil, err
	}
	k := &Keys{
		Election:      e,
		Curve:         curve,
		PublicKey:     pk,
		CommitmentKey: ck,
		Fingerprint:   vote.NewFingerprint(e.CRS, pk),
		PublicShares:  make(map[int]ecc.Point, len(e.PublicShares)),
	}
	if len(e.Fingerprint) > 0 && !bytes.Equal(e.Fingerprint, k.Fingerprint[:]) {
		return nil, fmt.Errorf("%w: stored fingerprint does not match the election keys", vote.ErrWrongElection)
	}
	for idx, b := range e.PublicShares {
		if idx <= 0 {
			return nil, fmt.Errorf("invalid member index %d", idx)
		}
		if k.PublicShares[idx], err = ecc.Decode(curve, b); err != nil {
			return nil, fmt.Errorf("public share of member %d: %w", idx, err)
		}
	}
	return k, nil
}

// NewTally returns the empty encrypted tally of the election.
func (k *Keys) NewTally() (*tally.EncryptedTally, error) {
	return tally.New(k.Curve, k.Election.Options, k.Fingerprint)
}

// VerifyBallot decodes a ballot and checks it against the election.
func (k *Keys) VerifyBallot(data []byte) (*vote.Ballot, error) {
	b, err := vote.UnmarshalBallot(k.Curve, data)
	if err != nil {
		return nil, err
	}
	if err := b.Verify(k.PublicKey, k.CommitmentKey, k.Fingerprint, k.Election.Options); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that an election setup is usable: the option count, the
// maximum vote count and the threshold are in range, and the public shares of the committee interpolate
// to the election public key.
func (k *Keys) Validate() error {
	e := k.Election
	if e.Options < 1 || e.Options > config.MaxOptions {
		return fmt.Errorf("options must be between 1 and %d", config.MaxOptions)
	}
	if e.MaxVotes < 1 || e.MaxVotes > config.MaxVotesLimit {
		return fmt.Errorf("max votes must be between 1 and %d, got %d", uint64(config.MaxVotesLimit), e.MaxVotes)
	}
	if e.Threshold < 1 || e.Threshold > len(k.PublicShares) {
		return fmt.Errorf("threshold %d out of range for %d committee members", e.Threshold, len(k.PublicShares))
	}
	ids := make([]int, 0, len(k.PublicShares))
	for idx := range k.PublicShares {
		ids = append(ids, idx)
	}
	sort.Ints(ids)
	// the lowest and highest subsets must both reach the public key
	for _, subset := range [][]int{ids[:e.Threshold], ids[len(ids)-e.Threshold:]} {
		pk, err := dkg.CombineShares(k.Curve, k.PublicShares, subset)
		if err != nil {
			return err
		}
		if !pk.Equal(k.PublicKey.Point) {
			return fmt.Errorf("public shares of members %v do not match the election public key", subset)
		}
	}
	return nil
}
