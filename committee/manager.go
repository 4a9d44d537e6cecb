package committee

import (
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/elgamal/dkg"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/vote"
)

// CommitteeMembersManager runs a whole key generation ceremony in a single
// process. It is meant for tests and for ceremonies where one operator sets
// up every member file.
type CommitteeMembersManager struct {
	crs         []byte
	ck          *commitment.Key
	threshold   int
	members     []*MemberState
	electionKey *ElectionPublicKey
}

// NewCommitteeMembersManager generates the keys of count members so that any
// threshold of them can decrypt.
func NewCommitteeMembersManager(rng io.Reader, curve ecc.Point, crs []byte, threshold, count int) (*CommitteeMembersManager, error) {
	if threshold == 0 || threshold > count {
		return nil, fmt.Errorf("invalid threshold %d for %d members", threshold, count)
	}
	ck, err := commitment.NewKey(curve, crs)
	if err != nil {
		return nil, err
	}
	ids := make([]int, count)
	commKeys := make(map[int]*MemberCommunicationKey, count)
	commPublic := make(map[int]*elgamal.PublicKey, count)
	for i := range ids {
		ids[i] = i + 1
		if commKeys[ids[i]], err = NewMemberCommunicationKey(rng, curve); err != nil {
			return nil, err
		}
		commPublic[ids[i]] = commKeys[ids[i]].Public()
	}

	participants := make([]*dkg.Participant, count)
	messages := make([]*DealerMessage, count)
	for i, id := range ids {
		if participants[i], err = dkg.NewParticipant(id, threshold, ids, curve); err != nil {
			return nil, err
		}
		if messages[i], err = Deal(rng, participants[i], commPublic); err != nil {
			return nil, fmt.Errorf("member %d: %w", id, err)
		}
	}

	m := &CommitteeMembersManager{
		crs:       crs,
		ck:        ck,
		threshold: threshold,
		members:   make([]*MemberState, count),
	}
	for i, p := range participants {
		if m.members[i], err = NewMemberState(commKeys[p.ID], p, messages); err != nil {
			return nil, fmt.Errorf("member %d: %w", p.ID, err)
		}
		key := m.members[i].ElectionPublicKey()
		if m.electionKey == nil {
			m.electionKey = key
		} else if !m.electionKey.Equal(key) {
			return nil, fmt.Errorf("member %d derived a different election key", p.ID)
		}
	}
	log.Debugw("committee created", "members", count, "threshold", threshold, "curve", curve.Type())
	return m, nil
}

// Members returns the member states, ordered by index.
func (m *CommitteeMembersManager) Members() []*MemberState {
	return m.members
}

// Member returns the member with the given 1-based index, or nil.
func (m *CommitteeMembersManager) Member(index int) *MemberState {
	if index <= 0 || index > len(m.members) {
		return nil
	}
	return m.members[index-1]
}

// ElectionPublicKey returns the joint election key.
func (m *CommitteeMembersManager) ElectionPublicKey() *ElectionPublicKey {
	return m.electionKey
}

// CRS returns the common reference string of the election.
func (m *CommitteeMembersManager) CRS() []byte {
	return m.crs
}

// CommitmentKey returns the commitment key derived from the CRS.
func (m *CommitteeMembersManager) CommitmentKey() *commitment.Key {
	return m.ck
}

// Threshold returns the number of members needed to decrypt.
func (m *CommitteeMembersManager) Threshold() int {
	return m.threshold
}

// Fingerprint returns the fingerprint of the election.
func (m *CommitteeMembersManager) Fingerprint() vote.Fingerprint {
	return m.electionKey.Fingerprint(m.crs)
}

// PublicShares returns the public share of every member.
func (m *CommitteeMembersManager) PublicShares() map[int]ecc.Point {
	return m.members[0].PublicShares()
}

// Decrypt asks the given members for decrypt shares and combines them.
func (m *CommitteeMembersManager) Decrypt(rng io.Reader, t *tally.EncryptedTally, maxVotes uint64, members ...int) (*tally.DecryptedTally, error) {
	shares := make([]*tally.DecryptShare, 0, len(members))
	for _, idx := range members {
		member := m.Member(idx)
		if member == nil {
			return nil, fmt.Errorf("unknown member %d, committee members are %v", idx, memberIDs(m.PublicShares()))
		}
		ds, err := member.ProduceDecryptShares(rng, t)
		if err != nil {
			return nil, err
		}
		shares = append(shares, ds)
	}
	return tally.Finish(t, shares, m.PublicShares(), m.threshold, maxVotes)
}
