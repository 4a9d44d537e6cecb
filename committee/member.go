package committee

import (
	"fmt"
	"io"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/elgamal/dkg"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/tally"
)

// MemberState is what a committee member keeps after the key generation.
type MemberState struct {
	index        int
	threshold    int
	secret       ecc.Scalar
	publicShare  ecc.Point
	publicShares map[int]ecc.Point
	electionKey  *ElectionPublicKey
}

// NewMemberState completes the key generation for participant p, which must
// have dealt already. messages holds the dealer messages of every member; the
// own message of p is skipped.
func NewMemberState(commKey *MemberCommunicationKey, p *dkg.Participant, messages []*DealerMessage) (*MemberState, error) {
	commitments := make(map[int][]ecc.Point, len(messages))
	for _, msg := range messages {
		if _, ok := commitments[msg.Dealer]; ok {
			return nil, fmt.Errorf("duplicated dealer %d", msg.Dealer)
		}
		commitments[msg.Dealer] = msg.Commitments
		if msg.Dealer == p.ID {
			continue
		}
		if err := receive(commKey, p, msg); err != nil {
			return nil, err
		}
	}
	for _, id := range p.Participants {
		if _, ok := commitments[id]; !ok {
			return nil, fmt.Errorf("missing dealer message of member %d", id)
		}
	}
	if err := p.AggregateShares(); err != nil {
		return nil, err
	}
	p.AggregatePublicKey(commitments)

	m := &MemberState{
		index:        p.ID,
		threshold:    p.Threshold,
		secret:       p.PrivateShare,
		publicShare:  p.PublicShare(),
		publicShares: make(map[int]ecc.Point, len(p.Participants)),
		electionKey:  NewElectionPublicKey(&elgamal.PublicKey{Point: p.PublicKey}),
	}
	for _, id := range p.Participants {
		m.publicShares[id] = dkg.ComputePublicShare(p.CurvePoint, id, commitments)
	}
	if !m.publicShares[p.ID].Equal(m.publicShare) {
		return nil, fmt.Errorf("%w: public share of member %d does not match the commitments", dkg.ErrInvalidShare, p.ID)
	}
	return m, nil
}

// Index returns the 1-based member index.
func (m *MemberState) Index() int {
	return m.index
}

// Threshold returns the number of members needed to decrypt.
func (m *MemberState) Threshold() int {
	return m.threshold
}

// PublicShare returns s_i·G.
func (m *MemberState) PublicShare() ecc.Point {
	return m.publicShare
}

// PublicShares returns the public share of every member, by index.
func (m *MemberState) PublicShares() map[int]ecc.Point {
	return m.publicShares
}

// SecretShare returns the member secret share s_i.
func (m *MemberState) SecretShare() ecc.Scalar {
	return m.secret
}

// ElectionPublicKey returns the joint election key.
func (m *MemberState) ElectionPublicKey() *ElectionPublicKey {
	return m.electionKey
}

// ProduceDecryptShares returns the member contribution to the decryption of
// the tally.
func (m *MemberState) ProduceDecryptShares(rng io.Reader, t *tally.EncryptedTally) (*tally.DecryptShare, error) {
	ds, err := tally.NewDecryptShare(rng, t, m.index, m.secret)
	if err != nil {
		return nil, err
	}
	log.Debugw("decrypt share produced", "member", m.index, "snapshot", ds.Snapshot.String())
	return ds, nil
}

// memberStateCBOR is the persisted form of a member state.
type memberStateCBOR struct {
	Curve        string         `cbor:"curve"`
	Index        int            `cbor:"index"`
	Threshold    int            `cbor:"threshold"`
	Secret       []byte         `cbor:"secret"`
	ElectionKey  []byte         `cbor:"electionKey"`
	PublicShares map[int][]byte `cbor:"publicShares"`
}

// MarshalCBOR implements cbor.Marshaler. The encoding carries the secret
// share and must be stored accordingly.
func (m *MemberState) MarshalCBOR() ([]byte, error) {
	w := memberStateCBOR{
		Curve:        m.publicShare.Type(),
		Index:        m.index,
		Threshold:    m.threshold,
		Secret:       m.secret.Bytes(),
		ElectionKey:  m.electionKey.Bytes(),
		PublicShares: make(map[int][]byte, len(m.publicShares)),
	}
	for id, p := range m.publicShares {
		w.PublicShares[id] = p.Marshal()
	}
	return cbor.Marshal(w)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (m *MemberState) UnmarshalCBOR(data []byte) error {
	var w memberStateCBOR
	if err := cbor.Unmarshal(data, &w); err != nil {
		return ecc.NewDecodingError("member state", "%v", err)
	}
	if !curves.IsValid(w.Curve) {
		return ecc.NewDecodingError("member state", "unsupported curve %q", w.Curve)
	}
	if w.Index <= 0 || w.Threshold <= 0 || w.Threshold > len(w.PublicShares) {
		return ecc.NewDecodingError("member state", "invalid index %d or threshold %d", w.Index, w.Threshold)
	}
	curve := curves.New(w.Curve)
	secret, err := ecc.ScalarFromBytes(curve, w.Secret)
	if err != nil {
		return err
	}
	key, err := ElectionPublicKeyFromBytes(curve, w.ElectionKey)
	if err != nil {
		return err
	}
	shares := make(map[int]ecc.Point, len(w.PublicShares))
	for id, b := range w.PublicShares {
		if shares[id], err = ecc.Decode(curve, b); err != nil {
			return err
		}
	}
	own, ok := shares[w.Index]
	if !ok || !own.Equal(ecc.BaseMul(curve, secret)) {
		return ecc.NewDecodingError("member state", "secret share does not match the public share of member %d", w.Index)
	}
	*m = MemberState{
		index:        w.Index,
		threshold:    w.Threshold,
		secret:       secret,
		publicShare:  own,
		publicShares: shares,
		electionKey:  key,
	}
	return nil
}

// memberIDs returns the sorted member indexes of a public share map.
func memberIDs(shares map[int]ecc.Point) []int {
	ids := make([]int, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
