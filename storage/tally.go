package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// tallyRecord is the stored form of an encrypted tally.
type tallyRecord struct {
	Data    types.HexBytes `cbor:"0,keyasint"`
	Ballots uint64         `cbor:"1,keyasint"`
}

// SetTally stores the encrypted tally of an election.
func (s *Storage) SetTally(id types.ElectionID, t *tally.EncryptedTally, ballots uint64) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.setArtifact(tallyPrefix, id.Bytes(), &tallyRecord{Data: t.Marshal(), Ballots: ballots})
}

// Tally returns the encrypted tally of an election and the number of ballots
// it accumulates.
func (s *Storage) Tally(id types.ElectionID, curve ecc.Point) (*tally.EncryptedTally, uint64, error) {
	var rec tallyRecord
	if err := s.getArtifact(tallyPrefix, id.Bytes(), &rec); err != nil {
		return nil, 0, err
	}
	t, err := tally.Unmarshal(curve, rec.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("stored tally of election %s: %w", id, err)
	}
	return t, rec.Ballots, nil
}

// CommitBallot stores the new tally of an election and removes the ballot
// that produced it from the queue, atomically. It fails with
// ErrElectionNotOpen once the election has been closed, so a closed tally
// never changes.
func (s *Storage) CommitBallot(key []byte, id types.ElectionID, t *tally.EncryptedTally, ballots uint64) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	e, err := s.Election(id)
	if err != nil {
		return err
	}
	if e.Status != types.ElectionStatusOpen {
		return fmt.Errorf("election %s is %s: %w", id, e.Status, ErrElectionNotOpen)
	}
	e.Ballots = ballots
	electionVal, err := encodeArtifact(e)
	if err != nil {
		return err
	}
	tallyVal, err := encodeArtifact(&tallyRecord{Data: t.Marshal(), Ballots: ballots})
	if err != nil {
		return err
	}

	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(joinKey(tallyPrefix, id.Bytes()), tallyVal); err != nil {
		return err
	}
	if err := wTx.Set(joinKey(electionPrefix, id.Bytes()), electionVal); err != nil {
		return err
	}
	if err := wTx.Delete(joinKey(ballotPrefix, key)); err != nil {
		return err
	}
	if err := wTx.Delete(joinKey(ballotReservationPrefix, key)); err != nil {
		return err
	}
	return wTx.Commit()
}

func shareKey(id types.ElectionID, member int) []byte {
	idx := make([]byte, 4)
	binary.BigEndian.PutUint32(idx, uint32(member))
	return joinKey(id.Bytes(), idx)
}

// SetDecryptShare stores the decrypt share of a committee member, replacing
// any previous one of the same member.
func (s *Storage) SetDecryptShare(id types.ElectionID, ds *tally.DecryptShare) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), sharePrefix)
	if err := wTx.Set(shareKey(id, ds.MemberIndex), ds.Marshal()); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// DecryptShares returns the stored decrypt shares of an election, ordered by
// member index.
func (s *Storage) DecryptShares(id types.ElectionID, curve ecc.Point) ([]*tally.DecryptShare, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, sharePrefix)
	var shares []*tally.DecryptShare
	var decodeErr error
	if err := rd.Iterate(id.Bytes(), func(_, v []byte) bool {
		ds, err := tally.UnmarshalDecryptShare(curve, v)
		if err != nil {
			decodeErr = err
			return false
		}
		shares = append(shares, ds)
		return true
	}); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("stored decrypt share: %w", decodeErr)
	}
	return shares, nil
}

// SetResult stores the decrypted tally of an election and moves it to the
// results status.
func (s *Storage) SetResult(id types.ElectionID, r *tally.DecryptedTally) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	e, err := s.Election(id)
	if err != nil {
		return err
	}
	e.Status = types.ElectionStatusResults
	e.Result = make([]*types.BigInt, len(r.Votes))
	for i, v := range r.Votes {
		e.Result[i] = types.NewInt(v)
	}
	electionVal, err := encodeArtifact(e)
	if err != nil {
		return err
	}
	resultVal, err := encodeArtifact(r)
	if err != nil {
		return err
	}
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(joinKey(resultPrefix, id.Bytes()), resultVal); err != nil {
		return err
	}
	if err := wTx.Set(joinKey(electionPrefix, id.Bytes()), electionVal); err != nil {
		return err
	}
	return wTx.Commit()
}

// Result returns the decrypted tally of an election, or ErrNotFound.
func (s *Storage) Result(id types.ElectionID) (*tally.DecryptedTally, error) {
	r := &tally.DecryptedTally{}
	if err := s.getArtifact(resultPrefix, id.Bytes(), r); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}
