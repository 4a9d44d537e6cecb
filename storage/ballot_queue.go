package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// Ballot is a ballot waiting to be verified and added to the tally of its
// election. Data holds the ballot wire encoding.
type Ballot struct {
	ElectionID types.ElectionID `cbor:"0,keyasint"`
	Weight     uint64           `cbor:"1,keyasint"`
	Data       types.HexBytes   `cbor:"2,keyasint"`
	ReceivedAt time.Time        `cbor:"3,keyasint"`
}

// BallotKey returns the queue key of a ballot: the election id followed by
// the truncated hash of the ballot bytes.
func BallotKey(b *Ballot) []byte {
	return joinKey(b.ElectionID.Bytes(), hashKey(b.Data))
}

// PushBallot stores a new ballot into the pending ballots queue and returns
// its key. The same ballot bytes can only be pushed once per election, and
// ballots of a stored election are only accepted while it is open.
func (s *Storage) PushBallot(b *Ballot) ([]byte, error) {
	val, err := encodeArtifact(b)
	if err != nil {
		return nil, fmt.Errorf("encode ballot: %w", err)
	}
	key := BallotKey(b)

	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	if s.isReserved(ballotSeenPrefix, key) {
		return nil, fmt.Errorf("ballot %x: %w", key, ErrAlreadyExists)
	}
	if e, err := s.Election(b.ElectionID); err == nil && e.Status != types.ElectionStatusOpen {
		return nil, fmt.Errorf("election %s is %s: %w", e.ID, e.Status, ErrElectionNotOpen)
	}
	wTx := s.db.WriteTx()
	if err := wTx.Set(joinKey(ballotPrefix, key), val); err != nil {
		wTx.Discard()
		return nil, err
	}
	if err := wTx.Set(joinKey(ballotSeenPrefix, key), []byte{1}); err != nil {
		wTx.Discard()
		return nil, err
	}
	if err := wTx.Commit(); err != nil {
		return nil, err
	}
	return key, nil
}

// NextBallot returns the next non-reserved ballot, creates a reservation, and returns it.
// It returns the ballot, the key, and an error. If no ballots are available, returns ErrNoMoreElements.
// The key is used to mark the ballot as done after processing.
func (s *Storage) NextBallot() (*Ballot, []byte, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	pr := prefixeddb.NewPrefixedReader(s.db, ballotPrefix)
	var chosenKey, chosenVal []byte
	if err := pr.Iterate(nil, func(k, v []byte) bool {
		if s.isReserved(ballotReservationPrefix, k) {
			return true
		}
		chosenKey = joinKey(k)
		chosenVal = joinKey(v)
		return false
	}); err != nil {
		return nil, nil, fmt.Errorf("iterate ballots: %w", err)
	}
	if chosenVal == nil {
		return nil, nil, ErrNoMoreElements
	}

	var b Ballot
	if err := decodeArtifact(chosenVal, &b); err != nil {
		return nil, nil, fmt.Errorf("decode ballot: %w", err)
	}
	if err := s.setReservation(ballotReservationPrefix, chosenKey); err != nil {
		return nil, nil, ErrNoMoreElements
	}
	return &b, chosenKey, nil
}

// MarkBallotDone removes a ballot and its reservation from the queue. It is
// used for ballots that were rejected; accepted ballots are removed by
// CommitBallot together with the tally update.
func (s *Storage) MarkBallotDone(k []byte) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.removeBallot(k)
}

func (s *Storage) removeBallot(k []byte) error {
	if err := s.deleteArtifact(ballotReservationPrefix, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if err := s.deleteArtifact(ballotPrefix, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete pending ballot: %w", err)
	}
	return nil
}

// ReleaseBallot drops the reservation of a ballot so it is processed again.
func (s *Storage) ReleaseBallot(k []byte) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	if err := s.deleteArtifact(ballotReservationPrefix, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// CountPendingBallots returns the number of queued ballots of an election,
// reserved or not.
func (s *Storage) CountPendingBallots(id types.ElectionID) int {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.countPendingBallots(id)
}

func (s *Storage) countPendingBallots(id types.ElectionID) int {
	rd := prefixeddb.NewPrefixedReader(s.db, ballotPrefix)
	count := 0
	if err := rd.Iterate(id.Bytes(), func(_, _ []byte) bool {
		count++
		return true
	}); err != nil {
		log.Warnw("failed to count pending ballots", "election", id.String(), "error", err.Error())
	}
	return count
}

// BallotID returns the printable form of a ballot key.
func BallotID(key []byte) string {
	return hex.EncodeToString(key)
}
