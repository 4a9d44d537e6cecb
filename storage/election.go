package storage

import (
	"fmt"

	"github.com/vocdoni/private-voting/types"
)

// SetElection stores a new election. It fails with ErrAlreadyExists if the id
// is taken.
func (s *Storage) SetElection(e *types.Election) error {
	if e == nil {
		return fmt.Errorf("nil election")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	var existing types.Election
	if err := s.getArtifact(electionPrefix, e.ID.Bytes(), &existing); err == nil {
		return fmt.Errorf("election %s: %w", e.ID, ErrAlreadyExists)
	}
	return s.setArtifact(electionPrefix, e.ID.Bytes(), e)
}

// Election returns the election with the given id, or ErrNotFound.
func (s *Storage) Election(id types.ElectionID) (*types.Election, error) {
	e := &types.Election{}
	if err := s.getArtifact(electionPrefix, id.Bytes(), e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListElections returns the ids of every stored election.
func (s *Storage) ListElections() ([]types.ElectionID, error) {
	keys, err := s.listArtifacts(electionPrefix, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]types.ElectionID, 0, len(keys))
	for _, k := range keys {
		var id types.ElectionID
		if len(k) != len(id) {
			continue
		}
		copy(id[:], k)
		ids = append(ids, id)
	}
	return ids, nil
}

// SetElectionStatus moves an election to a new status. Statuses only move
// forward.
func (s *Storage) SetElectionStatus(id types.ElectionID, status types.ElectionStatus) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	e, err := s.Election(id)
	if err != nil {
		return err
	}
	if status < e.Status {
		return fmt.Errorf("cannot move election %s from %s to %s", id, e.Status, status)
	}
	e.Status = status
	return s.setArtifact(electionPrefix, id.Bytes(), e)
}

// CloseElection freezes the tally of an open election. It fails with
// ErrPendingBallots while ballots of the election are still queued, so every
// ballot accepted before closing is part of the final tally.
func (s *Storage) CloseElection(id types.ElectionID) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	e, err := s.Election(id)
	if err != nil {
		return err
	}
	if e.Status != types.ElectionStatusOpen {
		return fmt.Errorf("election %s is %s: %w", id, e.Status, ErrElectionNotOpen)
	}
	if n := s.countPendingBallots(id); n > 0 {
		return fmt.Errorf("election %s has %d queued ballots: %w", id, n, ErrPendingBallots)
	}
	e.Status = types.ElectionStatusClosed
	return s.setArtifact(electionPrefix, id.Bytes(), e)
}
