// Package sequencer provides the background worker that verifies queued
// ballots and adds them to the encrypted tally of their election.
package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vocdoni/private-voting/election"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/storage"
	"github.com/vocdoni/private-voting/types"
)

// keysCacheSize is the number of elections whose decoded parameters are kept.
const keysCacheSize = 256

// Sequencer is a worker that takes pending ballots, verifies their proofs and
// accumulates the valid ones into the election tally.
type Sequencer struct {
	stg    *storage.Storage
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	keys *lru.Cache[types.ElectionID, *election.Keys] // decoded election parameters

	// tickInterval is the time to wait when the queue is empty.
	tickInterval time.Duration
}

// New creates a new Sequencer instance.
func New(stg *storage.Storage, tickInterval time.Duration) (*Sequencer, error) {
	if stg == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if tickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive")
	}
	keys, err := lru.New[types.ElectionID, *election.Keys](keysCacheSize)
	if err != nil {
		return nil, err
	}
	log.Debugw("sequencer initialized", "tickInterval", tickInterval.String())
	return &Sequencer{
		stg:          stg,
		keys:         keys,
		tickInterval: tickInterval,
	}, nil
}

// Start begins the ballot processing routine. It creates a new context
// derived from the provided one.
func (s *Sequencer) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if s.cancel != nil {
		return fmt.Errorf("sequencer already running")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.startBallotProcessor()
	log.Infow("sequencer started successfully")
	return nil
}

// Stop gracefully shuts down the sequencer and waits for the processor to
// return. It's safe to call Stop multiple times.
func (s *Sequencer) Stop() error {
	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
		s.cancel = nil
		log.Infow("sequencer stopped")
	}
	return nil
}

// electionKeys returns the cached parameters of an election.
func (s *Sequencer) electionKeys(id types.ElectionID) (*election.Keys, error) {
	if k, ok := s.keys.Get(id); ok {
		return k, nil
	}
	e, err := s.stg.Election(id)
	if err != nil {
		return nil, err
	}
	k, err := election.Load(e)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election setup: %v", errRejected, err)
	}
	s.keys.Add(id, k)
	return k, nil
}
