package service

import (
	"context"
	"time"

	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/sequencer"
	"github.com/vocdoni/private-voting/storage"
)

// SequencerService represents a service that handles background ballot processing.
type SequencerService struct {
	sequencer *sequencer.Sequencer
}

// NewSequencer creates a new sequencer service. It verifies queued ballots
// and adds the valid ones to the encrypted tally of their election. The
// interval defines how long the worker waits when the queue is empty.
func NewSequencer(stg *storage.Storage, interval time.Duration) (*SequencerService, error) {
	s, err := sequencer.New(stg, interval)
	if err != nil {
		return nil, err
	}
	return &SequencerService{
		sequencer: s,
	}, nil
}

// Start begins the ballot processing service. It returns an error if the service is already running.
func (ss *SequencerService) Start(ctx context.Context) error {
	return ss.sequencer.Start(ctx)
}

// Stop halts the ballot processing service.
func (ss *SequencerService) Stop() {
	if err := ss.sequencer.Stop(); err != nil {
		log.Warnw("sequencer service stopped", "error", err)
	}
}
