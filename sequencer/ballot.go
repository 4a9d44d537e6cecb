package sequencer

import (
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/storage"
)

// errRejected marks ballots that are dropped from the queue for good.
var errRejected = errors.New("ballot rejected")

// startBallotProcessor starts a background goroutine that continuously processes ballots.
// It fetches pending ballots from storage, verifies them and adds the valid ones
// to the tally of their election. The processor runs until the sequencer's
// context is canceled.
func (s *Sequencer) startBallotProcessor() {
	ticker := time.NewTicker(s.tickInterval)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		log.Infow("ballot processor started")

		for {
			select {
			case <-s.ctx.Done():
				log.Infow("ballot processor stopped")
				return
			default:
			}

			ballot, key, err := s.stg.NextBallot()
			if err != nil {
				if !errors.Is(err, storage.ErrNoMoreElements) {
					log.Errorw(err, "failed to get next ballot")
				}
				// wait for the next tick or context cancellation
				select {
				case <-ticker.C:
				case <-s.ctx.Done():
					log.Infow("ballot processor stopped")
					return
				}
				continue
			}

			startTime := time.Now()
			err = s.processBallot(ballot, key)
			switch {
			case err == nil:
				log.Debugw("ballot processed successfully",
					"election", ballot.ElectionID.String(),
					"ballot", storage.BallotID(key),
					"duration", time.Since(startTime).String(),
				)
			case errors.Is(err, errRejected):
				log.Warnw("invalid ballot",
					"election", ballot.ElectionID.String(),
					"ballot", storage.BallotID(key),
					"error", err.Error(),
				)
				if err := s.stg.MarkBallotDone(key); err != nil {
					log.Errorw(err, "failed to remove rejected ballot")
				}
			default:
				log.Warnw("failed to process ballot, it will be retried",
					"election", ballot.ElectionID.String(),
					"ballot", storage.BallotID(key),
					"error", err.Error(),
				)
				if err := s.stg.ReleaseBallot(key); err != nil {
					log.Errorw(err, "failed to release ballot")
				}
				// the released ballot is the next one handed out, so back off
				select {
				case <-ticker.C:
				case <-s.ctx.Done():
					log.Infow("ballot processor stopped")
					return
				}
			}
		}
	}()
}

// processBallot verifies a ballot and commits the updated tally. Errors
// wrapping errRejected are final.
func (s *Sequencer) processBallot(b *storage.Ballot, key []byte) error {
	if b.Weight == 0 {
		return fmt.Errorf("%w: zero weight", errRejected)
	}
	keys, err := s.electionKeys(b.ElectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: unknown election", errRejected)
		}
		return err
	}
	vb, err := keys.VerifyBallot(b.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", errRejected, err)
	}

	t, count, err := s.stg.Tally(b.ElectionID, keys.Curve)
	if err != nil {
		return fmt.Errorf("load tally: %w", err)
	}
	if err := t.AddVote(vb, b.Weight); err != nil {
		return fmt.Errorf("%w: %v", errRejected, err)
	}
	if err := s.stg.CommitBallot(key, b.ElectionID, t, count+1); err != nil {
		if errors.Is(err, storage.ErrElectionNotOpen) {
			return fmt.Errorf("%w: %v", errRejected, err)
		}
		return err
	}
	return nil
}
