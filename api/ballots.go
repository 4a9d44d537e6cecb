package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vocdoni/private-voting/election"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/storage"
	"github.com/vocdoni/private-voting/types"
	"github.com/vocdoni/private-voting/vote"
)

// newBallot queues an encrypted ballot. Only the encoding and the election
// fingerprint are checked here; the sequencer verifies the proof before the
// ballot reaches the tally.
// POST /elections/{electionId}/ballots
func (a *API) newBallot(w http.ResponseWriter, r *http.Request) {
	keys, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	e := keys.Election
	if e.Status != types.ElectionStatusOpen {
		ErrElectionNotOpen.Withf("election %s is %s", e.ID, e.Status).Write(w)
		return
	}
	req := &Ballot{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	weight := uint64(1)
	if req.Weight != nil {
		var fits bool
		if weight, fits = req.Weight.Uint64(); !fits || weight == 0 {
			ErrInvalidWeight.Withf("%s", req.Weight).Write(w)
			return
		}
	}
	b, err := vote.UnmarshalBallot(keys.Curve, req.Ballot)
	if err != nil {
		ErrInvalidBallot.WithErr(err).Write(w)
		return
	}
	if b.Fingerprint != keys.Fingerprint {
		ErrWrongElection.Withf("fingerprint %s", b.Fingerprint).Write(w)
		return
	}
	if len(b.Ciphertexts) != vote.PaddedLen(e.Options) {
		ErrInvalidBallot.Withf("%d ciphertexts, expected %d", len(b.Ciphertexts), vote.PaddedLen(e.Options)).Write(w)
		return
	}

	key, err := a.storage.PushBallot(&storage.Ballot{
		ElectionID: e.ID,
		Weight:     weight,
		Data:       req.Ballot,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		storageError(err, ErrGenericInternalServerError).Write(w)
		return
	}
	log.Debugw("ballot queued", "electionId", e.ID.String(), "ballot", storage.BallotID(key), "weight", weight)
	httpWriteJSON(w, &BallotResponse{BallotID: storage.BallotID(key)})
}

// tally returns the encrypted tally of an election
// GET /elections/{electionId}/tally
func (a *API) tally(w http.ResponseWriter, r *http.Request) {
	keys, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	a.writeTally(w, keys)
}

func (a *API) writeTally(w http.ResponseWriter, keys *election.Keys) {
	id := keys.Election.ID
	e, err := a.storage.Election(id)
	if err != nil {
		storageError(err, ErrGenericInternalServerError).Write(w)
		return
	}
	t, ballots, err := a.storage.Tally(id, keys.Curve)
	if err != nil {
		ErrGenericInternalServerError.Withf("could not load tally: %v", err).Write(w)
		return
	}
	snapshot := t.SnapshotHash()
	httpWriteJSON(w, &Tally{
		Status:       e.Status.String(),
		Tally:        t.Marshal(),
		SnapshotHash: snapshot[:],
		Ballots:      ballots,
		Pending:      a.storage.CountPendingBallots(id),
	})
}
