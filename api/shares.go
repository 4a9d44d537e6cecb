package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/storage"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
)

// newDecryptShare verifies and stores the decrypt share of a committee member
// POST /elections/{electionId}/shares
func (a *API) newDecryptShare(w http.ResponseWriter, r *http.Request) {
	keys, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	e := keys.Election
	if e.Status != types.ElectionStatusClosed {
		ErrElectionNotClosed.Withf("election %s is %s", e.ID, e.Status).Write(w)
		return
	}
	req := &DecryptShare{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	ds, err := tally.UnmarshalDecryptShare(keys.Curve, req.Share)
	if err != nil {
		ErrInvalidDecryptShare.WithErr(err).Write(w)
		return
	}
	publicShare, ok := keys.PublicShares[ds.MemberIndex]
	if !ok {
		ErrInvalidDecryptShare.Withf("unknown committee member %d", ds.MemberIndex).Write(w)
		return
	}
	t, _, err := a.storage.Tally(e.ID, keys.Curve)
	if err != nil {
		ErrGenericInternalServerError.Withf("could not load tally: %v", err).Write(w)
		return
	}
	if err := ds.Verify(t, publicShare); err != nil {
		if errors.Is(err, tally.ErrStaleTallySnapshot) {
			ErrStaleTallySnapshot.WithErr(err).Write(w)
			return
		}
		ErrInvalidDecryptShare.WithErr(err).Write(w)
		return
	}
	if err := a.storage.SetDecryptShare(e.ID, ds); err != nil {
		ErrGenericInternalServerError.Withf("could not store share: %v", err).Write(w)
		return
	}
	shares, err := a.storage.DecryptShares(e.ID, keys.Curve)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	log.Infow("decrypt share received",
		"electionId", e.ID.String(),
		"member", ds.MemberIndex,
		"shares", len(shares),
		"threshold", e.Threshold,
	)
	httpWriteJSON(w, &DecryptShareResponse{Member: ds.MemberIndex, Shares: len(shares), Threshold: e.Threshold})
}

// result returns the decrypted tally, combining the stored shares the first
// time enough of them are available
// GET /elections/{electionId}/result
func (a *API) result(w http.ResponseWriter, r *http.Request) {
	keys, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	e := keys.Election
	res, err := a.storage.Result(e.ID)
	if err == nil {
		httpWriteJSON(w, &Result{Votes: res.Votes})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if e.Status != types.ElectionStatusClosed {
		ErrElectionNotClosed.Withf("election %s is %s", e.ID, e.Status).Write(w)
		return
	}

	shares, err := a.storage.DecryptShares(e.ID, keys.Curve)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	t, _, err := a.storage.Tally(e.ID, keys.Curve)
	if err != nil {
		ErrGenericInternalServerError.Withf("could not load tally: %v", err).Write(w)
		return
	}
	res, err = tally.Finish(t, shares, keys.PublicShares, e.Threshold, e.MaxVotes)
	switch {
	case errors.Is(err, tally.ErrInsufficientShares):
		ErrInsufficientShares.Withf("%d of %d", len(shares), e.Threshold).Write(w)
		return
	case errors.Is(err, tally.ErrMaxVotesExceeded):
		ErrMaxVotesExceeded.WithErr(err).Write(w)
		return
	case err != nil:
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if err := a.storage.SetResult(e.ID, res); err != nil {
		ErrGenericInternalServerError.Withf("could not store result: %v", err).Write(w)
		return
	}
	log.Infow("election result", "electionId", e.ID.String(), "votes", res.Votes)
	httpWriteJSON(w, &Result{Votes: res.Votes})
}
