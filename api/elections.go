package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vocdoni/private-voting/committee"
	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/election"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/types"
)

// newElection registers a new election and its empty encrypted tally
// POST /elections
func (a *API) newElection(w http.ResponseWriter, r *http.Request) {
	req := &NewElection{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Curve == "" {
		req.Curve = config.DefaultCurve
	}
	if !curves.IsValid(req.Curve) {
		ErrInvalidElectionSetup.Withf("unsupported curve %q", req.Curve).Write(w)
		return
	}
	if req.MaxVotes == 0 {
		req.MaxVotes = config.DefaultMaxVotes
	}
	if len(req.CRS) == 0 {
		ErrInvalidElectionSetup.With("missing CRS").Write(w)
		return
	}
	if req.Metadata != nil && len(req.Metadata.Choices) > 0 && len(req.Metadata.Choices) != req.Options {
		ErrInvalidElectionSetup.Withf("%d choices for %d options", len(req.Metadata.Choices), req.Options).Write(w)
		return
	}
	pk, err := committee.ParseElectionPublicKey(curves.New(req.Curve), req.PublicKey)
	if err != nil {
		ErrInvalidElectionSetup.Withf("public key: %v", err).Write(w)
		return
	}

	e := &types.Election{
		ID:           types.NewElectionID(),
		Status:       types.ElectionStatusOpen,
		Curve:        req.Curve,
		Options:      req.Options,
		Threshold:    req.Threshold,
		MaxVotes:     req.MaxVotes,
		PublicKey:    pk.Bytes(),
		CRS:          req.CRS,
		PublicShares: req.PublicShares,
		CreatedAt:    time.Now().UTC(),
		Metadata:     req.Metadata,
	}
	keys, err := election.Load(e)
	if err != nil {
		ErrInvalidElectionSetup.WithErr(err).Write(w)
		return
	}
	if err := keys.Validate(); err != nil {
		ErrInvalidElectionSetup.WithErr(err).Write(w)
		return
	}
	e.Fingerprint = keys.Fingerprint[:]
	empty, err := keys.NewTally()
	if err != nil {
		ErrInvalidElectionSetup.WithErr(err).Write(w)
		return
	}

	if err := a.storage.SetElection(e); err != nil {
		ErrGenericInternalServerError.Withf("could not store election: %v", err).Write(w)
		return
	}
	if err := a.storage.SetTally(e.ID, empty, 0); err != nil {
		ErrGenericInternalServerError.Withf("could not store tally: %v", err).Write(w)
		return
	}
	log.Infow("new election",
		"electionId", e.ID.String(),
		"curve", e.Curve,
		"options", e.Options,
		"threshold", fmt.Sprintf("%d/%d", e.Threshold, len(e.PublicShares)),
		"fingerprint", keys.Fingerprint.String(),
	)
	httpWriteJSON(w, &NewElectionResponse{ElectionID: e.ID, Fingerprint: e.Fingerprint})
}

// elections lists the known elections
// GET /elections
func (a *API) elections(w http.ResponseWriter, r *http.Request) {
	ids, err := a.storage.ListElections()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &ElectionList{Elections: ids})
}

// election returns the election setup and status
// GET /elections/{electionId}
func (a *API) election(w http.ResponseWriter, r *http.Request) {
	keys, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	httpWriteJSON(w, keys.Election)
}

// closeElection freezes the tally of an election, once every queued ballot
// has been processed
// POST /elections/{electionId}/close
func (a *API) closeElection(w http.ResponseWriter, r *http.Request) {
	keys, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	id := keys.Election.ID
	if err := a.storage.CloseElection(id); err != nil {
		storageError(err, ErrGenericInternalServerError).Write(w)
		return
	}
	log.Infow("election closed", "electionId", id.String())
	a.writeTally(w, keys)
}
