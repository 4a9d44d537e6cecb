package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/private-voting/election"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/storage"
	"github.com/vocdoni/private-voting/types"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// electionFromRequest loads the election named by the URL parameter. On
// failure the error response is already written and ok is false.
func (a *API) electionFromRequest(w http.ResponseWriter, r *http.Request) (keys *election.Keys, ok bool) {
	id, err := types.ParseElectionID(chi.URLParam(r, ElectionURLParam))
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return nil, false
	}
	e, err := a.storage.Election(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrElectionNotFound.Withf("%s", id).Write(w)
			return nil, false
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return nil, false
	}
	if keys, err = election.Load(e); err != nil {
		ErrGenericInternalServerError.Withf("stored election %s: %v", id, err).Write(w)
		return nil, false
	}
	return keys, true
}
