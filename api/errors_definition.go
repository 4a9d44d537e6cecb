//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound      = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody         = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedElectionID   = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed election ID")}
	ErrElectionNotFound      = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("election not found")}
	ErrInvalidElectionSetup  = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid election setup")}
	ErrInvalidBallot         = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot")}
	ErrInvalidWeight         = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot weight")}
	ErrBallotAlreadyExists   = Error{Code: 40011, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ballot already submitted")}
	ErrElectionNotOpen       = Error{Code: 40012, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("election is not open")}
	ErrElectionNotClosed     = Error{Code: 40013, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("election is not closed")}
	ErrInvalidDecryptShare   = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid decrypt share")}
	ErrStaleTallySnapshot    = Error{Code: 40015, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("decrypt share computed on another tally snapshot")}
	ErrInsufficientShares    = Error{Code: 40016, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("not enough decrypt shares")}
	ErrPendingBallots        = Error{Code: 40017, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ballots still being processed")}
	ErrWrongElection         = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("ballot belongs to another election")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrMaxVotesExceeded           = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("tally exceeds the maximum vote count")}
)
