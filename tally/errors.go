package tally

import (
	"errors"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/vote"
)

var (
	// ErrDecoding is the kind of every malformed input error.
	ErrDecoding = ecc.ErrDecoding
	// ErrInvalidVectorLength is returned when a ballot or a tally does not
	// have the expected number of entries.
	ErrInvalidVectorLength = vote.ErrInvalidVectorLength
	// ErrWrongElection is returned when combining data of different
	// elections.
	ErrWrongElection = vote.ErrWrongElection
	// ErrProofVerificationFailed is returned when a decrypt share proof does
	// not verify.
	ErrProofVerificationFailed = vote.ErrProofVerificationFailed
	// ErrInsufficientShares is returned by Finish when fewer than threshold
	// distinct members provided a valid decrypt share. It is retryable once
	// more shares arrive.
	ErrInsufficientShares = errors.New("insufficient decrypt shares")
	// ErrStaleTallySnapshot is returned when a decrypt share was produced for
	// another state of the encrypted tally.
	ErrStaleTallySnapshot = errors.New("decrypt share produced for a stale tally snapshot")
	// ErrMaxVotesExceeded is returned when an option count is greater than
	// the configured maximum number of votes.
	ErrMaxVotesExceeded = errors.New("option count exceeds the maximum number of votes")
	// ErrInvalidWeight is returned for a zero ballot weight.
	ErrInvalidWeight = errors.New("ballot weight must be greater than zero")
)
