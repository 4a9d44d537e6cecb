package vote

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVectorLength is returned for an out of range choice or for a
	// ciphertext vector whose length does not match the option count.
	ErrInvalidVectorLength = errors.New("invalid vector length")
	// ErrProofVerificationFailed is returned when a unit vector proof does
	// not verify.
	ErrProofVerificationFailed = errors.New("proof verification failed")
	// ErrWrongElection is returned when a ballot was built for another
	// election key or commitment key.
	ErrWrongElection = errors.New("ballot belongs to another election")
)

// Reason enumerates why a ballot was rejected.
type Reason int

const (
	ReasonWrongElection Reason = iota + 1
	ReasonInvalidVectorLength
	ReasonProofVerificationFailed
)

// String returns a short description of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonWrongElection:
		return "wrong election"
	case ReasonInvalidVectorLength:
		return "invalid vector length"
	case ReasonProofVerificationFailed:
		return "proof verification failed"
	default:
		return fmt.Sprintf("unknown reason %d", int(r))
	}
}

// InvalidBallot is the error returned by Ballot.Verify.
type InvalidBallot struct {
	Reason Reason
	Detail string
}

func (e *InvalidBallot) Error() string {
	if e.Detail == "" {
		return "invalid ballot: " + e.Reason.String()
	}
	return fmt.Sprintf("invalid ballot: %s: %s", e.Reason, e.Detail)
}

// Unwrap maps the reason to its sentinel error, so callers can use errors.Is.
func (e *InvalidBallot) Unwrap() error {
	switch e.Reason {
	case ReasonWrongElection:
		return ErrWrongElection
	case ReasonInvalidVectorLength:
		return ErrInvalidVectorLength
	case ReasonProofVerificationFailed:
		return ErrProofVerificationFailed
	default:
		return nil
	}
}
