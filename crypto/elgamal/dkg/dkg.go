// Package dkg implements a Feldman verifiable secret sharing based
// distributed key generation for ElGamal, together with the threshold
// decryption helpers built on its shares.
package dkg

import (
	"errors"
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/log"
)

// ErrInvalidShare is returned when a received share does not match the
// public commitments of its dealer.
var ErrInvalidShare = errors.New("invalid secret share")

// Participant represents a participant in the DKG protocol. Participant
// identifiers are the evaluation points of the secret polynomials, so they
// must be unique and greater than zero.
type Participant struct {
	ID             int
	Threshold      int
	Participants   []int
	SecretCoeffs   []ecc.Scalar
	PublicCoeffs   []ecc.Point
	SecretShares   map[int]ecc.Scalar
	ReceivedShares map[int]ecc.Scalar
	PrivateShare   ecc.Scalar
	PublicKey      ecc.Point
	CurvePoint     ecc.Point
}

// NewParticipant initializes a new participant.
func NewParticipant(id int, threshold int, participants []int, curvePoint ecc.Point) (*Participant, error) {
	if id <= 0 {
		return nil, fmt.Errorf("participant id must be positive, got %d", id)
	}
	if threshold < 1 || threshold > len(participants) {
		return nil, fmt.Errorf("invalid threshold %d for %d participants", threshold, len(participants))
	}
	return &Participant{
		ID:             id,
		Threshold:      threshold,
		Participants:   participants,
		SecretShares:   make(map[int]ecc.Scalar),
		ReceivedShares: make(map[int]ecc.Scalar),
		PrivateShare:   ecc.NewScalar(curvePoint),
		CurvePoint:     curvePoint,
	}, nil
}

// GenerateSecretPolynomial draws the threshold-1 degree secret polynomial
// and computes its public commitments C_k = a_k·G.
func (p *Participant) GenerateSecretPolynomial(rng io.Reader) error {
	degree := p.Threshold - 1
	p.SecretCoeffs = make([]ecc.Scalar, 0, degree+1)
	p.PublicCoeffs = make([]ecc.Point, 0, degree+1)
	for i := 0; i <= degree; i++ {
		coeff, err := ecc.RandomScalar(rng, p.CurvePoint)
		if err != nil {
			return fmt.Errorf("participant %d: %w", p.ID, err)
		}
		p.SecretCoeffs = append(p.SecretCoeffs, coeff)
		p.PublicCoeffs = append(p.PublicCoeffs, ecc.BaseMul(p.CurvePoint, coeff))
	}
	return nil
}

// ComputeShares computes shares to send to other participants.
func (p *Participant) ComputeShares() {
	for _, pid := range p.Participants {
		p.SecretShares[pid] = p.evaluatePolynomial(ecc.ScalarFromUint64(p.CurvePoint, uint64(pid)))
	}
}

// evaluatePolynomial evaluates the secret polynomial at a given x.
func (p *Participant) evaluatePolynomial(x ecc.Scalar) ecc.Scalar {
	result := ecc.NewScalar(p.CurvePoint)
	xPower := x.One()
	for _, coeff := range p.SecretCoeffs {
		result = result.Add(coeff.Mul(xPower))
		xPower = xPower.Mul(x)
	}
	return result
}

// ReceiveShare receives a share from another participant.
func (p *Participant) ReceiveShare(fromID int, share ecc.Scalar, publicCoeffs []ecc.Point) error {
	if len(publicCoeffs) != p.Threshold {
		return fmt.Errorf("%w: participant %d published %d commitments, expected %d",
			ErrInvalidShare, fromID, len(publicCoeffs), p.Threshold)
	}
	// Verify the share using the commitments.
	if !VerifyShare(p.ID, share, publicCoeffs) {
		return fmt.Errorf("%w: from participant %d", ErrInvalidShare, fromID)
	}
	p.ReceivedShares[fromID] = share
	return nil
}

// VerifyShare checks share·G == Σ_k C_k·id^k.
func VerifyShare(id int, share ecc.Scalar, publicCoeffs []ecc.Point) bool {
	if len(publicCoeffs) == 0 {
		return false
	}
	curve := publicCoeffs[0]
	return ecc.BaseMul(curve, share).Equal(EvaluateCommitments(id, publicCoeffs))
}

// EvaluateCommitments returns Σ_k C_k·x^k, the public image of the dealer
// polynomial evaluated at x.
func EvaluateCommitments(x int, publicCoeffs []ecc.Point) ecc.Point {
	curve := publicCoeffs[0]
	xs := ecc.ScalarFromUint64(curve, uint64(x))
	rhs := curve.New()
	xPower := xs.One()
	for _, coeffCommitment := range publicCoeffs {
		rhs.Add(rhs, ecc.Mul(coeffCommitment, xPower))
		xPower = xPower.Mul(xs)
	}
	return rhs
}

// AggregateShares aggregates the received shares to compute the private share.
func (p *Participant) AggregateShares() error {
	own, ok := p.SecretShares[p.ID]
	if !ok {
		return fmt.Errorf("participant %d has not computed its own share", p.ID)
	}
	share := own
	for from, s := range p.ReceivedShares {
		if from == p.ID {
			continue
		}
		share = share.Add(s)
	}
	p.PrivateShare = share
	log.Debugw("aggregated private share", "participant", p.ID, "dealers", len(p.ReceivedShares)+1)
	return nil
}

// AggregatePublicKey aggregates the public commitments to compute the public key.
func (p *Participant) AggregatePublicKey(allPublicCoeffs map[int][]ecc.Point) {
	p.PublicKey = AggregatePublicKey(p.CurvePoint, allPublicCoeffs)
	log.Debugw("aggregated public key", "participant", p.ID, "publicKey", p.PublicKey.String())
}

// AggregatePublicKey sums the constant term commitments of every dealer.
func AggregatePublicKey(curve ecc.Point, allPublicCoeffs map[int][]ecc.Point) ecc.Point {
	pk := curve.New()
	for _, coeffs := range allPublicCoeffs {
		pk.Add(pk, coeffs[0]) // Only the constant term is needed
	}
	return pk
}

// PublicShare returns PrivateShare·G.
func (p *Participant) PublicShare() ecc.Point {
	return ecc.BaseMul(p.CurvePoint, p.PrivateShare)
}

// ComputePublicShare returns the public image s_id·G of the aggregated
// private share of participant id, computed from the commitments of every
// dealer.
func ComputePublicShare(curve ecc.Point, id int, allPublicCoeffs map[int][]ecc.Point) ecc.Point {
	ps := curve.New()
	for _, coeffs := range allPublicCoeffs {
		ps.Add(ps, EvaluateCommitments(id, coeffs))
	}
	return ps
}
