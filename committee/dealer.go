// Package committee runs the distributed key generation of a tally committee
// and holds the per member state needed to decrypt the final tally.
package committee

import (
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/elgamal/dkg"
)

// MemberCommunicationKey is the key pair a member uses to receive its DKG
// shares from the other members.
type MemberCommunicationKey struct {
	sk *elgamal.SecretKey
}

// NewMemberCommunicationKey generates a communication key pair.
func NewMemberCommunicationKey(rng io.Reader, curve ecc.Point) (*MemberCommunicationKey, error) {
	_, sk, err := elgamal.GenerateKey(rng, curve)
	if err != nil {
		return nil, fmt.Errorf("cannot generate communication key: %w", err)
	}
	return &MemberCommunicationKey{sk: sk}, nil
}

// Public returns the key other members encrypt shares to.
func (k *MemberCommunicationKey) Public() *elgamal.PublicKey {
	return k.sk.Public()
}

// DealerMessage is what a member broadcasts during the key generation: the
// Feldman commitments of its polynomial and the share of every other member,
// encrypted to their communication keys.
type DealerMessage struct {
	Dealer          int
	Commitments     []ecc.Point
	EncryptedShares map[int]*elgamal.HybridCiphertext
}

// Deal samples the secret polynomial of the participant and encrypts the
// share of each member listed in commKeys. The participant keeps its own
// share.
func Deal(rng io.Reader, p *dkg.Participant, commKeys map[int]*elgamal.PublicKey) (*DealerMessage, error) {
	if err := p.GenerateSecretPolynomial(rng); err != nil {
		return nil, err
	}
	p.ComputeShares()
	msg := &DealerMessage{
		Dealer:          p.ID,
		Commitments:     p.PublicCoeffs,
		EncryptedShares: make(map[int]*elgamal.HybridCiphertext, len(p.Participants)-1),
	}
	for _, id := range p.Participants {
		if id == p.ID {
			continue
		}
		key, ok := commKeys[id]
		if !ok {
			return nil, fmt.Errorf("missing communication key of member %d", id)
		}
		hc, err := key.HybridEncrypt(rng, p.SecretShares[id].Bytes())
		if err != nil {
			return nil, fmt.Errorf("cannot encrypt share of member %d: %w", id, err)
		}
		msg.EncryptedShares[id] = hc
	}
	return msg, nil
}

// receive decrypts the share addressed to p and checks it against the dealer
// commitments.
func receive(commKey *MemberCommunicationKey, p *dkg.Participant, msg *DealerMessage) error {
	hc, ok := msg.EncryptedShares[p.ID]
	if !ok {
		return fmt.Errorf("%w: dealer %d sent no share to member %d", dkg.ErrInvalidShare, msg.Dealer, p.ID)
	}
	raw, err := commKey.sk.HybridDecrypt(hc)
	if err != nil {
		return err
	}
	share, err := ecc.ScalarFromBytes(p.CurvePoint, raw)
	if err != nil {
		return fmt.Errorf("%w: dealer %d: %v", dkg.ErrInvalidShare, msg.Dealer, err)
	}
	return p.ReceiveShare(msg.Dealer, share, msg.Commitments)
}
