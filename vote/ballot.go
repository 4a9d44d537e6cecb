package vote

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/commitment"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/crypto/zkp/unitvector"
	"golang.org/x/crypto/blake2b"
)

// FingerprintSize is the size of an election fingerprint.
const FingerprintSize = 32

// Fingerprint identifies an election by its common reference string and its
// public key. Ballots and tallies carry it so they are never mixed across
// elections.
type Fingerprint [FingerprintSize]byte

// NewFingerprint returns Blake2b-256(crs || pk).
func NewFingerprint(crs []byte, pk *elgamal.PublicKey) Fingerprint {
	h, _ := blake2b.New256(nil)
	h.Write(crs)
	h.Write(pk.Bytes())
	var f Fingerprint
	copy(f[:], h.Sum(nil))
	return f
}

// String returns the hex encoding of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// EncryptingVote is a ballot in progress. It keeps the encryption randomness
// needed by the prover, which must never leave the voter.
type EncryptingVote struct {
	Vote        UnitVector
	PublicKey   *elgamal.PublicKey
	Ciphertexts []*elgamal.Ciphertext
	randomness  []ecc.Scalar
}

// Prepare encrypts every entry of the padded unit vector under pk. Padding
// entries are regular encryptions of zero, so they are indistinguishable from
// the options that were not chosen.
func Prepare(rng io.Reader, pk *elgamal.PublicKey, vote UnitVector) (*EncryptingVote, error) {
	if vote.Len() == 0 {
		return nil, fmt.Errorf("%w: empty vote", ErrInvalidVectorLength)
	}
	curve := pk.Curve()
	n := PaddedLen(vote.Len())
	ev := &EncryptingVote{
		Vote:        vote,
		PublicKey:   pk,
		Ciphertexts: make([]*elgamal.Ciphertext, n),
		randomness:  make([]ecc.Scalar, n),
	}
	for j := 0; j < n; j++ {
		ct, r, err := pk.EncryptScalar(rng, vote.Jth(curve, j))
		if err != nil {
			return nil, fmt.Errorf("cannot encrypt vote entry %d: %w", j, err)
		}
		ev.Ciphertexts[j], ev.randomness[j] = ct, r
	}
	return ev, nil
}

// Proof generates the unit vector proof of the encrypted vote.
func (ev *EncryptingVote) Proof(rng io.Reader, ck *commitment.Key) (*unitvector.Proof, error) {
	return unitvector.Generate(rng, ck, ev.PublicKey, ev.Ciphertexts, ev.randomness, ev.Vote.Index())
}

// Ballot builds the transmitted ballot, proof included.
func (ev *EncryptingVote) Ballot(rng io.Reader, ck *commitment.Key, fingerprint Fingerprint) (*Ballot, error) {
	proof, err := ev.Proof(rng, ck)
	if err != nil {
		return nil, err
	}
	return &Ballot{
		Fingerprint: fingerprint,
		Ciphertexts: ev.Ciphertexts,
		Proof:       proof,
	}, nil
}

// Ballot is an encrypted vote as submitted by a voter.
type Ballot struct {
	Fingerprint Fingerprint
	Ciphertexts []*elgamal.Ciphertext
	Proof       *unitvector.Proof
}

// Verify checks that the ballot belongs to the election and that its proof
// holds for the given option count. It returns an *InvalidBallot error.
func (b *Ballot) Verify(pk *elgamal.PublicKey, ck *commitment.Key, fingerprint Fingerprint, options int) error {
	if b.Fingerprint != fingerprint {
		return &InvalidBallot{Reason: ReasonWrongElection, Detail: b.Fingerprint.String()}
	}
	if options <= 0 || len(b.Ciphertexts) != PaddedLen(options) {
		return &InvalidBallot{
			Reason: ReasonInvalidVectorLength,
			Detail: fmt.Sprintf("got %d ciphertexts for %d options", len(b.Ciphertexts), options),
		}
	}
	if !unitvector.Verify(ck, pk, b.Ciphertexts, b.Proof) {
		return &InvalidBallot{Reason: ReasonProofVerificationFailed}
	}
	return nil
}

// Marshal encodes the ballot as
//
//	fingerprint || u32 count || count × ciphertext || proof
func (b *Ballot) Marshal() []byte {
	var buf bytes.Buffer
	buf.Write(b.Fingerprint[:])
	count := make([]byte, 4)
	binary.BigEndian.PutUint32(count, uint32(len(b.Ciphertexts)))
	buf.Write(count)
	buf.Write(elgamal.MarshalCiphertexts(b.Ciphertexts))
	if b.Proof != nil {
		buf.Write(b.Proof.Marshal())
	}
	return buf.Bytes()
}

// UnmarshalBallot decodes a ballot for the given curve.
func UnmarshalBallot(curve ecc.Point, data []byte) (*Ballot, error) {
	header := FingerprintSize + 4
	if len(data) < header {
		return nil, ecc.NewDecodingError("ballot", "invalid input length: got %d bytes, expected at least %d bytes", len(data), header)
	}
	b := &Ballot{}
	copy(b.Fingerprint[:], data[:FingerprintSize])
	count := uint64(binary.BigEndian.Uint32(data[FingerprintSize:header]))
	if count == 0 || count > 1<<unitvector.MaxBits {
		return nil, ecc.NewDecodingError("ballot", "invalid ciphertext count %d", count)
	}
	size := count * uint64(elgamal.CiphertextSize(curve))
	if uint64(len(data)-header) < size {
		return nil, ecc.NewDecodingError("ballot", "truncated ciphertexts")
	}
	end := header + int(size)
	cs, err := elgamal.UnmarshalCiphertexts(curve, data[header:end], int(count))
	if err != nil {
		return nil, err
	}
	b.Ciphertexts = cs
	if b.Proof, err = unitvector.Unmarshal(curve, data[end:]); err != nil {
		return nil, err
	}
	return b, nil
}
