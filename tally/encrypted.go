// Package tally aggregates verified ballots into an encrypted tally and
// combines the committee decrypt shares into the final result.
package tally

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/vote"
	"golang.org/x/crypto/blake2b"
)

// SnapshotHash identifies a state of an encrypted tally.
type SnapshotHash [32]byte

// String returns the hex encoding of the hash.
func (h SnapshotHash) String() string {
	return fmt.Sprintf("%x", h[:])
}

// EncryptedTally is the running homomorphic sum of the ballots of an
// election, one ciphertext per option. Padding entries of the ballots are not
// accumulated.
type EncryptedTally struct {
	fingerprint vote.Fingerprint
	ciphertexts []*elgamal.Ciphertext
}

// New returns an empty tally for the given number of options.
func New(curve ecc.Point, options int, fingerprint vote.Fingerprint) (*EncryptedTally, error) {
	if options <= 0 {
		return nil, fmt.Errorf("%w: tally needs at least one option", ErrInvalidVectorLength)
	}
	t := &EncryptedTally{
		fingerprint: fingerprint,
		ciphertexts: make([]*elgamal.Ciphertext, options),
	}
	for i := range t.ciphertexts {
		t.ciphertexts[i] = elgamal.NewCiphertext(curve)
	}
	return t, nil
}

// Options returns the number of options.
func (t *EncryptedTally) Options() int {
	return len(t.ciphertexts)
}

// Fingerprint returns the election fingerprint of the tally.
func (t *EncryptedTally) Fingerprint() vote.Fingerprint {
	return t.fingerprint
}

// Ciphertexts returns the per option ciphertexts. They must not be modified.
func (t *EncryptedTally) Ciphertexts() []*elgamal.Ciphertext {
	return t.ciphertexts
}

// Curve returns the identity of the tally curve.
func (t *EncryptedTally) Curve() ecc.Point {
	return t.ciphertexts[0].C1.New()
}

// AddVote adds weight times the ballot ciphertexts to the tally. The ballot
// proof must have been verified by the caller.
func (t *EncryptedTally) AddVote(ballot *vote.Ballot, weight uint64) error {
	if ballot.Fingerprint != t.fingerprint {
		return fmt.Errorf("%w: ballot %s, tally %s", ErrWrongElection, ballot.Fingerprint, t.fingerprint)
	}
	if len(ballot.Ciphertexts) != vote.PaddedLen(t.Options()) {
		return fmt.Errorf("%w: got %d ciphertexts for %d options",
			ErrInvalidVectorLength, len(ballot.Ciphertexts), t.Options())
	}
	if weight == 0 {
		return ErrInvalidWeight
	}
	curve := t.Curve()
	// the whole ballot is checked before touching the tally, so a rejected
	// ballot leaves it unchanged
	if err := checkCiphertexts(curve, ballot.Ciphertexts); err != nil {
		return err
	}
	for i, c := range t.ciphertexts {
		weighted := elgamal.NewCiphertext(curve).MulUint64(ballot.Ciphertexts[i], weight)
		c.Add(c, weighted)
	}
	return nil
}

func checkCiphertexts(curve ecc.Point, cs []*elgamal.Ciphertext) error {
	for i, ct := range cs {
		if ct == nil || ct.C1 == nil || ct.C2 == nil ||
			!ecc.SameCurve(curve, ct.C1) || !ecc.SameCurve(curve, ct.C2) {
			return fmt.Errorf("%w: ciphertext %d is not a point of the tally curve", ErrDecoding, i)
		}
	}
	return nil
}

// Merge adds the entries of another shard of the same election.
func (t *EncryptedTally) Merge(other *EncryptedTally) error {
	if other.fingerprint != t.fingerprint {
		return fmt.Errorf("%w: cannot merge tallies of different elections", ErrWrongElection)
	}
	if other.Options() != t.Options() {
		return fmt.Errorf("%w: cannot merge %d options into %d", ErrInvalidVectorLength, other.Options(), t.Options())
	}
	if err := checkCiphertexts(t.Curve(), other.ciphertexts); err != nil {
		return err
	}
	for i, c := range t.ciphertexts {
		c.Add(c, other.ciphertexts[i])
	}
	return nil
}

// Clone returns a deep copy of the tally.
func (t *EncryptedTally) Clone() *EncryptedTally {
	c := &EncryptedTally{
		fingerprint: t.fingerprint,
		ciphertexts: make([]*elgamal.Ciphertext, len(t.ciphertexts)),
	}
	for i, ct := range t.ciphertexts {
		c.ciphertexts[i] = ct.Clone()
	}
	return c
}

// Marshal encodes the tally as fingerprint || u32 options || ciphertexts.
func (t *EncryptedTally) Marshal() []byte {
	var buf bytes.Buffer
	buf.Write(t.fingerprint[:])
	options := make([]byte, 4)
	binary.BigEndian.PutUint32(options, uint32(t.Options()))
	buf.Write(options)
	buf.Write(elgamal.MarshalCiphertexts(t.ciphertexts))
	return buf.Bytes()
}

// Unmarshal decodes an encrypted tally of the given curve.
func Unmarshal(curve ecc.Point, data []byte) (*EncryptedTally, error) {
	header := vote.FingerprintSize + 4
	if len(data) < header {
		return nil, ecc.NewDecodingError("encrypted tally", "invalid input length: got %d bytes, expected at least %d bytes", len(data), header)
	}
	t := &EncryptedTally{}
	copy(t.fingerprint[:], data[:vote.FingerprintSize])
	options := binary.BigEndian.Uint32(data[vote.FingerprintSize:header])
	if options == 0 {
		return nil, ecc.NewDecodingError("encrypted tally", "zero options")
	}
	if uint64(len(data)-header) != uint64(options)*uint64(elgamal.CiphertextSize(curve)) {
		return nil, ecc.NewDecodingError("encrypted tally", "invalid input length for %d options", options)
	}
	cs, err := elgamal.UnmarshalCiphertexts(curve, data[header:], int(options))
	if err != nil {
		return nil, err
	}
	t.ciphertexts = cs
	return t, nil
}

// SnapshotHash returns Blake2b-256 of the tally encoding. Decrypt shares are
// bound to it.
func (t *EncryptedTally) SnapshotHash() SnapshotHash {
	return blake2b.Sum256(t.Marshal())
}
