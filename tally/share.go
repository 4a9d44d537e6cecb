package tally

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/zkp/dleq"
)

// ShareElement is the partial decryption of one option ciphertext,
// D = s_i·C1, together with the proof that it was computed with the secret
// share behind the member public share.
type ShareElement struct {
	Share ecc.Point
	Proof *dleq.Proof
}

// DecryptShare is the contribution of one committee member to the decryption
// of an encrypted tally snapshot.
type DecryptShare struct {
	MemberIndex int
	Snapshot    SnapshotHash
	Elements    []ShareElement
}

// NewDecryptShare computes the partial decryption of every option of the
// tally with the member secret share.
func NewDecryptShare(rng io.Reader, t *EncryptedTally, memberIndex int, secret ecc.Scalar) (*DecryptShare, error) {
	if memberIndex <= 0 {
		return nil, fmt.Errorf("invalid member index %d", memberIndex)
	}
	ds := &DecryptShare{
		MemberIndex: memberIndex,
		Snapshot:    t.SnapshotHash(),
		Elements:    make([]ShareElement, t.Options()),
	}
	for i, ct := range t.ciphertexts {
		share, proof, err := dleq.Generate(rng, ct.C1, secret)
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", i, err)
		}
		ds.Elements[i] = ShareElement{Share: share, Proof: proof}
	}
	return ds, nil
}

// Verify checks the share against the current tally and the member public
// share.
func (ds *DecryptShare) Verify(t *EncryptedTally, publicShare ecc.Point) error {
	if ds.Snapshot != t.SnapshotHash() {
		return fmt.Errorf("%w: member %d", ErrStaleTallySnapshot, ds.MemberIndex)
	}
	if len(ds.Elements) != t.Options() {
		return fmt.Errorf("%w: member %d sent %d elements for %d options",
			ErrInvalidVectorLength, ds.MemberIndex, len(ds.Elements), t.Options())
	}
	for i, ct := range t.ciphertexts {
		e := ds.Elements[i]
		if !dleq.Verify(ct.C1, e.Share, publicShare, e.Proof) {
			return fmt.Errorf("%w: member %d option %d", ErrProofVerificationFailed, ds.MemberIndex, i)
		}
	}
	return nil
}

// Marshal encodes the share as
//
//	u32 member || snapshot || u32 count || count × (share || proof)
func (ds *DecryptShare) Marshal() []byte {
	var buf bytes.Buffer
	u32 := make([]byte, 4)
	binary.BigEndian.PutUint32(u32, uint32(ds.MemberIndex))
	buf.Write(u32)
	buf.Write(ds.Snapshot[:])
	binary.BigEndian.PutUint32(u32, uint32(len(ds.Elements)))
	buf.Write(u32)
	for _, e := range ds.Elements {
		buf.Write(e.Share.Marshal())
		buf.Write(e.Proof.Marshal())
	}
	return buf.Bytes()
}

// UnmarshalDecryptShare decodes a decrypt share of the given curve.
func UnmarshalDecryptShare(curve ecc.Point, data []byte) (*DecryptShare, error) {
	header := 4 + len(SnapshotHash{}) + 4
	if len(data) < header {
		return nil, ecc.NewDecodingError("decrypt share", "invalid input length: got %d bytes, expected at least %d bytes", len(data), header)
	}
	ds := &DecryptShare{MemberIndex: int(binary.BigEndian.Uint32(data[:4]))}
	if ds.MemberIndex == 0 {
		return nil, ecc.NewDecodingError("decrypt share", "zero member index")
	}
	copy(ds.Snapshot[:], data[4:header-4])
	count := uint64(binary.BigEndian.Uint32(data[header-4 : header]))
	elementSize := uint64(curve.MarshalSize() + dleq.Size)
	if uint64(len(data)-header) != count*elementSize {
		return nil, ecc.NewDecodingError("decrypt share", "invalid input length for %d elements", count)
	}
	ds.Elements = make([]ShareElement, count)
	rest := data[header:]
	for i := range ds.Elements {
		share, err := ecc.Decode(curve, rest[:curve.MarshalSize()])
		if err != nil {
			return nil, err
		}
		rest = rest[curve.MarshalSize():]
		proof, err := dleq.Unmarshal(curve, rest[:dleq.Size])
		if err != nil {
			return nil, err
		}
		rest = rest[dleq.Size:]
		ds.Elements[i] = ShareElement{Share: share, Proof: proof}
	}
	return ds, nil
}
