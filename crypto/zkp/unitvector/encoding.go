package unitvector

import (
	"bytes"
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
)

// Size returns the size of the encoding of a proof with the given number of
// bits on curve.
func Size(curve ecc.Point, bits int) int {
	pointSize := curve.MarshalSize()
	return 1 + bits*(3*pointSize+elgamal.CiphertextSize(curve)+3*ecc.ScalarSize) + ecc.ScalarSize
}

// Marshal encodes the proof as
//
//	u8 bits || bits × (I||B||A) || bits × D || bits × (z||w||v) || R
//
// which is the order the transcript absorbs its elements.
func (p *Proof) Marshal() []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(p.Bits()))
	for _, a := range p.Announcements {
		buf.Write(a.I.Marshal())
		buf.Write(a.B.Marshal())
		buf.Write(a.A.Marshal())
	}
	for _, d := range p.Ds {
		buf.Write(d.Marshal())
	}
	for _, r := range p.Responses {
		buf.Write(r.Z.Bytes())
		buf.Write(r.W.Bytes())
		buf.Write(r.V.Bytes())
	}
	buf.Write(p.R.Bytes())
	return buf.Bytes()
}

// Unmarshal decodes a proof for the given curve. It never panics on
// malformed input.
func Unmarshal(curve ecc.Point, data []byte) (*Proof, error) {
	if len(data) == 0 {
		return nil, ecc.NewDecodingError("unit vector proof", "empty input")
	}
	bits := int(data[0])
	if bits > MaxBits {
		return nil, ecc.NewDecodingError("unit vector proof", "too many bits: %d", bits)
	}
	if err := ecc.CheckLength("unit vector proof", data, Size(curve, bits)); err != nil {
		return nil, err
	}
	r := &reader{curve: curve, data: data[1:]}

	proof := &Proof{
		Announcements: make([]*Announcement, bits),
		Ds:            make([]*elgamal.Ciphertext, bits),
		Responses:     make([]ResponseRandomness, bits),
	}
	for k := range proof.Announcements {
		a := &Announcement{}
		for _, dst := range []*ecc.Point{&a.I, &a.B, &a.A} {
			p, err := r.point()
			if err != nil {
				return nil, fmt.Errorf("announcement %d: %w", k, err)
			}
			*dst = p
		}
		proof.Announcements[k] = a
	}
	size := elgamal.CiphertextSize(curve)
	for l := range proof.Ds {
		d, err := elgamal.CiphertextFromBytes(curve, r.next(size))
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", l, err)
		}
		proof.Ds[l] = d
	}
	for k := range proof.Responses {
		resp := &proof.Responses[k]
		for _, dst := range []*ecc.Scalar{&resp.Z, &resp.W, &resp.V} {
			s, err := r.scalar()
			if err != nil {
				return nil, fmt.Errorf("response %d: %w", k, err)
			}
			*dst = s
		}
	}
	var err error
	if proof.R, err = r.scalar(); err != nil {
		return nil, fmt.Errorf("final response: %w", err)
	}
	return proof, nil
}

// reader consumes a buffer whose total length was already checked.
type reader struct {
	curve ecc.Point
	data  []byte
}

func (r *reader) next(n int) []byte {
	b := r.data[:n]
	r.data = r.data[n:]
	return b
}

func (r *reader) point() (ecc.Point, error) {
	return ecc.Decode(r.curve, r.next(r.curve.MarshalSize()))
}

func (r *reader) scalar() (ecc.Scalar, error) {
	return ecc.ScalarFromBytes(r.curve, r.next(ecc.ScalarSize))
}
