package elgamal

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
)

// Ciphertext represents an ElGamal encrypted message with homomorphic
// properties. It encapsulates the two points (C1, C2) of a ciphertext.
type Ciphertext struct {
	C1 ecc.Point `json:"c1"`
	C2 ecc.Point `json:"c2"`
}

// NewCiphertext creates the zero ciphertext (O, O) on the same curve as the
// given Point. It is the neutral element of Add, so it encrypts 0 with zero
// randomness.
func NewCiphertext(curve ecc.Point) *Ciphertext {
	return &Ciphertext{C1: curve.New(), C2: curve.New()}
}

// CiphertextSize returns the size of the encoding of a ciphertext on curve.
func CiphertextSize(curve ecc.Point) int {
	return 2 * curve.MarshalSize()
}

// CiphertextFromBytes decodes a ciphertext of the given curve.
func CiphertextFromBytes(curve ecc.Point, data []byte) (*Ciphertext, error) {
	z := NewCiphertext(curve)
	if err := z.Unmarshal(data); err != nil {
		return nil, err
	}
	return z, nil
}

// Add adds two Ciphertext and stores the result in z, which is also returned.
// Decrypting the result yields the sum of both plaintexts.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.C1.SafeAdd(x.C1, y.C1)
	z.C2.SafeAdd(x.C2, y.C2)
	return z
}

// Sub subtracts y from x and stores the result in z, which is also returned.
func (z *Ciphertext) Sub(x, y *Ciphertext) *Ciphertext {
	z.C1.Sub(x.C1, y.C1)
	z.C2.Sub(x.C2, y.C2)
	return z
}

// Mul multiplies x by the scalar s and stores the result in z, which is also
// returned. Decrypting the result yields s times the plaintext of x.
func (z *Ciphertext) Mul(x *Ciphertext, s ecc.Scalar) *Ciphertext {
	z.C1.ScalarMult(x.C1, s.BigInt())
	z.C2.ScalarMult(x.C2, s.BigInt())
	return z
}

// MulUint64 multiplies x by n and stores the result in z.
func (z *Ciphertext) MulUint64(x *Ciphertext, n uint64) *Ciphertext {
	return z.Mul(x, ecc.ScalarFromUint64(x.C1, n))
}

// Set sets z to the value of x and returns z.
func (z *Ciphertext) Set(x *Ciphertext) *Ciphertext {
	z.C1.Set(x.C1)
	z.C2.Set(x.C2)
	return z
}

// Clone returns a deep copy of z.
func (z *Ciphertext) Clone() *Ciphertext {
	return NewCiphertext(z.C1).Set(z)
}

// Equal reports whether both ciphertexts hold the same points.
func (z *Ciphertext) Equal(x *Ciphertext) bool {
	return x != nil && z.C1.Equal(x.C1) && z.C2.Equal(x.C2)
}

// IsZero reports whether z is the zero ciphertext (O, O).
func (z *Ciphertext) IsZero() bool {
	return z.C1.IsZero() && z.C2.IsZero()
}

// Marshal returns the fixed size canonical encoding C1 || C2.
func (z *Ciphertext) Marshal() []byte {
	var buf bytes.Buffer
	buf.Write(z.C1.Marshal())
	buf.Write(z.C2.Marshal())
	return buf.Bytes()
}

// Unmarshal decodes C1 || C2 into z. The points of z determine the curve.
func (z *Ciphertext) Unmarshal(data []byte) error {
	size := z.C1.MarshalSize()
	if err := ecc.CheckLength("ciphertext", data, 2*size); err != nil {
		return err
	}
	c1, c2 := z.C1.New(), z.C2.New()
	if err := c1.Unmarshal(data[:size]); err != nil {
		return fmt.Errorf("ciphertext C1: %w", err)
	}
	if err := c2.Unmarshal(data[size:]); err != nil {
		return fmt.Errorf("ciphertext C2: %w", err)
	}
	z.C1, z.C2 = c1, c2
	return nil
}

// MarshalJSON encodes the ciphertext as the hex string of Marshal.
func (z *Ciphertext) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(z.Marshal()))
}

// UnmarshalJSON decodes the hex string of Marshal. The curve is taken from the
// points of z, so z must be created with NewCiphertext first.
func (z *Ciphertext) UnmarshalJSON(data []byte) error {
	if z.C1 == nil || z.C2 == nil {
		return fmt.Errorf("ciphertext curve is not set")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return ecc.NewDecodingError("ciphertext", "%v", err)
	}
	return z.Unmarshal(buf)
}

// String returns a string representation of the Ciphertext.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{C1: nil, C2: nil}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", z.C1.String(), z.C2.String())
}

// MarshalCiphertexts concatenates the encodings of a list of ciphertexts.
func MarshalCiphertexts(cs []*Ciphertext) []byte {
	var buf bytes.Buffer
	for _, c := range cs {
		buf.Write(c.Marshal())
	}
	return buf.Bytes()
}

// UnmarshalCiphertexts decodes a concatenation of count ciphertexts.
func UnmarshalCiphertexts(curve ecc.Point, data []byte, count int) ([]*Ciphertext, error) {
	size := CiphertextSize(curve)
	if count < 0 || len(data) != count*size {
		return nil, ecc.NewDecodingError("ciphertexts", "invalid input length: got %d bytes, expected %d ciphertexts of %d bytes", len(data), count, size)
	}
	cs := make([]*Ciphertext, count)
	for i := range cs {
		c, err := CiphertextFromBytes(curve, data[i*size:(i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, err)
		}
		cs[i] = c
	}
	return cs, nil
}
