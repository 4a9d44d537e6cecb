// Package vote encodes a voter choice as an encrypted unit vector and builds
// the ballots that carry it, together with the proof of its validity.
package vote

import (
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/zkp/unitvector"
)

// UnitVector is the one-hot encoding of a choice among Len options.
type UnitVector struct {
	size  int
	index int
}

// NewUnitVector returns the index-th unit vector of the given size.
func NewUnitVector(size, index int) (UnitVector, error) {
	if size <= 0 || index < 0 || index >= size {
		return UnitVector{}, fmt.Errorf("%w: index %d for %d options", ErrInvalidVectorLength, index, size)
	}
	return UnitVector{size: size, index: index}, nil
}

// Len returns the number of options.
func (u UnitVector) Len() int {
	return u.size
}

// Index returns the chosen option.
func (u UnitVector) Index() int {
	return u.index
}

// IsJth reports whether j is the chosen option.
func (u UnitVector) IsJth(j int) bool {
	return j == u.index
}

// Jth returns the j-th entry of the vector as a scalar of the given curve.
func (u UnitVector) Jth(curve ecc.Point, j int) ecc.Scalar {
	s := ecc.NewScalar(curve)
	if u.IsJth(j) {
		return s.One()
	}
	return s
}

// Entries returns the vector entries, padding excluded.
func (u UnitVector) Entries() []bool {
	out := make([]bool, u.size)
	out[u.index] = true
	return out
}

// Binrep returns the binary representation of n with digits bits, most
// significant bit first.
func Binrep(n uint64, digits int) []bool {
	return unitvector.Binrep(n, digits)
}

// PaddedLen returns the length of the encrypted vector for n options: the
// next power of two.
func PaddedLen(n int) int {
	return unitvector.PaddedLen(n)
}

// Bits returns log2(PaddedLen(n)).
func Bits(n int) int {
	return unitvector.Bits(n)
}
