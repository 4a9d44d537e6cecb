package ecc

import (
	"math/big"
)

// Point defines the common operations that can be performed on the group
// elements of a prime order elliptic curve group. Every implementation has a
// constant size canonical encoding and rejects any byte string that does not
// decode to an element of the prime order subgroup.
type Point interface {
	// New returns a new group element of the same curve, set to the identity.
	New() Point

	// Order returns the order of the prime order subgroup, which is also the
	// modulus of the scalars used with this curve.
	Order() *big.Int

	// Add adds two group elements and stores the result in the receiver.
	Add(a, b Point)

	// SafeAdd adds two group elements and stores the result in the receiver.
	// It is thread-safe, ensuring exclusive access to the receiver during the
	// operation.
	SafeAdd(a, b Point)

	// Sub computes a - b and stores the result in the receiver.
	Sub(a, b Point)

	// ScalarMult multiplies the group element a by the scalar value and
	// stores the result in the receiver.
	ScalarMult(a Point, scalar *big.Int)

	// ScalarBaseMult multiplies the generator by the scalar value and stores
	// the result in the receiver.
	ScalarBaseMult(scalar *big.Int)

	// Marshal serializes the group element into its canonical compressed
	// form. The identity element has a unique encoding.
	Marshal() []byte

	// Unmarshal deserializes a canonical encoding into the receiver. It
	// returns a *DecodingError if buf has the wrong size or does not encode an
	// element of the prime order subgroup.
	Unmarshal(buf []byte) error

	// MarshalSize returns the size in bytes of the canonical encoding.
	MarshalSize() int

	// HashToPoint deterministically maps msg to a group element whose
	// discrete logarithm with respect to the generator is unknown.
	HashToPoint(msg []byte) error

	// Equal checks if two group elements are equal.
	Equal(a Point) bool

	// IsZero reports whether the element is the identity.
	IsZero() bool

	// Neg negates a group element and stores the result in the receiver.
	Neg(a Point)

	// SetZero sets the element to the identity.
	SetZero()

	// Set sets the value of the receiver to be equal to another element.
	Set(a Point)

	// SetGenerator sets the element to the generator of the group.
	SetGenerator()

	// String returns the hexadecimal string of the canonical encoding.
	String() string

	// Type returns the name of the curve implementation.
	Type() string
}
