package ecc

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// ScalarSize is the size in bytes of the canonical scalar encoding.
const ScalarSize = 32

// Scalar is an integer modulo the order of a curve group. Scalars are
// immutable: every operation returns a new value, always reduced mod order.
type Scalar struct {
	v     *big.Int
	order *big.Int
}

// NewScalar returns the zero scalar for the given curve.
func NewScalar(curve Point) Scalar {
	return Scalar{v: new(big.Int), order: curve.Order()}
}

// ScalarFromUint64 returns v mod order as a scalar of the given curve.
func ScalarFromUint64(curve Point, v uint64) Scalar {
	return ScalarFromBigInt(curve, new(big.Int).SetUint64(v))
}

// ScalarFromBigInt returns v mod order as a scalar of the given curve. Negative
// values are mapped to their additive inverse.
func ScalarFromBigInt(curve Point, v *big.Int) Scalar {
	order := curve.Order()
	return Scalar{v: new(big.Int).Mod(v, order), order: order}
}

// RandomScalar draws a uniformly random scalar from rng.
func RandomScalar(rng io.Reader, curve Point) (Scalar, error) {
	order := curve.Order()
	v, err := rand.Int(rng, order)
	if err != nil {
		return Scalar{}, fmt.Errorf("failed to generate random scalar: %w", err)
	}
	return Scalar{v: v, order: order}, nil
}

// ScalarFromHash interprets digest as a big-endian integer and reduces it mod
// order.
func ScalarFromHash(curve Point, digest []byte) Scalar {
	return ScalarFromBigInt(curve, new(big.Int).SetBytes(digest))
}

// ScalarFromBytes decodes the canonical 32 bytes big-endian encoding of a
// scalar. Values greater or equal than the order are rejected.
func ScalarFromBytes(curve Point, buf []byte) (Scalar, error) {
	if err := CheckLength("scalar", buf, ScalarSize); err != nil {
		return Scalar{}, err
	}
	order := curve.Order()
	v := new(big.Int).SetBytes(buf)
	if v.Cmp(order) >= 0 {
		return Scalar{}, NewDecodingError("scalar", "value is not reduced modulo the group order")
	}
	return Scalar{v: v, order: order}, nil
}

func (s Scalar) with(v *big.Int) Scalar {
	return Scalar{v: v.Mod(v, s.order), order: s.order}
}

// Add returns s + o.
func (s Scalar) Add(o Scalar) Scalar {
	return s.with(new(big.Int).Add(s.v, o.v))
}

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar {
	return s.with(new(big.Int).Sub(s.v, o.v))
}

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar {
	return s.with(new(big.Int).Mul(s.v, o.v))
}

// MulUint64 returns s * n.
func (s Scalar) MulUint64(n uint64) Scalar {
	return s.with(new(big.Int).Mul(s.v, new(big.Int).SetUint64(n)))
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	return s.with(new(big.Int).Neg(s.v))
}

// Inverse returns the multiplicative inverse of s. It fails for zero.
func (s Scalar) Inverse() (Scalar, error) {
	if s.IsZero() {
		return Scalar{}, fmt.Errorf("zero scalar has no inverse")
	}
	inv := new(big.Int).ModInverse(s.v, s.order)
	if inv == nil {
		return Scalar{}, fmt.Errorf("scalar has no inverse modulo %s", s.order)
	}
	return Scalar{v: inv, order: s.order}, nil
}

// Exp returns s^e computed by repeated squaring.
func (s Scalar) Exp(e uint64) Scalar {
	result := s.with(big.NewInt(1))
	base := s
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Powers returns the n first powers of s: s^0, s^1, ..., s^(n-1).
func (s Scalar) Powers(n int) []Scalar {
	out := make([]Scalar, n)
	if n == 0 {
		return out
	}
	out[0] = s.with(big.NewInt(1))
	for i := 1; i < n; i++ {
		out[i] = out[i-1].Mul(s)
	}
	return out
}

// One returns the scalar 1 of the same curve as s.
func (s Scalar) One() Scalar {
	return s.with(big.NewInt(1))
}

// Zero returns the scalar 0 of the same curve as s.
func (s Scalar) Zero() Scalar {
	return s.with(new(big.Int))
}

// Valid reports whether s was built by one of the constructors of this
// package, as opposed to the zero value of the type.
func (s Scalar) Valid() bool {
	return s.v != nil && s.order != nil
}

// IsZero reports whether s == 0.
func (s Scalar) IsZero() bool {
	return s.v == nil || s.v.Sign() == 0
}

// Equal reports whether both scalars hold the same value.
func (s Scalar) Equal(o Scalar) bool {
	if s.v == nil || o.v == nil {
		return s.IsZero() && o.IsZero()
	}
	return s.v.Cmp(o.v) == 0
}

// BigInt returns a copy of the scalar value.
func (s Scalar) BigInt() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.v)
}

// Bytes returns the canonical 32 bytes big-endian encoding of s.
func (s Scalar) Bytes() []byte {
	buf := make([]byte, ScalarSize)
	if s.v != nil {
		s.v.FillBytes(buf)
	}
	return buf
}

// String returns the decimal representation of s.
func (s Scalar) String() string {
	return s.BigInt().String()
}
