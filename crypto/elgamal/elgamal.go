package elgamal

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/vocdoni/private-voting/crypto/ecc"
)

// ErrDiscreteLogNotFound is returned by BabyStepGiantStep when the message is
// greater than the configured maximum.
var ErrDiscreteLogNotFound = errors.New("discrete logarithm not found within the given bound")

// PublicKey is an ElGamal public key, pk = sk·G.
type PublicKey struct {
	Point ecc.Point
}

// SecretKey is an ElGamal secret key. Its scalar must never be logged.
type SecretKey struct {
	scalar ecc.Scalar
	pub    *PublicKey
}

// GenerateKey generates a new public/private ElGamal encryption key pair on
// the given curve using the randomness of rng.
func GenerateKey(rng io.Reader, curve ecc.Point) (*PublicKey, *SecretKey, error) {
	for {
		d, err := ecc.RandomScalar(rng, curve)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate private key scalar: %w", err)
		}
		// avoid zero private keys
		if d.IsZero() {
			continue
		}
		sk := NewSecretKey(curve, d)
		return sk.Public(), sk, nil
	}
}

// NewSecretKey wraps an existing scalar as a secret key of the given curve.
func NewSecretKey(curve ecc.Point, d ecc.Scalar) *SecretKey {
	return &SecretKey{
		scalar: d,
		pub:    &PublicKey{Point: ecc.BaseMul(curve, d)},
	}
}

// SecretKeyFromBytes decodes a secret key scalar.
func SecretKeyFromBytes(curve ecc.Point, buf []byte) (*SecretKey, error) {
	d, err := ecc.ScalarFromBytes(curve, buf)
	if err != nil {
		return nil, err
	}
	return NewSecretKey(curve, d), nil
}

// Public returns the public key of sk.
func (sk *SecretKey) Public() *PublicKey {
	return sk.pub
}

// Scalar returns the secret scalar.
func (sk *SecretKey) Scalar() ecc.Scalar {
	return sk.scalar
}

// Bytes returns the canonical encoding of the secret scalar.
func (sk *SecretKey) Bytes() []byte {
	return sk.scalar.Bytes()
}

// PublicKeyFromBytes decodes a public key of the given curve.
func PublicKeyFromBytes(curve ecc.Point, buf []byte) (*PublicKey, error) {
	p, err := ecc.Decode(curve, buf)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return &PublicKey{Point: p}, nil
}

// Bytes returns the canonical encoding of the public key.
func (pk *PublicKey) Bytes() []byte {
	return pk.Point.Marshal()
}

// Curve returns a new identity element of the public key curve.
func (pk *PublicKey) Curve() ecc.Point {
	return pk.Point.New()
}

// Equal reports whether both keys hold the same point.
func (pk *PublicKey) Equal(o *PublicKey) bool {
	return o != nil && pk.Point.Equal(o.Point)
}

// EncryptScalar encrypts m·G under pk with fresh randomness, which is returned
// together with the ciphertext.
func (pk *PublicKey) EncryptScalar(rng io.Reader, m ecc.Scalar) (*Ciphertext, ecc.Scalar, error) {
	r, err := ecc.RandomScalar(rng, pk.Point)
	if err != nil {
		return nil, ecc.Scalar{}, fmt.Errorf("elgamal encryption failed: %w", err)
	}
	return pk.EncryptWithRandomness(m, r), r, nil
}

// EncryptWithRandomness computes the ciphertext (r·G, m·G + r·pk). It is
// deterministic and only meant for provers that already hold r.
func (pk *PublicKey) EncryptWithRandomness(m, r ecc.Scalar) *Ciphertext {
	return pk.EncryptPointWithRandomness(ecc.BaseMul(pk.Point, m), r)
}

// EncryptPoint encrypts the group element M under pk with fresh randomness.
func (pk *PublicKey) EncryptPoint(rng io.Reader, m ecc.Point) (*Ciphertext, ecc.Scalar, error) {
	r, err := ecc.RandomScalar(rng, pk.Point)
	if err != nil {
		return nil, ecc.Scalar{}, fmt.Errorf("elgamal encryption failed: %w", err)
	}
	return pk.EncryptPointWithRandomness(m, r), r, nil
}

// EncryptPointWithRandomness computes the ciphertext (r·G, M + r·pk).
func (pk *PublicKey) EncryptPointWithRandomness(m ecc.Point, r ecc.Scalar) *Ciphertext {
	// compute C1 = r * G
	c1 := ecc.BaseMul(pk.Point, r)
	// compute C2 = M + r * pubKey
	c2 := ecc.Sum(m, ecc.Mul(pk.Point, r))
	return &Ciphertext{C1: c1, C2: c2}
}

// DecryptPoint returns the point M = C2 - sk·C1.
func (sk *SecretKey) DecryptPoint(c *Ciphertext) ecc.Point {
	return ecc.Diff(c.C2, ecc.Mul(c.C1, sk.scalar))
}

// Decrypt decrypts the given ciphertext using the private key and solves the
// discrete logarithm of the resulting point for messages in [0, maxMessage].
// This is the single key holder path, threshold decryption goes through the
// committee decrypt shares.
func (sk *SecretKey) Decrypt(c *Ciphertext, maxMessage uint64) (uint64, error) {
	m := sk.DecryptPoint(c)
	message, err := BabyStepGiantStep(m, ecc.Generator(m), maxMessage)
	if err != nil {
		return 0, fmt.Errorf("failed to find discrete log: %w", err)
	}
	return message, nil
}

// BabyStepGiantStep solves M = x*G for x in [0, maxMessage] using the
// baby-step giant-step algorithm over elliptic curves.
func BabyStepGiantStep(m, g ecc.Point, maxMessage uint64) (uint64, error) {
	mSqrt := uint64(math.Sqrt(float64(maxMessage))) + 1

	// Precompute baby steps: store 0, G, 2G, ..., (mSqrt-1)G in a map
	babySteps := make(map[string]uint64, mSqrt)
	babyStep := m.New()
	for j := uint64(0); j < mSqrt; j++ {
		babySteps[string(babyStep.Marshal())] = j
		babyStep.Add(babyStep, g)
	}

	// Compute c = mSqrt * (-G)
	c := m.New()
	c.ScalarMult(g, new(big.Int).SetUint64(mSqrt))
	c.Neg(c)

	giantStep := ecc.Clone(m)
	for i := uint64(0); i <= mSqrt; i++ {
		if j, found := babySteps[string(giantStep.Marshal())]; found {
			x := i*mSqrt + j
			if x > maxMessage {
				break
			}
			return x, nil
		}
		giantStep.Add(giantStep, c)
	}
	return 0, ErrDiscreteLogNotFound
}
