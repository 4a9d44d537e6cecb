package unitvector

import (
	"math/bits"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
)

// MaxBits is the largest bit size accepted for a proof, which bounds the
// padded vector length to 2^32 entries.
const MaxBits = 32

// Binrep returns the binary representation of n using digits bits, most
// significant bit first. Bits of n above digits are ignored.
func Binrep(n uint64, digits int) []bool {
	out := make([]bool, digits)
	for i := 0; i < digits; i++ {
		shift := digits - 1 - i
		if shift < 64 {
			out[i] = (n>>uint(shift))&1 == 1
		}
	}
	return out
}

// PaddedLen returns the smallest power of two greater or equal than n. Zero
// is padded to one.
func PaddedLen(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Bits returns log2(PaddedLen(n)).
func Bits(n int) int {
	return bits.TrailingZeros(uint(PaddedLen(n)))
}

// padCiphertexts extends ciphers up to the next power of two with zero
// ciphertexts, which are encryptions of 0 with zero randomness.
func padCiphertexts(curve ecc.Point, ciphers []*elgamal.Ciphertext) []*elgamal.Ciphertext {
	padded := make([]*elgamal.Ciphertext, PaddedLen(len(ciphers)))
	copy(padded, ciphers)
	for i := len(ciphers); i < len(padded); i++ {
		padded[i] = elgamal.NewCiphertext(curve)
	}
	return padded
}

// padRandomness extends the encryption randomness with zeros, matching
// padCiphertexts.
func padRandomness(curve ecc.Point, randomness []ecc.Scalar) []ecc.Scalar {
	padded := make([]ecc.Scalar, PaddedLen(len(randomness)))
	copy(padded, randomness)
	for i := len(randomness); i < len(padded); i++ {
		padded[i] = ecc.NewScalar(curve)
	}
	return padded
}
