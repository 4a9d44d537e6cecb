package elgamal

import (
	"fmt"
	"io"

	"github.com/vocdoni/private-voting/crypto/ecc"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// HybridCiphertext is the result of the hybrid encryption of an arbitrary
// message: a random group element encrypted with ElGamal, and the message
// encrypted with a ChaCha20 keystream derived from that element.
type HybridCiphertext struct {
	Key  *Ciphertext
	Data []byte
}

// deriveStream turns the shared group element into a ChaCha20 cipher, keyed
// with the first 32 bytes of Blake2b-512(K) and the next 12 as the nonce.
func deriveStream(k ecc.Point) (*chacha20.Cipher, error) {
	material := blake2b.Sum512(k.Marshal())
	return chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:chacha20.KeySize+chacha20.NonceSize])
}

// HybridEncrypt encrypts msg for the holder of the secret key matching pk.
func (pk *PublicKey) HybridEncrypt(rng io.Reader, msg []byte) (*HybridCiphertext, error) {
	k, err := ecc.RandomScalar(rng, pk.Point)
	if err != nil {
		return nil, fmt.Errorf("hybrid encryption failed: %w", err)
	}
	symmetric := ecc.BaseMul(pk.Point, k)
	key, _, err := pk.EncryptPoint(rng, symmetric)
	if err != nil {
		return nil, fmt.Errorf("hybrid encryption failed: %w", err)
	}
	stream, err := deriveStream(symmetric)
	if err != nil {
		return nil, fmt.Errorf("hybrid encryption failed: %w", err)
	}
	data := make([]byte, len(msg))
	stream.XORKeyStream(data, msg)
	return &HybridCiphertext{Key: key, Data: data}, nil
}

// HybridDecrypt recovers the message of a hybrid ciphertext. ChaCha20 is not
// authenticated, so callers must validate the plaintext they get.
func (sk *SecretKey) HybridDecrypt(hc *HybridCiphertext) ([]byte, error) {
	if hc == nil || hc.Key == nil {
		return nil, fmt.Errorf("empty hybrid ciphertext")
	}
	stream, err := deriveStream(sk.DecryptPoint(hc.Key))
	if err != nil {
		return nil, fmt.Errorf("hybrid decryption failed: %w", err)
	}
	msg := make([]byte, len(hc.Data))
	stream.XORKeyStream(msg, hc.Data)
	return msg, nil
}

// Marshal returns Key || Data.
func (hc *HybridCiphertext) Marshal() []byte {
	return append(hc.Key.Marshal(), hc.Data...)
}

// HybridCiphertextFromBytes decodes Key || Data for the given curve.
func HybridCiphertextFromBytes(curve ecc.Point, data []byte) (*HybridCiphertext, error) {
	size := CiphertextSize(curve)
	if len(data) < size {
		return nil, ecc.NewDecodingError("hybrid ciphertext", "invalid input length: got %d bytes, expected at least %d bytes", len(data), size)
	}
	key, err := CiphertextFromBytes(curve, data[:size])
	if err != nil {
		return nil, err
	}
	return &HybridCiphertext{Key: key, Data: append([]byte{}, data[size:]...)}, nil
}
