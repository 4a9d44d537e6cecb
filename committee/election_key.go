package committee

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/elgamal"
	"github.com/vocdoni/private-voting/vote"
)

// ElectionPublicKeyHRP is the human readable part of bech32 election keys.
const ElectionPublicKeyHRP = config.ElectionPublicKeyHRP

// ElectionPublicKey is the joint public key of a committee, the one voters
// encrypt their ballots to.
type ElectionPublicKey struct {
	pk *elgamal.PublicKey
}

// NewElectionPublicKey wraps an ElGamal public key.
func NewElectionPublicKey(pk *elgamal.PublicKey) *ElectionPublicKey {
	return &ElectionPublicKey{pk: pk}
}

// PublicKey returns the ElGamal key used for ballot encryption.
func (k *ElectionPublicKey) PublicKey() *elgamal.PublicKey {
	return k.pk
}

// Bytes returns the point encoding of the key.
func (k *ElectionPublicKey) Bytes() []byte {
	return k.pk.Bytes()
}

// ElectionPublicKeyFromBytes decodes a key of the given curve.
func ElectionPublicKeyFromBytes(curve ecc.Point, b []byte) (*ElectionPublicKey, error) {
	pk, err := elgamal.PublicKeyFromBytes(curve, b)
	if err != nil {
		return nil, err
	}
	return &ElectionPublicKey{pk: pk}, nil
}

// Bech32 encodes the key with the given human readable part.
func (k *ElectionPublicKey) Bech32(hrp string) (string, error) {
	data, err := bech32.ConvertBits(k.Bytes(), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("cannot convert election key: %w", err)
	}
	return bech32.Encode(hrp, data)
}

// ElectionPublicKeyFromBech32 decodes a bech32 key. The human readable part
// is not checked.
func ElectionPublicKeyFromBech32(curve ecc.Point, s string) (*ElectionPublicKey, error) {
	// point encodings do not fit in the 90 characters of the standard limit
	_, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, ecc.NewDecodingError("election public key", "invalid bech32: %v", err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, ecc.NewDecodingError("election public key", "invalid bech32 data: %v", err)
	}
	return ElectionPublicKeyFromBytes(curve, raw)
}

// ParseElectionPublicKey decodes a key given either in bech32, with the
// ElectionPublicKeyHRP prefix, or as hex.
func ParseElectionPublicKey(curve ecc.Point, s string) (*ElectionPublicKey, error) {
	if strings.HasPrefix(s, ElectionPublicKeyHRP+"1") {
		return ElectionPublicKeyFromBech32(curve, s)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, ecc.NewDecodingError("election public key", "invalid hex: %v", err)
	}
	return ElectionPublicKeyFromBytes(curve, raw)
}

// Fingerprint returns the fingerprint of the election defined by this key and
// the common reference string.
func (k *ElectionPublicKey) Fingerprint(crs []byte) vote.Fingerprint {
	return vote.NewFingerprint(crs, k.pk)
}

// Equal reports whether both keys are the same point.
func (k *ElectionPublicKey) Equal(o *ElectionPublicKey) bool {
	return o != nil && k.pk.Equal(o.pk)
}

func (k *ElectionPublicKey) String() string {
	s, err := k.Bech32(ElectionPublicKeyHRP)
	if err != nil {
		return fmt.Sprintf("%x", k.Bytes())
	}
	return s
}
