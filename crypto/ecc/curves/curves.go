package curves

import (
	"fmt"

	"github.com/vocdoni/private-voting/crypto/ecc"
	bjj_gnark "github.com/vocdoni/private-voting/crypto/ecc/bjj_gnark"
	"github.com/vocdoni/private-voting/crypto/ecc/bn254"
	"github.com/vocdoni/private-voting/crypto/ecc/ed25519"
)

const (
	CurveTypeBN254           = bn254.CurveType
	CurveTypeBabyJubJubGnark = bjj_gnark.CurveType
	CurveTypeBabyJubJub      = CurveTypeBabyJubJubGnark // Default bjj curve type
	CurveTypeEd25519         = ed25519.CurveType
	// CurveTypeDefault is the curve used when none is configured.
	CurveTypeDefault = CurveTypeBN254
)

// New creates a new instance of a Curve implementation based on the provided
// type string. The returned point is the identity element. The supported
// types are defined as constants in this package. If the type is not
// supported, it will panic, use IsValid to check untrusted input first.
func New(curveType string) ecc.Point {
	switch curveType {
	case CurveTypeBabyJubJubGnark:
		return bjj_gnark.New()
	case CurveTypeBN254:
		return (&bn254.G1{}).New()
	case CurveTypeEd25519:
		return ed25519.New()
	default:
		panic(fmt.Sprintf("unsupported curve type: %s", curveType))
	}
}

// Curves returns the list of supported curve types.
func Curves() []string {
	return []string{CurveTypeBN254, CurveTypeBabyJubJubGnark, CurveTypeEd25519}
}

// IsValid reports whether curveType is supported.
func IsValid(curveType string) bool {
	for _, c := range Curves() {
		if c == curveType {
			return true
		}
	}
	return false
}
