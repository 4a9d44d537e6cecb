package bn254

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	curve "github.com/vocdoni/private-voting/crypto/ecc"
)

const CurveType = "bn254"

// hashToCurveDST is the domain separation tag used to hash into G1.
var hashToCurveDST = []byte("PRIVATE-VOTING-V01-CS01-with-BN254G1_XMD:SHA-256_SVDW_RO_")

var Generator bn254.G1Jac

func init() {
	Generator.X.SetOne()
	Generator.Y.SetUint64(2)
	Generator.Z.SetOne()
}

// G1 is the affine representation of a G1 group element.
type G1 struct {
	inner *bn254.G1Affine
	lock  sync.Mutex
}

// New returns the point at infinity.
func (g *G1) New() curve.Point {
	return &G1{inner: new(bn254.G1Affine)}
}

func (g *G1) Order() *big.Int {
	return fr.Modulus()
}

func (g *G1) Add(a, b curve.Point) {
	temp := new(bn254.G1Affine)
	temp.Add(a.(*G1).inner, b.(*G1).inner)
	*g.inner = *temp
}

func (g *G1) SafeAdd(a, b curve.Point) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Add(a, b)
}

func (g *G1) Sub(a, b curve.Point) {
	neg := new(bn254.G1Affine)
	neg.Neg(b.(*G1).inner)
	temp := new(bn254.G1Affine)
	temp.Add(a.(*G1).inner, neg)
	*g.inner = *temp
}

func (g *G1) ScalarMult(a curve.Point, scalar *big.Int) {
	temp := new(bn254.G1Affine)
	temp.ScalarMultiplication(a.(*G1).inner, scalar)
	*g.inner = *temp
}

func (g *G1) ScalarBaseMult(scalar *big.Int) {
	g.inner.ScalarMultiplicationBase(scalar)
}

// Marshal returns the 32 bytes compressed encoding. The point at infinity is
// encoded with the compressed infinity flag.
func (g *G1) Marshal() []byte {
	b := g.inner.Bytes()
	return b[:]
}

// Unmarshal decodes a compressed point. gnark-crypto checks that the point is
// on the curve and in G1; the re-encoding check rejects non canonical inputs.
func (g *G1) Unmarshal(buf []byte) error {
	if err := curve.CheckLength(CurveType+" point", buf, bn254.SizeOfG1AffineCompressed); err != nil {
		return err
	}
	p := new(bn254.G1Affine)
	if _, err := p.SetBytes(buf); err != nil {
		return curve.NewDecodingError(CurveType+" point", "%v", err)
	}
	if b := p.Bytes(); !bytes.Equal(b[:], buf) {
		return curve.NewDecodingError(CurveType+" point", "non canonical encoding")
	}
	if g.inner == nil {
		g.inner = new(bn254.G1Affine)
	}
	*g.inner = *p
	return nil
}

func (g *G1) MarshalSize() int {
	return bn254.SizeOfG1AffineCompressed
}

// HashToPoint uses the SVDW hash to curve of gnark-crypto.
func (g *G1) HashToPoint(msg []byte) error {
	p, err := bn254.HashToG1(msg, hashToCurveDST)
	if err != nil {
		return fmt.Errorf("hash to G1: %w", err)
	}
	*g.inner = p
	return nil
}

func (g *G1) Equal(a curve.Point) bool {
	return g.inner.Equal(a.(*G1).inner)
}

func (g *G1) IsZero() bool {
	return g.inner.IsInfinity()
}

func (g *G1) Neg(a curve.Point) {
	g.inner.Neg(a.(*G1).inner)
}

func (g *G1) SetZero() {
	g.inner.X.SetZero()
	g.inner.Y.SetZero()
}

func (g *G1) Set(a curve.Point) {
	g.inner.X.Set(&a.(*G1).inner.X)
	g.inner.Y.Set(&a.(*G1).inner.Y)
}

func (g *G1) SetGenerator() {
	g.inner.FromJacobian(&Generator)
}

func (g *G1) String() string {
	return fmt.Sprintf("%x", g.Marshal())
}

func (g *G1) Type() string {
	return CurveType
}
