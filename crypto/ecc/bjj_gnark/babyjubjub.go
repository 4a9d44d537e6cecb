package bjj

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	babyjubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	curve "github.com/vocdoni/private-voting/crypto/ecc"
	"golang.org/x/crypto/blake2b"
)

const CurveType = "bjj_gnark"

// pointSize is the size of the compressed point encoding of gnark-crypto.
const pointSize = fr.Bytes

// hashDomain separates hash to point inputs from any other use of blake2b.
var hashDomain = []byte("private-voting/bjj/hash-to-point")

var (
	Params   babyjubjub.CurveParams
	cofactor = big.NewInt(8)

	// teFactor maps the x coordinate of gnark's reduced form (a = -1) back to
	// the iden3 twisted Edwards form (a = 168700): x = x' / -f, f^2 = -168700.
	teFactor fr.Element
)

func init() {
	Params = babyjubjub.GetEdwardsCurve()
	if _, err := teFactor.SetString("6360561867910373094066688120553762416144456282423235903351243436111059670888"); err != nil {
		panic(err)
	}
	teFactor.Neg(&teFactor)
	teFactor.Inverse(&teFactor)
}

// BJJ is the affine representation of the BabyJubJub group element.
type BJJ struct {
	inner *babyjubjub.PointAffine
	lock  sync.Mutex
}

// New creates a new BJJ point (identity element by default).
func New() curve.Point {
	return (&BJJ{}).New()
}

// New creates a new BJJ point (identity element by default).
func (g *BJJ) New() curve.Point {
	p := &BJJ{inner: new(babyjubjub.PointAffine)}
	p.SetZero()
	return p
}

// Order returns the order of the BabyJubJub prime subgroup.
func (g *BJJ) Order() *big.Int {
	return new(big.Int).Set(&Params.Order)
}

// Add performs the addition of two points and stores the result in g.
func (g *BJJ) Add(a, b curve.Point) {
	g.inner.Add(a.(*BJJ).inner, b.(*BJJ).inner)
}

// SafeAdd performs the addition of two points with a lock.
func (g *BJJ) SafeAdd(a, b curve.Point) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Add(a, b)
}

// Sub computes a - b and stores the result in g.
func (g *BJJ) Sub(a, b curve.Point) {
	neg := new(babyjubjub.PointAffine)
	neg.Neg(b.(*BJJ).inner)
	g.inner.Add(a.(*BJJ).inner, neg)
}

// ScalarMult performs scalar multiplication of a point by a scalar.
func (g *BJJ) ScalarMult(a curve.Point, scalar *big.Int) {
	g.inner.ScalarMultiplication(a.(*BJJ).inner, scalar)
}

// ScalarBaseMult performs scalar multiplication using the base point.
func (g *BJJ) ScalarBaseMult(scalar *big.Int) {
	g.inner.ScalarMultiplication(&Params.Base, scalar)
}

// Equal checks if the given point is equal to the current point.
func (g *BJJ) Equal(a curve.Point) bool {
	return g.inner.Equal(a.(*BJJ).inner)
}

// IsZero reports whether g is the identity (0, 1).
func (g *BJJ) IsZero() bool {
	return g.inner.IsZero()
}

// Neg negates the given point and stores the result in g.
func (g *BJJ) Neg(a curve.Point) {
	g.inner.Neg(a.(*BJJ).inner)
}

// SetZero sets the current point to the identity element (0, 1).
func (g *BJJ) SetZero() {
	g.inner.X.SetZero()
	g.inner.Y.SetOne()
}

// Set sets g to the value of another point.
func (g *BJJ) Set(a curve.Point) {
	g.inner.Set(a.(*BJJ).inner)
}

// SetGenerator sets the point to the BabyJubJub generator.
func (g *BJJ) SetGenerator() {
	g.inner.Set(&Params.Base)
}

// String returns the hexadecimal compressed encoding of the point.
func (g *BJJ) String() string {
	return fmt.Sprintf("%x", g.Marshal())
}

// Marshal serializes the point into its 32 bytes compressed form: y in
// little endian with the sign of the twisted Edwards x in the top bit, the
// same encoding as iden3's Compress.
func (g *BJJ) Marshal() []byte {
	var x fr.Element
	x.Mul(&g.inner.X, &teFactor)
	y := g.inner.Y.Bytes()
	buf := make([]byte, pointSize)
	for i := range y {
		buf[i] = y[pointSize-1-i]
	}
	if x.LexicographicallyLargest() {
		buf[pointSize-1] |= 0x80
	}
	return buf
}

// Point returns the coordinates of the point in twisted Edwards form.
func (g *BJJ) Point() (*big.Int, *big.Int) {
	var x fr.Element
	x.Mul(&g.inner.X, &teFactor)
	return x.BigInt(new(big.Int)), g.inner.Y.BigInt(new(big.Int))
}

// Unmarshal deserializes a compressed point. The point must be on the curve
// and belong to the prime order subgroup.
func (g *BJJ) Unmarshal(buf []byte) error {
	if err := curve.CheckLength(CurveType+" point", buf, pointSize); err != nil {
		return err
	}
	p := new(babyjubjub.PointAffine)
	if _, err := p.SetBytes(buf); err != nil {
		return curve.NewDecodingError(CurveType+" point", "%v", err)
	}
	if !p.IsOnCurve() {
		return curve.NewDecodingError(CurveType+" point", "point is not on the curve")
	}
	// gnark picks x by the sign in its own coordinates, fix it to the
	// twisted Edwards sign carried by the encoding
	var x fr.Element
	x.Mul(&p.X, &teFactor)
	if x.LexicographicallyLargest() != (buf[pointSize-1]&0x80 != 0) {
		p.X.Neg(&p.X)
	}
	if !bytes.Equal((&BJJ{inner: p}).Marshal(), buf) {
		return curve.NewDecodingError(CurveType+" point", "non canonical encoding")
	}
	check := new(babyjubjub.PointAffine)
	check.ScalarMultiplication(p, &Params.Order)
	if !check.IsZero() {
		return curve.NewDecodingError(CurveType+" point", "point is not in the prime order subgroup")
	}
	if g.inner == nil {
		g.inner = new(babyjubjub.PointAffine)
	}
	g.inner.Set(p)
	return nil
}

// MarshalSize returns the size of the compressed encoding.
func (g *BJJ) MarshalSize() int {
	return pointSize
}

// HashToPoint maps msg to the prime order subgroup by try-and-increment: the
// blake2b digest of msg and a counter is used as the y coordinate until the
// curve equation has a solution, then the cofactor is cleared.
func (g *BJJ) HashToPoint(msg []byte) error {
	var one, num, den, x2, y, y2 fr.Element
	one.SetOne()
	counter := make([]byte, 4)
	for i := uint32(0); i < 1<<16; i++ {
		binary.BigEndian.PutUint32(counter, i)
		h, err := blake2b.New256(nil)
		if err != nil {
			return err
		}
		h.Write(hashDomain)
		h.Write(msg)
		h.Write(counter)
		y.SetBytes(h.Sum(nil))

		// x^2 = (1 - y^2) / (a - d*y^2)
		y2.Square(&y)
		num.Sub(&one, &y2)
		den.Mul(&Params.D, &y2)
		den.Sub(&Params.A, &den)
		if den.IsZero() {
			continue
		}
		den.Inverse(&den)
		x2.Mul(&num, &den)

		p := new(babyjubjub.PointAffine)
		if p.X.Sqrt(&x2) == nil {
			continue
		}
		p.Y.Set(&y)
		if !p.IsOnCurve() {
			continue
		}
		p.ScalarMultiplication(p, cofactor)
		if p.IsZero() {
			continue
		}
		g.inner.Set(p)
		return nil
	}
	return fmt.Errorf("hash to point: no point found")
}

func (g *BJJ) Type() string {
	return CurveType
}
