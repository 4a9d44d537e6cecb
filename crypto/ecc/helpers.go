package ecc

// Generator returns a new element set to the generator of the curve group.
func Generator(curve Point) Point {
	g := curve.New()
	g.SetGenerator()
	return g
}

// Clone returns a new element holding the same value as p.
func Clone(p Point) Point {
	c := p.New()
	c.Set(p)
	return c
}

// Mul returns s·p as a new element.
func Mul(p Point, s Scalar) Point {
	r := p.New()
	r.ScalarMult(p, s.BigInt())
	return r
}

// BaseMul returns s·G as a new element of the given curve.
func BaseMul(curve Point, s Scalar) Point {
	r := curve.New()
	r.ScalarBaseMult(s.BigInt())
	return r
}

// Sum returns a + b as a new element.
func Sum(a, b Point) Point {
	r := a.New()
	r.Add(a, b)
	return r
}

// Diff returns a - b as a new element.
func Diff(a, b Point) Point {
	r := a.New()
	r.Sub(a, b)
	return r
}

// Decode returns a new element of the given curve decoded from buf.
func Decode(curve Point, buf []byte) (Point, error) {
	p := curve.New()
	if err := p.Unmarshal(buf); err != nil {
		return nil, err
	}
	return p, nil
}

// SameCurve reports whether both elements belong to the same implementation.
func SameCurve(a, b Point) bool {
	return a.Type() == b.Type()
}
