// Package predicate implements the two geometric primitives the rest of the
// triangulation pipeline is built on: orientation and in-circle. Both are
// pure functions of their point arguments with no package-level state, so
// that recursive siblings of the divide-and-conquer solver can never observe
// a different answer to the same geometric question.
package predicate

import (
	"math"
	"math/big"
	"sort"

	"github.com/golang/geo/r2"
)

// Point is a point in the Euclidean plane carrying a stable integer identity
// assigned at ingestion. Coordinates live in an r2.Point, the planar sibling
// of the sphere-oriented r3/s1/s2 types in the same geometry library; this
// package never needs those.
type Point struct {
	r2.Point
	ID int
}

// Orientation is the three-way result of a sidedness test.
type Orientation int

const (
	Collinear Orientation = iota
	Left
	Right
)

// relativeEpsilon bounds how large a determinant can be, relative to the
// magnitude of its inputs, while still being treated as exactly zero. This
// is the "conservative bound" the robustness policy calls for: rather than
// compare against a fixed absolute tolerance, we scale by the operands so
// the test behaves consistently across the wildly different coordinate
// magnitudes a caller might pass in.
const relativeEpsilon = 1e-9

// Orient returns the sign of the cross product (b-a) x (c-a): Left if c is
// strictly left of the directed line a->b, Right if strictly right,
// Collinear if the three points lie on one line within floating-point
// tolerance.
//
// Orient is the sole authority on collinearity: every other predicate in
// this package that needs to know whether three points are collinear calls
// Orient rather than re-deriving the answer, so the two questions can never
// disagree.
func Orient(a, b, c Point) Orientation {
	det := orientDet(a, b, c)
	scale := math.Abs(b.X-a.X)*math.Abs(c.Y-a.Y) + math.Abs(b.Y-a.Y)*math.Abs(c.X-a.X)
	if math.Abs(det) <= relativeEpsilon*math.Max(scale, 1) {
		// Ambiguous in float64; recompute at higher precision before
		// giving up and calling it collinear.
		det = orientDetBig(a, b, c)
		if det == 0 {
			return Collinear
		}
	}
	if det > 0 {
		return Left
	}
	return Right
}

func orientDet(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// orientDetBig recomputes the orientation determinant with arbitrary
// precision rationals, the "wider floating-point format" fallback the
// robustness policy asks for when the float64 result is too close to zero
// to trust. Returns a value whose sign matches the exact determinant, or
// exactly 0.0 when the three points are exactly collinear.
func orientDetBig(a, b, c Point) float64 {
	ax, ay := new(big.Rat).SetFloat64(a.X), new(big.Rat).SetFloat64(a.Y)
	bx := new(big.Rat).Sub(new(big.Rat).SetFloat64(b.X), ax)
	by := new(big.Rat).Sub(new(big.Rat).SetFloat64(b.Y), ay)
	cx := new(big.Rat).Sub(new(big.Rat).SetFloat64(c.X), ax)
	cy := new(big.Rat).Sub(new(big.Rat).SetFloat64(c.Y), ay)

	t1 := new(big.Rat).Mul(bx, cy)
	t2 := new(big.Rat).Mul(by, cx)
	det := t1.Sub(t1, t2)

	f, _ := det.Float64()
	if det.Sign() == 0 {
		return 0
	}
	if f == 0 {
		// Underflowed to zero in float64 despite a nonzero exact sign;
		// report a tiny value of the correct sign instead of losing it.
		f = math.Copysign(1e-300, float64(det.Sign()))
	}
	return f
}

// InCircle reports whether d lies strictly inside the circle through a, b, c
// (which must be given in CCW order). When a, b, c are (nearly) collinear
// the circle through them is not well-defined; per the tie-break policy,
// the answer is then decided purely from the four points' identities so
// that every caller — regardless of which recursive branch it is — agrees.
//
// A point can never lie strictly inside a circle it is itself one of the
// defining three points of, so InCircle short-circuits to false whenever d
// shares an id with a, b, or c — before either tiebreak, which decide by
// comparing ids and have no notion of a repeated one.
func InCircle(a, b, c, d Point) bool {
	if d.ID == a.ID || d.ID == b.ID || d.ID == c.ID {
		return false
	}
	if Orient(a, b, c) == Collinear {
		return collinearTiebreak(a, b, c, d)
	}

	det := inCircleDet(a, b, c, d)
	scale := inCircleScale(a, b, c, d)
	if math.Abs(det) <= relativeEpsilon*math.Max(scale, 1) {
		det = inCircleDetBig(a, b, c, d)
		if det == 0 {
			return cocircularTiebreak(a, b, c, d)
		}
	}
	return det > 0
}

// triArea is twice the signed area of triangle (a, b, c); the sign matches
// Orient's, and its magnitude enters the in-circle lifting determinant.
func triArea(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func inCircleDet(a, b, c, d Point) float64 {
	return (a.X*a.X+a.Y*a.Y)*triArea(b, c, d) -
		(b.X*b.X+b.Y*b.Y)*triArea(a, c, d) +
		(c.X*c.X+c.Y*c.Y)*triArea(a, b, d) -
		(d.X*d.X+d.Y*d.Y)*triArea(a, b, c)
}

func inCircleScale(a, b, c, d Point) float64 {
	mag := func(p Point) float64 { return p.X*p.X + p.Y*p.Y }
	m := math.Max(math.Max(mag(a), mag(b)), math.Max(mag(c), mag(d)))
	return m * m
}

// inCircleDetBig mirrors inCircleDet with arbitrary-precision rationals.
func inCircleDetBig(a, b, c, d Point) float64 {
	toRat := func(p Point) (*big.Rat, *big.Rat) {
		return new(big.Rat).SetFloat64(p.X), new(big.Rat).SetFloat64(p.Y)
	}
	ax, ay := toRat(a)
	bx, by := toRat(b)
	cx, cy := toRat(c)
	dx, dy := toRat(d)

	area := func(px, py, qx, qy, rx, ry *big.Rat) *big.Rat {
		t1 := new(big.Rat).Sub(qx, px)
		t2 := new(big.Rat).Sub(ry, py)
		t3 := new(big.Rat).Sub(qy, py)
		t4 := new(big.Rat).Sub(rx, px)
		return new(big.Rat).Sub(new(big.Rat).Mul(t1, t2), new(big.Rat).Mul(t3, t4))
	}
	sq := func(x, y *big.Rat) *big.Rat {
		return new(big.Rat).Add(new(big.Rat).Mul(x, x), new(big.Rat).Mul(y, y))
	}

	term1 := new(big.Rat).Mul(sq(ax, ay), area(bx, by, cx, cy, dx, dy))
	term2 := new(big.Rat).Mul(sq(bx, by), area(ax, ay, cx, cy, dx, dy))
	term3 := new(big.Rat).Mul(sq(cx, cy), area(ax, ay, bx, by, dx, dy))
	term4 := new(big.Rat).Mul(sq(dx, dy), area(ax, ay, bx, by, cx, cy))

	det := new(big.Rat).Sub(term1, term2)
	det.Add(det, term3)
	det.Sub(det, term4)

	if det.Sign() == 0 {
		return 0
	}
	f, _ := det.Float64()
	if f == 0 {
		f = math.Copysign(1e-300, float64(det.Sign()))
	}
	return f
}

// collinearTiebreak and cocircularTiebreak resolve a geometrically
// degenerate query from the four point identities alone, so any recursive
// branch that re-derives the same four points reaches the same conclusion
// regardless of which sibling merge produced the call. collinearTiebreak
// sorts the ids and answers based on where d falls. cocircularTiebreak
// lifts the lowest-id point of the four infinitesimally above the common
// circle's paraboloid: the answer is the sign of that point's cofactor in
// the in-circle determinant, which is consistent whichever of the four
// points plays the role of d.
func collinearTiebreak(a, b, c, d Point) bool {
	return tiebreak(a, b, c, d)
}

func cocircularTiebreak(a, b, c, d Point) bool {
	lifted := a
	coef := Orient(b, c, d)
	sign := 1
	for i, p := range [3]Point{b, c, d} {
		if p.ID < lifted.ID {
			lifted = p
			others := [3][3]Point{{a, c, d}, {a, b, d}, {a, b, c}}[i]
			coef = Orient(others[0], others[1], others[2])
			sign = []int{-1, 1, -1}[i]
		}
	}
	if coef == Left {
		return sign > 0
	}
	return sign < 0
}

func tiebreak(a, b, c, d Point) bool {
	ids := []int{a.ID, b.ID, c.ID, d.ID}
	sort.Ints(ids)
	// d is "inside" iff its id is not the largest of the four: a fixed,
	// order-independent rule that only inspects identities.
	return d.ID != ids[3]
}
