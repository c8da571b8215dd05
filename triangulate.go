package delaunay

import (
	"github.com/v-hill/parallel-delaunay/internal/xerrors"
	"github.com/v-hill/parallel-delaunay/predicate"
	"github.com/v-hill/parallel-delaunay/quadedge"
)

// Triangulate computes the Delaunay triangulation of ps using the
// Guibas-Stolfi divide-and-conquer algorithm: the points are sorted
// lexicographically and split at their midpoint, each half is triangulated
// recursively (base cases at n=2 and n=3), and the two triangulations are
// spliced back together by zipping a new edge up the shared boundary
// between them.
func Triangulate(ps *PointSet, opts ...Option) (*Subdivision, error) {
	if ps == nil || ps.Len() < 2 {
		return nil, xerrors.Newf(xerrors.InputError, "Triangulate", "need at least 2 points")
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	store := quadedge.New()
	store.Debug = o.Debug

	b := &builder{store: store, points: ps}
	sorted := ps.sortedLex()
	le, re, err := b.build(sorted)
	if err != nil {
		return nil, err
	}

	return &Subdivision{store: store, points: ps, le: le, re: re}, nil
}

// builder threads the quad-edge store and the id-indexed point set through
// the recursive solver so neither has to be passed as two separate
// arguments at every call site.
type builder struct {
	store  *quadedge.Store
	points *PointSet
}

func (b *builder) pt(id int) Point { return b.points.ByID(id) }

func (b *builder) org(e quadedge.EdgeID) Point {
	id, ok := b.store.Org(e)
	if !ok {
		panic(xerrors.Newf(xerrors.TopologyViolation, "builder.org", "edge %d has no origin", e))
	}
	return b.pt(id)
}

func (b *builder) dest(e quadedge.EdgeID) Point {
	id, ok := b.store.Dest(e)
	if !ok {
		panic(xerrors.Newf(xerrors.TopologyViolation, "builder.dest", "edge %d has no destination", e))
	}
	return b.pt(id)
}

// build is the top-level recursive entry point. pts must already be sorted
// lexicographically; ids on each element are the caller's stable ids, not
// positions in this slice.
func (b *builder) build(pts []Point) (le, re quadedge.EdgeID, err error) {
	defer func() {
		if r := recover(); r != nil {
			if xe, ok := r.(*xerrors.Error); ok {
				err = xe
				return
			}
			panic(r)
		}
	}()
	le, re = b.delaunay(pts)
	return le, re, nil
}

func (b *builder) delaunay(pts []Point) (le, re quadedge.EdgeID) {
	switch n := len(pts); {
	case n == 2:
		a := b.store.MakeEdge()
		b.store.SetOrg(a, pts[0].ID)
		b.store.SetDest(a, pts[1].ID)
		return a, a.Sym()

	case n == 3:
		a := b.store.MakeEdge()
		b.store.SetOrg(a, pts[0].ID)
		b.store.SetDest(a, pts[1].ID)
		c := b.store.MakeEdge()
		b.store.SetOrg(c, pts[1].ID)
		b.store.SetDest(c, pts[2].ID)
		b.store.Splice(a.Sym(), c)

		switch predicate.Orient(pts[0], pts[1], pts[2]) {
		case predicate.Left:
			b.store.Connect(c, a)
			return a, c.Sym()
		case predicate.Right:
			base := b.store.Connect(c, a)
			return base.Sym(), base
		default: // Collinear: no triangle to close, just the two-edge chain.
			return a, c.Sym()
		}

	default:
		mid := (n + 1) / 2
		ldo, ldi := b.delaunay(pts[:mid])
		rdi, rdo := b.delaunay(pts[mid:])
		return b.merge(ldo, ldi, rdi, rdo, pts[0].ID, pts[n-1].ID)
	}
}

// merge zips the two triangulations (ldo, ldi) and (rdi, rdo) into one,
// given that ldi/rdi already bound the lower part of the seam between them
// (guaranteed by pts having been split at a lexicographic midpoint). It
// returns the counterclockwise hull edge out of the leftmost point and the
// clockwise hull edge out of the rightmost point of the combined set.
func (b *builder) merge(ldo, ldi, rdi, rdo quadedge.EdgeID, leftmostID, rightmostID int) (quadedge.EdgeID, quadedge.EdgeID) {
	// Phase 1: find the lower common tangent of the two hulls. leftOf(x, e)
	// asks whether x lies left of the directed edge e (org(e), dest(e), x
	// in CCW order); rightOf(x, e) is the mirror test. While org(rdi) is
	// left of ldi, ldi has not yet dropped down to the true tangent, so
	// advance it around the left hull's boundary; symmetrically for rdi
	// via Rprev, which walks backward around the right hull's boundary
	// (not Rnext, which walks the wrong way and converges to the upper
	// tangent instead).
	for {
		if predicate.Orient(b.org(ldi), b.dest(ldi), b.org(rdi)) == predicate.Left {
			ldi = b.store.Lnext(ldi)
			continue
		}
		if predicate.Orient(b.org(rdi), b.dest(rdi), b.org(ldi)) == predicate.Right {
			rdi = b.store.Rprev(rdi)
			continue
		}
		break
	}

	basel := b.store.Connect(rdi.Sym(), ldi)
	// When the tangent starts at an extreme point, basel becomes that
	// point's hull edge and the old one may be deleted by the zip below.
	if id, _ := b.store.Org(ldi); id == leftmostID {
		ldo = basel.Sym()
	}
	if id, _ := b.store.Org(rdi); id == rightmostID {
		rdo = basel
	}

	// Phase 2: zip upward, merging in whichever candidate is not enclosed
	// by the other's circumcircle, one new edge per iteration.
	for {
		lcand := b.store.Onext(basel.Sym())
		lcandValid := b.validCandidate(basel, lcand)
		if lcandValid {
			for b.store.Onext(lcand) != lcand &&
				predicate.InCircle(b.dest(basel), b.org(basel), b.dest(lcand), b.dest(b.store.Onext(lcand))) {
				t := b.store.Onext(lcand)
				b.store.DeleteEdge(lcand)
				lcand = t
			}
		}

		rcand := b.store.Oprev(basel)
		rcandValid := b.validCandidate(basel, rcand)
		if rcandValid {
			for b.store.Oprev(rcand) != rcand &&
				predicate.InCircle(b.dest(basel), b.org(basel), b.dest(rcand), b.dest(b.store.Oprev(rcand))) {
				t := b.store.Oprev(rcand)
				b.store.DeleteEdge(rcand)
				rcand = t
			}
		}

		switch {
		case !lcandValid && !rcandValid:
			return ldo, rdo
		case !lcandValid:
			basel = b.store.Connect(rcand, basel.Sym())
		case !rcandValid:
			basel = b.store.Connect(basel.Sym(), lcand.Sym())
		default:
			if !predicate.InCircle(b.dest(lcand), b.dest(basel), b.org(basel), b.dest(rcand)) {
				basel = b.store.Connect(basel.Sym(), lcand.Sym())
			} else {
				basel = b.store.Connect(rcand, basel.Sym())
			}
		}
	}
}

// validCandidate reports whether cand's destination lies strictly above the
// directed base edge, the shared test that decides whether either the left
// or the right candidate is still eligible to be zipped in.
func (b *builder) validCandidate(basel, cand quadedge.EdgeID) bool {
	return predicate.Orient(b.dest(basel), b.org(basel), b.dest(cand)) == predicate.Left
}
