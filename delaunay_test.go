package delaunay

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/v-hill/parallel-delaunay/predicate"
)

func mustPointSet(t *testing.T, coords []r2.Point) *PointSet {
	t.Helper()
	ps, err := NewPointSet(coords)
	if err != nil {
		t.Fatalf("NewPointSet(%v) error: %v", coords, err)
	}
	return ps
}

func TestNewPointSet_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		coords []r2.Point
	}{
		{"too few", []r2.Point{{X: 0, Y: 0}}},
		{"nan", []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: math.NaN(), Y: 0}}},
		{"duplicate", []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPointSet(tt.coords); err == nil {
				t.Errorf("NewPointSet(%v) succeeded, want error", tt.coords)
			}
		})
	}
}

func TestTriangulate_Triangle(t *testing.T) {
	ps := mustPointSet(t, []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 4}})
	sub, err := Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}
	tri := sub.Project()
	if len(tri.Triangles) != 1 {
		t.Fatalf("Project().Triangles = %v, want exactly 1 triangle", tri.Triangles)
	}
	if len(tri.Edges) != 3 {
		t.Fatalf("Project().Edges = %v, want exactly 3 edges", tri.Edges)
	}
}

func TestTriangulate_Square(t *testing.T) {
	// A perfect square is cocircular; the tiebreak must still pick a
	// consistent diagonal and produce exactly two triangles.
	ps := mustPointSet(t, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	sub, err := Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}
	tri := sub.Project()
	if len(tri.Triangles) != 2 {
		t.Fatalf("Project().Triangles = %v, want exactly 2 triangles", tri.Triangles)
	}
	if len(tri.Edges) != 5 {
		t.Fatalf("Project().Edges = %v, want exactly 5 edges (4 sides + 1 diagonal)", tri.Edges)
	}
}

func TestTriangulate_Collinear(t *testing.T) {
	ps := mustPointSet(t, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}})
	sub, err := Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}
	tri := sub.Project()
	if len(tri.Triangles) != 0 {
		t.Errorf("Project().Triangles = %v, want none for collinear input", tri.Triangles)
	}
	if len(tri.Edges) != 3 {
		t.Errorf("Project().Edges = %v, want exactly 3 edges chaining the collinear points", tri.Edges)
	}
}

// TestTriangulate_DelaunayProperty checks, for a modest random point set,
// that no point lies strictly inside the circumcircle of any triangle it
// does not belong to — the defining invariant of a Delaunay triangulation —
// and that Euler's formula holds for the resulting planar graph.
func TestTriangulate_DelaunayProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	coords := make([]r2.Point, 40)
	for i := range coords {
		coords[i] = r2.Point{X: rnd.Float64() * 100, Y: rnd.Float64() * 100}
	}
	ps := mustPointSet(t, coords)
	sub, err := Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}
	tri := sub.Project()

	for _, tr := range tri.Triangles {
		a, b, c := ps.ByID(tr.A), ps.ByID(tr.B), ps.ByID(tr.C)
		if predicate.Orient(a, b, c) == predicate.Right {
			a, b = b, a
		}
		for id := 0; id < ps.Len(); id++ {
			if id == tr.A || id == tr.B || id == tr.C {
				continue
			}
			d := ps.ByID(id)
			if predicate.InCircle(a, b, c, d) {
				t.Errorf("point %d lies inside the circumcircle of triangle %v", id, tr)
			}
		}
	}

	v := ps.Len()
	e := len(tri.Edges)
	f := len(tri.Triangles) + 1 // + the unbounded outer face
	if v-e+f != 2 {
		t.Errorf("Euler's formula violated: V=%d E=%d F=%d, V-E+F=%d, want 2", v, e, f, v-e+f)
	}
}

func TestTriangulate_OptionValidation(t *testing.T) {
	ps := mustPointSet(t, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}})
	sub, err := Triangulate(ps, WithDebug(true))
	if err != nil {
		t.Fatalf("Triangulate with WithDebug(true) error: %v", err)
	}
	if sub.NumPoints() != 3 {
		t.Errorf("NumPoints() = %v, want 3", sub.NumPoints())
	}
}
