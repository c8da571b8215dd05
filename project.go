package delaunay

import (
	"sort"

	"github.com/v-hill/parallel-delaunay/predicate"
	"github.com/v-hill/parallel-delaunay/quadedge"
)

// Edge is an undirected edge of a triangulation, referencing points by id
// with U < V.
type Edge struct {
	U, V int
}

// Triangle is a bounded face of a triangulation, referencing points by id
// with A < B < C.
type Triangle struct {
	A, B, C int
}

// Triangulation is the flattened, ready-to-serialize projection of a
// Subdivision: every undirected edge once, and every bounded triangular
// face once, both in a fixed, sorted order so that two equal triangulations
// always project to byte-identical output.
type Triangulation struct {
	Edges     []Edge
	Triangles []Triangle
}

// Project walks every live edge of sub's quad-edge topology and flattens it
// into a Triangulation. The unbounded outer face is excluded: a face only
// becomes a Triangle when its three Lnext-connected edges close after
// exactly three steps AND its vertices are in CCW order, which the outer
// face of a hull with more than three vertices never satisfies (its Lnext
// walk visits every hull edge, not three), and which is resolved by the
// single orientation test in the one degenerate case where it would (a
// hull with exactly three vertices, whose outer face is also a three-step
// Lnext cycle).
func (sub *Subdivision) Project() Triangulation {
	groups := sub.store.Groups()

	edgeSeen := make(map[int]bool, len(groups))
	edges := make([]Edge, 0, len(groups))
	for _, g := range groups {
		u, okU := sub.store.Org(g)
		v, okV := sub.store.Dest(g)
		if !okU || !okV {
			continue
		}
		if u > v {
			u, v = v, u
		}
		key := u*sub.points.Len() + v
		if edgeSeen[key] {
			continue
		}
		edgeSeen[key] = true
		edges = append(edges, Edge{U: u, V: v})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})

	triSeen := make(map[[3]int]bool)
	var triangles []Triangle
	for _, g := range groups {
		for _, start := range [2]quadedge.EdgeID{g, g.Sym()} {
			e1 := sub.store.Lnext(start)
			e2 := sub.store.Lnext(e1)
			if sub.store.Lnext(e2) != start {
				continue
			}
			a, okA := sub.store.Org(start)
			bb, okB := sub.store.Org(e1)
			c, okC := sub.store.Org(e2)
			if !okA || !okB || !okC {
				continue
			}
			if predicate.Orient(sub.points.ByID(a), sub.points.ByID(bb), sub.points.ByID(c)) != predicate.Left {
				continue
			}
			key := sortedTriple(a, bb, c)
			if triSeen[key] {
				continue
			}
			triSeen[key] = true
			triangles = append(triangles, Triangle{A: key[0], B: key[1], C: key[2]})
		}
	}
	sort.Slice(triangles, func(i, j int) bool {
		if triangles[i].A != triangles[j].A {
			return triangles[i].A < triangles[j].A
		}
		if triangles[i].B != triangles[j].B {
			return triangles[i].B < triangles[j].B
		}
		return triangles[i].C < triangles[j].C
	})

	return Triangulation{Edges: edges, Triangles: triangles}
}

func sortedTriple(a, b, c int) [3]int {
	t := [3]int{a, b, c}
	sort.Ints(t[:])
	return t
}
