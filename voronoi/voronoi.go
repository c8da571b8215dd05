// Package voronoi builds the planar Voronoi diagram dual to a Delaunay
// triangulation: one cell per site, one vertex per bounded triangle (its
// circumcenter), with each cell's vertices and neighboring sites listed in
// CCW order around the site.
//
// Unlike a Voronoi diagram on the sphere, where every cell is bounded, a
// planar diagram has an unbounded cell for every site on the convex hull.
// This package does not clip or extend those cells to a bounding box: a
// hull site's cell simply has one gap in its neighbor list, marked with
// NoNeighbor, at the point where its incident triangles stop covering the
// full turn around it.
package voronoi

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	delaunay "github.com/v-hill/parallel-delaunay"
	"github.com/v-hill/parallel-delaunay/internal/xerrors"
)

// NoNeighbor marks a cell edge that borders no other cell: the site is on
// the convex hull and this edge of its cell is unbounded.
const NoNeighbor = -1

// Diagram is a planar Voronoi diagram in CSR form.
type Diagram struct {
	Sites    []r2.Point
	Vertices []r2.Point

	// CellVertices[CellOffsets[i]:CellOffsets[i+1]] and the matching slice
	// of CellNeighbors are cell i's vertex indices into Vertices and
	// neighbor indices into Sites, both sorted CCW around Sites[i].
	CellVertices  []int
	CellNeighbors []int
	CellOffsets   []int
}

// NumCells returns the number of sites, and hence the number of cells.
func (d *Diagram) NumCells() int { return len(d.Sites) }

// Cell returns a view onto the i'th cell.
func (d *Diagram) Cell(i int) (Cell, error) {
	if i < 0 || i >= len(d.Sites) {
		return Cell{}, xerrors.Newf(xerrors.InputError, "Diagram.Cell", "index %d out of range [0, %d)", i, len(d.Sites))
	}
	return Cell{idx: i, d: d}, nil
}

// Cell is a view onto one cell of a Diagram. Its index corresponds to the
// index of its site in the Diagram's Sites.
type Cell struct {
	idx int
	d   *Diagram
}

// SiteIndex returns the index of the site in the Diagram's Sites.
func (c Cell) SiteIndex() int { return c.idx }

// Site returns the site point of the cell.
func (c Cell) Site() r2.Point { return c.d.Sites[c.idx] }

func (c Cell) span() (int, int) {
	return c.d.CellOffsets[c.idx], c.d.CellOffsets[c.idx+1]
}

// NumVertices returns the number of vertices in the cell.
func (c Cell) NumVertices() int {
	start, end := c.span()
	return end - start
}

// VertexIndices returns the indices of the vertices that form the cell in
// the Diagram's Vertices, in CCW order.
func (c Cell) VertexIndices() []int {
	start, end := c.span()
	return c.d.CellVertices[start:end]
}

// NeighborIndices returns the indices of the neighboring sites, in CCW
// order matching VertexIndices; a slot is NoNeighbor where the cell is
// unbounded on that side.
func (c Cell) NeighborIndices() []int {
	start, end := c.span()
	return c.d.CellNeighbors[start:end]
}

// Unbounded reports whether the cell has at least one unbounded edge,
// i.e. whether its site lies on the convex hull of the triangulation.
func (c Cell) Unbounded() bool {
	for _, n := range c.NeighborIndices() {
		if n == NoNeighbor {
			return true
		}
	}
	return false
}

// Build computes the Voronoi diagram dual to sub.
func Build(sub *delaunay.Subdivision) (*Diagram, error) {
	tri := sub.Project()
	ps := sub.Points()
	n := ps.Len()

	sites := make([]r2.Point, n)
	for id := 0; id < n; id++ {
		sites[id] = ps.ByID(id).Point
	}

	vertices := make([]r2.Point, len(tri.Triangles))
	incident := make([][]int, n)
	for ti, t := range tri.Triangles {
		a, b, c := ps.ByID(t.A).Point, ps.ByID(t.B).Point, ps.ByID(t.C).Point
		center, err := circumcenter(a, b, c)
		if err != nil {
			return nil, err
		}
		vertices[ti] = center
		incident[t.A] = append(incident[t.A], ti)
		incident[t.B] = append(incident[t.B], ti)
		incident[t.C] = append(incident[t.C], ti)
	}

	cellVertices := make([]int, 0, len(tri.Triangles)*3)
	cellNeighbors := make([]int, 0, len(tri.Triangles)*3)
	cellOffsets := make([]int, n+1)

	for id := 0; id < n; id++ {
		order := incident[id]
		site := sites[id]
		sort.Slice(order, func(i, j int) bool {
			return angleFrom(site, vertices[order[i]]) < angleFrom(site, vertices[order[j]])
		})

		cellOffsets[id] = len(cellVertices)
		cellVertices = append(cellVertices, order...)
		for k, ti := range order {
			tj := order[(k+1)%len(order)]
			neighbor := NoNeighbor
			if len(order) > 1 {
				if shared, ok := sharedVertex(tri.Triangles[ti], tri.Triangles[tj], id); ok && leadsCCW(sites, tri.Triangles[ti], id, shared) {
					neighbor = shared
				}
			}
			cellNeighbors = append(cellNeighbors, neighbor)
		}
	}
	cellOffsets[n] = len(cellVertices)

	return &Diagram{
		Sites:         sites,
		Vertices:      vertices,
		CellVertices:  cellVertices,
		CellNeighbors: cellNeighbors,
		CellOffsets:   cellOffsets,
	}, nil
}

// sharedVertex returns the vertex common to t1 and t2 other than exclude,
// and false if the two triangles do not share an edge through exclude. At a
// hull site with exactly two triangles the pair shares an edge on both sides
// of the wrap-around gap; leadsCCW tells the two sides apart.
func sharedVertex(t1, t2 delaunay.Triangle, exclude int) (int, bool) {
	v1 := [3]int{t1.A, t1.B, t1.C}
	v2 := [3]int{t2.A, t2.B, t2.C}
	for _, v := range v1 {
		if v == exclude {
			continue
		}
		for _, w := range v2 {
			if v == w {
				return v, true
			}
		}
	}
	return 0, false
}

// leadsCCW reports whether the edge from site to shared is the CCW-later of
// t's two edges through site, i.e. the edge t shares with the next triangle
// CCW around site rather than the one it shares across the hull gap.
func leadsCCW(sites []r2.Point, t delaunay.Triangle, site, shared int) bool {
	other := t.A + t.B + t.C - site - shared
	s, u, w := sites[site], sites[other], sites[shared]
	return (u.X-s.X)*(w.Y-s.Y)-(u.Y-s.Y)*(w.X-s.X) > 0
}

func angleFrom(origin, p r2.Point) float64 {
	return math.Atan2(p.Y-origin.Y, p.X-origin.X)
}

// circumcenter returns the center of the circle through a, b and c, which
// must not be collinear.
func circumcenter(a, b, c r2.Point) (r2.Point, error) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		return r2.Point{}, xerrors.Newf(xerrors.GeometryInconsistency, "voronoi.circumcenter", "degenerate (collinear) triangle")
	}
	aSq := a.X*a.X + a.Y*a.Y
	bSq := b.X*b.X + b.Y*b.Y
	cSq := c.X*c.X + c.Y*c.Y
	ux := (aSq*(b.Y-c.Y) + bSq*(c.Y-a.Y) + cSq*(a.Y-b.Y)) / d
	uy := (aSq*(c.X-b.X) + bSq*(a.X-c.X) + cSq*(b.X-a.X)) / d
	return r2.Point{X: ux, Y: uy}, nil
}
