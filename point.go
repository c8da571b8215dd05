// Package delaunay computes the Delaunay triangulation of a finite set of
// points in the Euclidean plane, using the divide-and-conquer algorithm of
// Guibas and Stolfi over the quad-edge data structure in package quadedge.
package delaunay

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/v-hill/parallel-delaunay/internal/xerrors"
	"github.com/v-hill/parallel-delaunay/predicate"
)

// Point is a point in the Euclidean plane with a stable integer identity
// assigned at ingestion. Two points with equal coordinates are still
// distinct if their ids differ.
type Point = predicate.Point

// PointSet is an ingested, validated collection of points. Ids are assigned
// 0..n-1 by position in the coords slice passed to NewPointSet and never
// change afterward; PointSet itself is immutable.
type PointSet struct {
	points []Point
}

// NewPointSet validates coords and assigns each one a stable id equal to
// its position. It returns an *xerrors.Error of kind InputError if there
// are fewer than two points, a coordinate is not finite, or two points
// share identical coordinates.
func NewPointSet(coords []r2.Point) (*PointSet, error) {
	if len(coords) < 2 {
		return nil, xerrors.Newf(xerrors.InputError, "NewPointSet", "need at least 2 points, got %d", len(coords))
	}

	seen := make(map[r2.Point]int, len(coords))
	points := make([]Point, len(coords))
	for i, c := range coords {
		if !finite(c) {
			return nil, xerrors.Newf(xerrors.InputError, "NewPointSet", "point %d has a non-finite coordinate: (%v, %v)", i, c.X, c.Y)
		}
		if j, dup := seen[c]; dup {
			return nil, xerrors.Newf(xerrors.InputError, "NewPointSet", "point %d duplicates point %d at (%v, %v)", i, j, c.X, c.Y)
		}
		seen[c] = i
		points[i] = Point{Point: c, ID: i}
	}

	return &PointSet{points: points}, nil
}

func finite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Len returns the number of points in the set.
func (ps *PointSet) Len() int { return len(ps.points) }

// ByID returns the point with the given stable id.
func (ps *PointSet) ByID(id int) Point { return ps.points[id] }

// sortedLex returns a copy of the points sorted lexicographically by
// (x, then y); ids are preserved on each element. This copy is what the
// recursive solver splits and recurses on; the original PointSet, indexed
// by id, is what topology (which only ever stores ids) is resolved against.
func (ps *PointSet) sortedLex() []Point {
	out := make([]Point, len(ps.points))
	copy(out, ps.points)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}
