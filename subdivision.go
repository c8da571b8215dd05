package delaunay

import "github.com/v-hill/parallel-delaunay/quadedge"

// Subdivision is a completed planar subdivision: a quad-edge topology whose
// origins are resolved against a PointSet. The zero value is not valid; get
// one from Triangulate.
type Subdivision struct {
	store  *quadedge.Store
	points *PointSet
	le, re quadedge.EdgeID
}

// Points returns the point set the subdivision was built from.
func (s *Subdivision) Points() *PointSet { return s.points }

// NumPoints returns the number of points in the subdivision.
func (s *Subdivision) NumPoints() int { return s.points.Len() }
