// Package quadedge implements the Guibas-Stolfi quad-edge data structure: an
// owning, arena-backed store of directed edges with the make_edge, splice,
// connect and delete_edge operations, plus the algebra (Rot, Sym, Onext,
// Oprev, Lnext, ...) derived from them.
//
// Edges are identified by a 32-bit id, not a pointer: the low two bits of
// the id select one of the four directed edges in a quad-edge group (the
// edge itself, its dual, its reverse, and the reverse of its dual); the
// remaining bits select the group. Rot and Sym never touch the arena — they
// are computed by adjusting those two bits — which structurally guarantees
// Rot^4 == id and halves the per-edge storage to a single Onext id and a
// single origin point id.
package quadedge

import (
	"container/heap"

	"github.com/v-hill/parallel-delaunay/internal/xerrors"
)

// EdgeID identifies one of the four directed edges of a quad-edge group.
// The zero value is a valid id (the primal edge of group 0); there is no
// sentinel "no edge" value because every navigation operation in this
// package always has a well-defined result on a live edge.
type EdgeID uint32

const groupSize = 4

// noOrg marks a directed edge whose origin has not been assigned: freshly
// made edges, and the dual edges the algorithm never labels with a vertex.
const noOrg = -1

// Rot returns the dual of e, rotated 90 degrees: the edge representing the
// same undirected pair but in the dual subdivision.
func (e EdgeID) Rot() EdgeID {
	return (e &^ 3) | ((e + 1) & 3)
}

// Sym returns the reverse of e: same undirected edge, opposite direction.
func (e EdgeID) Sym() EdgeID {
	return (e &^ 3) | ((e + 2) & 3)
}

// InvRot is Rot's inverse: rotate -90 degrees.
func (e EdgeID) InvRot() EdgeID {
	return (e &^ 3) | ((e + 3) & 3)
}

type edgeRecord struct {
	next EdgeID
	org  int
}

// Store is an owning, arena-backed container of quad-edges. The zero value
// is not usable; construct with New.
type Store struct {
	arena []edgeRecord
	free  freeGroups // min-heap of freed group base ids, for deterministic reuse
	// Debug enables the invariant checks of package delaunay's design: when
	// true, Splice, Connect and Delete re-walk the affected Onext rings and
	// panic with a *xerrors.Error of kind TopologyViolation if an invariant
	// fails. It is off by default because the check walks each affected
	// ring on every call and the merge loop calls these operations in a hot
	// path.
	Debug bool
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// MakeEdge allocates a fresh, isolated edge: org(e) and org(Sym(e)) are
// undefined, and both are their own Onext (a ring of size one). It reuses
// the lowest-numbered free group before growing the arena, so that a
// sequence of allocations and deletions is reproducible across runs.
func (s *Store) MakeEdge() EdgeID {
	var base EdgeID
	if s.free.Len() > 0 {
		base = heap.Pop(&s.free).(EdgeID)
	} else {
		base = EdgeID(len(s.arena))
		s.arena = append(s.arena, make([]edgeRecord, groupSize)...)
	}

	e0 := base
	e1 := base + 1
	e2 := base + 2
	e3 := base + 3

	s.arena[e0] = edgeRecord{next: e0, org: noOrg}
	s.arena[e1] = edgeRecord{next: e3, org: noOrg}
	s.arena[e2] = edgeRecord{next: e2, org: noOrg}
	s.arena[e3] = edgeRecord{next: e1, org: noOrg}

	return e0
}

// Onext returns the next edge counter-clockwise around org(e).
func (s *Store) Onext(e EdgeID) EdgeID {
	return s.arena[e].next
}

func (s *Store) setOnext(e, v EdgeID) {
	s.arena[e].next = v
}

// Oprev returns the previous edge counter-clockwise (i.e. the next edge
// clockwise) around org(e).
func (s *Store) Oprev(e EdgeID) EdgeID {
	return s.Onext(e.Rot()).Rot()
}

// Dnext returns the next edge counter-clockwise around dest(e).
func (s *Store) Dnext(e EdgeID) EdgeID {
	return s.Onext(e.Sym()).Sym()
}

// Dprev returns the previous edge counter-clockwise around dest(e).
func (s *Store) Dprev(e EdgeID) EdgeID {
	return s.Onext(e.InvRot()).InvRot()
}

// Lnext returns the next edge counter-clockwise around the left face of e.
func (s *Store) Lnext(e EdgeID) EdgeID {
	return s.Onext(e.InvRot()).Rot()
}

// Lprev returns the previous edge counter-clockwise around the left face of e.
func (s *Store) Lprev(e EdgeID) EdgeID {
	return s.Onext(e).Sym()
}

// Rnext returns the next edge counter-clockwise around the right face of e.
func (s *Store) Rnext(e EdgeID) EdgeID {
	return s.Onext(e.Rot()).InvRot()
}

// Rprev returns the previous edge counter-clockwise around the right face of e.
func (s *Store) Rprev(e EdgeID) EdgeID {
	return s.Onext(e.Sym())
}

// Org returns the origin point id of e, and false if it has not been set
// (always the case for a dual edge, which this package never labels).
func (s *Store) Org(e EdgeID) (int, bool) {
	org := s.arena[e].org
	return org, org != noOrg
}

// Dest returns the destination point id of e, and false if unset.
func (s *Store) Dest(e EdgeID) (int, bool) {
	return s.Org(e.Sym())
}

// SetOrg sets the origin point id of e.
func (s *Store) SetOrg(e EdgeID, pointID int) {
	s.arena[e].org = pointID
}

// SetDest sets the destination point id of e.
func (s *Store) SetDest(e EdgeID, pointID int) {
	s.SetOrg(e.Sym(), pointID)
}

// Splice is the fundamental Guibas-Stolfi topological operator. It exchanges
// the Onext rings at org(a) and org(b): if a and b share an origin ring, it
// splits it in two; if they don't, it joins their two rings into one.
// Splice is involutive: calling it twice with the same arguments restores
// the original topology.
func (s *Store) Splice(a, b EdgeID) {
	alpha := s.Onext(a).Rot()
	beta := s.Onext(b).Rot()

	aOnext, bOnext := s.Onext(a), s.Onext(b)
	s.setOnext(a, bOnext)
	s.setOnext(b, aOnext)

	alphaOnext, betaOnext := s.Onext(alpha), s.Onext(beta)
	s.setOnext(alpha, betaOnext)
	s.setOnext(beta, alphaOnext)

	if s.Debug {
		s.checkRing(a)
		s.checkRing(b)
	}
}

// Connect creates a new edge e from dest(a) to org(b), such that e and a
// share a left face with b: a.Lnext() splices to e, and e.Sym() splices to
// b. The caller must ensure a and b already bound a common left face.
func (s *Store) Connect(a, b EdgeID) EdgeID {
	orgA, ok := s.Dest(a)
	if !ok {
		panic(xerrors.Newf(xerrors.TopologyViolation, "quadedge.Connect", "dest(a) undefined"))
	}
	orgB, ok := s.Org(b)
	if !ok {
		panic(xerrors.Newf(xerrors.TopologyViolation, "quadedge.Connect", "org(b) undefined"))
	}

	e := s.MakeEdge()
	s.SetOrg(e, orgA)
	s.SetDest(e, orgB)
	s.Splice(e, s.Lnext(a))
	s.Splice(e.Sym(), b)
	return e
}

// DeleteEdge detaches e from both of its origin rings and releases its
// quad-edge group back to the free list. After it returns, e, e.Sym(),
// e.Rot() and e.Rot().Sym() are all invalid and must not be used again.
func (s *Store) DeleteEdge(e EdgeID) {
	s.Splice(e, s.Oprev(e))
	sym := e.Sym()
	s.Splice(sym, s.Oprev(sym))

	base := e &^ 3
	for i := EdgeID(0); i < groupSize; i++ {
		s.arena[base+i] = edgeRecord{next: base + i, org: noOrg}
	}
	heap.Push(&s.free, base)
}

// checkRing re-derives the Onext ring starting at e and panics with a
// *xerrors.Error of kind TopologyViolation if it does not close within the
// arena's size (invariant 1 of the store: the ring is a cyclic permutation
// of the edges incident to org(e)).
func (s *Store) checkRing(e EdgeID) {
	cur := e
	for i := 0; i <= len(s.arena); i++ {
		cur = s.Onext(cur)
		if cur == e {
			return
		}
	}
	panic(xerrors.Newf(xerrors.TopologyViolation, "quadedge.checkRing", "Onext ring starting at %d does not close", e))
}

// Groups returns the primal edge id (base+0) of every live quad-edge group
// in ascending order. It is the store's only bulk-enumeration operation,
// used to flatten a completed topology without needing a traversal that
// starts from a particular edge.
func (s *Store) Groups() []EdgeID {
	freed := make(map[EdgeID]bool, s.free.Len())
	for _, base := range s.free {
		freed[base] = true
	}
	groups := make([]EdgeID, 0, len(s.arena)/groupSize)
	for base := EdgeID(0); int(base) < len(s.arena); base += groupSize {
		if !freed[base] {
			groups = append(groups, base)
		}
	}
	return groups
}

// freeGroups is a min-heap of freed quad-edge group base ids, giving
// MakeEdge deterministic "lowest free slot" reuse.
type freeGroups []EdgeID

func (h freeGroups) Len() int            { return len(h) }
func (h freeGroups) Less(i, j int) bool  { return h[i] < h[j] }
func (h freeGroups) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *freeGroups) Push(x interface{}) { *h = append(*h, x.(EdgeID)) }
func (h *freeGroups) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
