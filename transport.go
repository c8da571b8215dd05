package delaunay

import (
	"sort"

	"github.com/golang/geo/r2"
	"github.com/v-hill/parallel-delaunay/internal/xerrors"
	"github.com/v-hill/parallel-delaunay/predicate"
	"github.com/v-hill/parallel-delaunay/quadedge"
	"github.com/v-hill/parallel-delaunay/wire"
)

// ToMessage flattens sub into the wire format of §6: every point (indexed
// by its PointSet id, which doubles as the message's local index), every
// undirected edge once with origin < dest, and sub's extreme edges as
// directed references into that edge list.
func ToMessage(sub *Subdivision) (wire.Message, error) {
	n := sub.points.Len()
	points := make([]r2.Point, n)
	for id := 0; id < n; id++ {
		points[id] = sub.points.ByID(id).Point
	}

	type edgeKey struct{ u, v int }
	index := make(map[edgeKey]int, n*3)
	edges := make([]wire.EdgePair, 0, n*3)
	for _, g := range sub.store.Groups() {
		u, okU := sub.store.Org(g)
		v, okV := sub.store.Dest(g)
		if !okU || !okV {
			continue
		}
		if u > v {
			u, v = v, u
		}
		key := edgeKey{u, v}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(edges)
		edges = append(edges, wire.EdgePair{Origin: uint32(u), Dest: uint32(v)})
	}

	directed := func(e quadedge.EdgeID) (wire.DirectedEdge, error) {
		u, okU := sub.store.Org(e)
		v, okV := sub.store.Dest(e)
		if !okU || !okV {
			return wire.DirectedEdge{}, xerrors.Newf(xerrors.TopologyViolation, "ToMessage", "extreme edge %d has no endpoints", e)
		}
		reversed := u > v
		if reversed {
			u, v = v, u
		}
		idx, ok := index[edgeKey{u, v}]
		if !ok {
			return wire.DirectedEdge{}, xerrors.Newf(xerrors.TopologyViolation, "ToMessage", "extreme edge %d not found among enumerated edges", e)
		}
		return wire.DirectedEdge{Index: uint32(idx), Reversed: reversed}, nil
	}

	le, err := directed(sub.le)
	if err != nil {
		return wire.Message{}, err
	}
	re, err := directed(sub.re)
	if err != nil {
		return wire.Message{}, err
	}

	return wire.Message{Points: points, Edges: edges, LE: le, RE: re}, nil
}

// FromMessage rebuilds a Subdivision from a wire.Message by inserting each
// edge in isolation, then, for every vertex, sorting its incident edges by
// angle around that vertex and splicing them into a single Onext ring —
// the reconstruction procedure named in §6, since the message itself
// carries no adjacency, only an edge list and coordinates.
func FromMessage(msg wire.Message) (*Subdivision, error) {
	ps, err := NewPointSet(msg.Points)
	if err != nil {
		return nil, err
	}

	store, edgeIDs, err := reconstruct(ps, msg.Edges)
	if err != nil {
		return nil, err
	}

	if int(msg.LE.Index) >= len(edgeIDs) || int(msg.RE.Index) >= len(edgeIDs) {
		return nil, xerrors.Newf(xerrors.TransportError, "FromMessage", "le/re index out of range")
	}
	le := edgeIDs[msg.LE.Index]
	if msg.LE.Reversed {
		le = le.Sym()
	}
	re := edgeIDs[msg.RE.Index]
	if msg.RE.Reversed {
		re = re.Sym()
	}

	return &Subdivision{store: store, points: ps, le: le, re: re}, nil
}

// reconstruct is the shared core of FromMessage and MergePartitions: given a
// point set and an edge list over it, it builds a fresh store, one quad-edge
// group per edge, and splices each vertex's incident edges into a single
// Onext ring in angular order.
func reconstruct(ps *PointSet, edges []wire.EdgePair) (*quadedge.Store, []quadedge.EdgeID, error) {
	n := ps.Len()
	if len(edges) == 0 {
		return nil, nil, xerrors.Newf(xerrors.TransportError, "reconstruct", "no edges to reconstruct from")
	}

	store := quadedge.New()
	edgeIDs := make([]quadedge.EdgeID, len(edges))
	for i, e := range edges {
		if int(e.Origin) >= n || int(e.Dest) >= n {
			return nil, nil, xerrors.Newf(xerrors.TransportError, "reconstruct", "edge %d references point out of range", i)
		}
		id := store.MakeEdge()
		store.SetOrg(id, int(e.Origin))
		store.SetDest(id, int(e.Dest))
		edgeIDs[i] = id
	}

	type incident struct {
		dir   quadedge.EdgeID
		other int
	}
	perVertex := make([][]incident, n)
	for i, e := range edges {
		id := edgeIDs[i]
		perVertex[e.Origin] = append(perVertex[e.Origin], incident{dir: id, other: int(e.Dest)})
		perVertex[e.Dest] = append(perVertex[e.Dest], incident{dir: id.Sym(), other: int(e.Origin)})
	}

	for v, list := range perVertex {
		if len(list) == 0 {
			return nil, nil, xerrors.Newf(xerrors.TransportError, "reconstruct", "point %d has no incident edge", v)
		}
		origin := ps.ByID(v)
		sort.Slice(list, func(i, j int) bool {
			p, q := ps.ByID(list[i].other), ps.ByID(list[j].other)
			if hp, hq := upperHalf(origin, p), upperHalf(origin, q); hp != hq {
				return hp
			}
			return predicate.Orient(origin, p, q) == predicate.Left
		})
		prev := list[0].dir
		for k := 1; k < len(list); k++ {
			store.Splice(prev, list[k].dir)
			prev = list[k].dir
		}
	}

	return store, edgeIDs, nil
}

// upperHalf reports whether p lies in the half-turn [0, pi) of directions
// around origin, so that reconstruct can order a vertex's edges by angle
// with exact orientation tests instead of rounded atan2 values.
func upperHalf(origin, p Point) bool {
	return p.Y > origin.Y || (p.Y == origin.Y && p.X > origin.X)
}

// MergePartitions combines two independently built subdivisions, left and
// right, into one, exactly as a single recursive call to Triangulate would
// merge its two halves. left's points must all be lexicographically less
// than right's (the coordinator's partitioning is responsible for this),
// and each Subdivision must have been built with ids local to its own
// partition; MergePartitions renumbers right's ids above left's before
// merging so the combined store has one contiguous, unique id space.
//
// The tangent search of Phase 1 is seeded with left.re and right.le — the
// two subdivisions' inner-boundary edges, i.e. the ones nearest the seam —
// rather than the transient ldi/rdi values a single in-process recursion
// would have to hand, since those never survive a round trip through
// another rank. The search converges to the true lower tangent from any
// starting hull edge on the correct side, so this substitution is safe.
func MergePartitions(left, right *Subdivision) (*Subdivision, error) {
	leftMsg, err := ToMessage(left)
	if err != nil {
		return nil, err
	}
	rightMsg, err := ToMessage(right)
	if err != nil {
		return nil, err
	}

	offset := len(leftMsg.Points)
	points := make([]r2.Point, 0, offset+len(rightMsg.Points))
	points = append(points, leftMsg.Points...)
	points = append(points, rightMsg.Points...)
	ps, err := NewPointSet(points)
	if err != nil {
		return nil, err
	}

	edges := make([]wire.EdgePair, 0, len(leftMsg.Edges)+len(rightMsg.Edges))
	edges = append(edges, leftMsg.Edges...)
	for _, e := range rightMsg.Edges {
		edges = append(edges, wire.EdgePair{Origin: e.Origin + uint32(offset), Dest: e.Dest + uint32(offset)})
	}

	store, edgeIDs, err := reconstruct(ps, edges)
	if err != nil {
		return nil, err
	}

	resolve := func(base int, d wire.DirectedEdge) quadedge.EdgeID {
		e := edgeIDs[base+int(d.Index)]
		if d.Reversed {
			e = e.Sym()
		}
		return e
	}
	ldo := resolve(0, leftMsg.LE)
	ldi := resolve(0, leftMsg.RE)
	rdi := resolve(len(leftMsg.Edges), rightMsg.LE)
	rdo := resolve(len(leftMsg.Edges), rightMsg.RE)

	sorted := ps.sortedLex()
	b := &builder{store: store, points: ps}
	le, re := b.merge(ldo, ldi, rdi, rdo, sorted[0].ID, sorted[len(sorted)-1].ID)

	return &Subdivision{store: store, points: ps, le: le, re: re}, nil
}
