package coordinator

import (
	"context"
	"sort"
	"testing"

	"github.com/golang/geo/r2"

	delaunay "github.com/v-hill/parallel-delaunay"
)

func TestNewLoopbackGroup_RankAndSize(t *testing.T) {
	groups := NewLoopbackGroup(4)
	if len(groups) != 4 {
		t.Fatalf("len(groups) = %v, want 4", len(groups))
	}
	for i, g := range groups {
		if g.Rank() != i {
			t.Errorf("groups[%d].Rank() = %v, want %v", i, g.Rank(), i)
		}
		if g.Size() != 4 {
			t.Errorf("groups[%d].Size() = %v, want 4", i, g.Size())
		}
	}
}

func TestLoopbackGroup_SendRecv(t *testing.T) {
	groups := NewLoopbackGroup(2)
	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		done <- groups[0].Send(ctx, 1, []byte("hello"))
	}()
	got, err := groups[1].Recv(ctx, 0)
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Recv() = %q, want %q", got, "hello")
	}
	if err := <-done; err != nil {
		t.Fatalf("Send error: %v", err)
	}
}

func partitionPoints(sorted []r2.Point, numWorkers int) [][]r2.Point {
	parts := make([][]r2.Point, numWorkers)
	n := len(sorted)
	base := n / numWorkers
	rem := n % numWorkers
	start := 0
	for i := 0; i < numWorkers; i++ {
		size := base
		if i < rem {
			size++
		}
		parts[i] = sorted[start : start+size]
		start += size
	}
	return parts
}

// TestRun_MatchesDirectTriangulation checks that a loopback-coordinated,
// rank-parallel triangulation of a point set produces the same triangle and
// edge counts as triangulating it directly in one process.
func TestRun_MatchesDirectTriangulation(t *testing.T) {
	const numWorkers = 4
	coords := make([]r2.Point, 0, 64)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			coords = append(coords, r2.Point{X: float64(i)*3 + 0.01*float64(j), Y: float64(j)*3 + 0.017*float64(i)})
		}
	}

	sorted := append([]r2.Point(nil), coords...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	parts := partitionPoints(sorted, numWorkers)
	groups := NewLoopbackGroup(numWorkers)

	type result struct {
		rank int
		sub  *delaunay.Subdivision
		err  error
	}
	results := make(chan result, numWorkers)
	ctx := context.Background()
	for rank := 0; rank < numWorkers; rank++ {
		go func(rank int) {
			sub, err := Run(ctx, groups[rank], parts[rank], nil)
			results <- result{rank: rank, sub: sub, err: err}
		}(rank)
	}

	var final *delaunay.Subdivision
	for i := 0; i < numWorkers; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("Run(rank %d) error: %v", r.rank, r.err)
		}
		if r.rank == 0 {
			final = r.sub
		}
	}
	if final == nil {
		t.Fatal("rank 0 returned no subdivision")
	}

	ps, err := delaunay.NewPointSet(coords)
	if err != nil {
		t.Fatalf("NewPointSet error: %v", err)
	}
	direct, err := delaunay.Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}

	gotTri := final.Project()
	wantTri := direct.Project()
	if len(gotTri.Triangles) != len(wantTri.Triangles) {
		t.Errorf("distributed triangle count = %d, want %d", len(gotTri.Triangles), len(wantTri.Triangles))
	}
	if len(gotTri.Edges) != len(wantTri.Edges) {
		t.Errorf("distributed edge count = %d, want %d", len(gotTri.Edges), len(wantTri.Edges))
	}
	if final.NumPoints() != len(coords) {
		t.Errorf("distributed NumPoints() = %d, want %d", final.NumPoints(), len(coords))
	}
}
