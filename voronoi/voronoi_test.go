package voronoi

import (
	"testing"

	"github.com/golang/geo/r2"

	delaunay "github.com/v-hill/parallel-delaunay"
)

func TestBuild_SquarePlusCenter(t *testing.T) {
	ps, err := delaunay.NewPointSet([]r2.Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 2, Y: 2},
	})
	if err != nil {
		t.Fatalf("NewPointSet error: %v", err)
	}
	sub, err := delaunay.Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}

	diagram, err := Build(sub)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if diagram.NumCells() != 5 {
		t.Fatalf("NumCells() = %v, want 5", diagram.NumCells())
	}

	centerCell, err := diagram.Cell(4)
	if err != nil {
		t.Fatalf("Cell(4) error: %v", err)
	}
	if centerCell.Unbounded() {
		t.Errorf("center site's cell should be bounded, has neighbors %v", centerCell.NeighborIndices())
	}
	if centerCell.NumVertices() == 0 {
		t.Errorf("center site's cell has no vertices")
	}

	cornerCell, err := diagram.Cell(0)
	if err != nil {
		t.Fatalf("Cell(0) error: %v", err)
	}
	if !cornerCell.Unbounded() {
		t.Errorf("corner site's cell should be unbounded")
	}
}

func TestBuild_RejectsOutOfRangeCell(t *testing.T) {
	ps, err := delaunay.NewPointSet([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	if err != nil {
		t.Fatalf("NewPointSet error: %v", err)
	}
	sub, err := delaunay.Triangulate(ps)
	if err != nil {
		t.Fatalf("Triangulate error: %v", err)
	}
	diagram, err := Build(sub)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if _, err := diagram.Cell(99); err == nil {
		t.Error("Cell(99) succeeded, want error")
	}
}
