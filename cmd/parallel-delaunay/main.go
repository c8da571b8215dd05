// Command parallel-delaunay generates a random point set, triangulates it
// both directly and via a loopback-simulated rank-parallel coordinator, and
// logs the resulting triangle and edge counts. It exists to exercise the
// library end to end, not as a general-purpose CLI: point count, seed and
// worker count are fixed constants rather than flags.
package main

import (
	"context"
	"sort"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	delaunay "github.com/v-hill/parallel-delaunay"
	"github.com/v-hill/parallel-delaunay/coordinator"
	"github.com/v-hill/parallel-delaunay/utils"
)

const (
	numPoints  = 4000
	seed       = 0
	extent     = 1000.0
	numWorkers = 4
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	points := utils.GenerateRandomPoints(numPoints, seed, extent)

	direct, err := triangulateDirect(points)
	if err != nil {
		logger.Fatal("direct triangulation failed", zap.Error(err))
	}
	logger.Info("direct triangulation complete",
		zap.Int("points", direct.NumPoints()),
		zap.Int("triangles", len(direct.Project().Triangles)),
	)

	distributed, err := triangulateDistributed(points, numWorkers, logger)
	if err != nil {
		logger.Fatal("distributed triangulation failed", zap.Error(err))
	}
	logger.Info("distributed triangulation complete",
		zap.Int("points", distributed.NumPoints()),
		zap.Int("triangles", len(distributed.Project().Triangles)),
	)
}

func triangulateDirect(points []r2.Point) (*delaunay.Subdivision, error) {
	ps, err := delaunay.NewPointSet(points)
	if err != nil {
		return nil, err
	}
	return delaunay.Triangulate(ps)
}

// triangulateDistributed partitions points into numWorkers lexicographic
// slices, runs coordinator.Run on each over an in-process loopback Group,
// and returns rank 0's fully merged result.
func triangulateDistributed(points []r2.Point, numWorkers int, logger *zap.Logger) (*delaunay.Subdivision, error) {
	sorted := append([]r2.Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	groups := coordinator.NewLoopbackGroup(numWorkers)
	partitions := partition(sorted, numWorkers)

	results := make(chan result, numWorkers)
	ctx := context.Background()
	for rank := 0; rank < numWorkers; rank++ {
		go func(rank int) {
			sub, err := coordinator.Run(ctx, groups[rank], partitions[rank], logger)
			results <- result{rank: rank, sub: sub, err: err}
		}(rank)
	}

	var final *delaunay.Subdivision
	for i := 0; i < numWorkers; i++ {
		r := <-results
		if r.err != nil {
			return nil, r.err
		}
		if r.rank == 0 {
			final = r.sub
		}
	}
	return final, nil
}

type result struct {
	rank int
	sub  *delaunay.Subdivision
	err  error
}

func partition(sorted []r2.Point, numWorkers int) [][]r2.Point {
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
