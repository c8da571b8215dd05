// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides utility functions for generating random point sets
// to exercise Delaunay triangulation and Voronoi diagram construction.
package utils

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// GenerateRandomPoints generates cnt random points uniformly distributed in
// [0, extent) x [0, extent). The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64, extent float64) []r2.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	pts := make([]r2.Point, cnt)

	for i := range cnt {
		pts[i] = r2.Point{
			X: random.Float64() * extent,
			Y: random.Float64() * extent,
		}
	}

	return pts
}
