// Package coordinator drives a distributed, rank-parallel Delaunay
// triangulation: each rank triangulates its own local partition of the
// input, then ranks pair off in binary-tree reduction rounds — sending a
// wire.Message, receiving one back, and folding the two partial results
// together with delaunay.MergePartitions — until rank 0 holds the full
// triangulation.
package coordinator

import (
	"context"
	"time"

	"github.com/golang/geo/r2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/v-hill/parallel-delaunay/internal/xerrors"
	"github.com/v-hill/parallel-delaunay/wire"

	delaunay "github.com/v-hill/parallel-delaunay"
)

// Run triangulates local — the caller's slice of the global point set,
// already partitioned so that every rank's points are lexicographically
// less than the next rank's — and folds it with its peers over g using a
// binary-tree reduction. Every rank runs Run; only rank 0's returned
// Subdivision covers the full input, since every other rank sends its
// partial result away and never receives it back.
func Run(ctx context.Context, g Group, local []r2.Point, logger *zap.Logger) (*delaunay.Subdivision, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ps, err := delaunay.NewPointSet(local)
	if err != nil {
		return nil, err
	}
	sub, err := delaunay.Triangulate(ps)
	if err != nil {
		return nil, err
	}

	rank, size := g.Rank(), g.Size()
	logger = logger.With(zap.Int("rank", rank), zap.Int("group_size", size))
	logger.Debug("local partition triangulated", zap.Int("points", ps.Len()))

	var errs error
	for round, step := 0, 1; step < size; round, step = round+1, step*2 {
		if rank%(2*step) == step {
			// This rank is a sender this round: ship its accumulated result
			// to its parent and drop out of the reduction.
			peer := rank - step
			if err := sendResult(ctx, g, logger, round, rank, peer, sub); err != nil {
				errs = multierr.Append(errs, err)
			}
			return sub, errs
		}
		if rank%(2*step) == 0 {
			peer := rank + step
			if peer >= size {
				// No partner this round; carry the accumulated result forward.
				continue
			}
			merged, err := recvAndMerge(ctx, g, logger, round, rank, peer, sub)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			sub = merged
		}
	}

	return sub, errs
}

func sendResult(ctx context.Context, g Group, logger *zap.Logger, round, rank, peer int, sub *delaunay.Subdivision) error {
	start := time.Now()

	msg, err := delaunay.ToMessage(sub)
	if err != nil {
		return xerrors.New(xerrors.TransportError, "coordinator.sendResult", err)
	}
	payload, err := wire.Marshal(msg)
	if err != nil {
		return err
	}
	if err := g.Send(ctx, peer, payload); err != nil {
		return err
	}

	logger.Info("sent partition to parent",
		zap.Int("round", round),
		zap.Int("peer", peer),
		zap.Int("bytes", len(payload)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func recvAndMerge(ctx context.Context, g Group, logger *zap.Logger, round, rank, peer int, sub *delaunay.Subdivision) (*delaunay.Subdivision, error) {
	start := time.Now()

	payload, err := g.Recv(ctx, peer)
	if err != nil {
		return nil, err
	}
	msg, err := wire.Unmarshal(payload)
	if err != nil {
		return nil, err
	}
	peerSub, err := delaunay.FromMessage(msg)
	if err != nil {
		return nil, err
	}
	merged, err := delaunay.MergePartitions(sub, peerSub)
	if err != nil {
		return nil, xerrors.New(xerrors.TopologyViolation, "coordinator.recvAndMerge", err)
	}

	logger.Info("merged partition from child",
		zap.Int("round", round),
		zap.Int("peer", peer),
		zap.Int("bytes", len(payload)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return merged, nil
}
