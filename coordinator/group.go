package coordinator

import (
	"context"

	"github.com/v-hill/parallel-delaunay/internal/xerrors"
)

// Group is the process-group abstraction the tree-reduction driver runs
// against: a fixed-size set of ranks, each of which can send a byte message
// to any other rank and block waiting to receive one. A real deployment
// would implement this over MPI, gRPC or raw sockets; NewLoopbackGroup
// implements it over channels for tests and single-process use.
type Group interface {
	Rank() int
	Size() int
	Send(ctx context.Context, dst int, b []byte) error
	Recv(ctx context.Context, src int) ([]byte, error)
}

// loopbackGroup is one rank's view of an in-process Group: size^2 shared,
// one-slot channels, indexed [src][dst].
type loopbackGroup struct {
	rank  int
	size  int
	chans [][]chan []byte
}

// NewLoopbackGroup returns size Group implementations sharing an in-process
// transport, one per rank, indices 0..size-1.
func NewLoopbackGroup(size int) []Group {
	if size < 1 {
		panic("coordinator: NewLoopbackGroup: size must be positive")
	}

	chans := make([][]chan []byte, size)
	for i := range chans {
		chans[i] = make([]chan []byte, size)
		for j := range chans[i] {
			chans[i][j] = make(chan []byte, 1)
		}
	}

	groups := make([]Group, size)
	for r := 0; r < size; r++ {
		groups[r] = &loopbackGroup{rank: r, size: size, chans: chans}
	}
	return groups
}

func (g *loopbackGroup) Rank() int { return g.rank }
func (g *loopbackGroup) Size() int { return g.size }

func (g *loopbackGroup) Send(ctx context.Context, dst int, b []byte) error {
	if dst < 0 || dst >= g.size {
		return xerrors.Newf(xerrors.TransportError, "loopbackGroup.Send", "rank %d out of range [0, %d)", dst, g.size)
	}
	select {
	case g.chans[g.rank][dst] <- b:
		return nil
	case <-ctx.Done():
		return xerrors.New(xerrors.TransportError, "loopbackGroup.Send", ctx.Err())
	}
}

func (g *loopbackGroup) Recv(ctx context.Context, src int) ([]byte, error) {
	if src < 0 || src >= g.size {
		return nil, xerrors.Newf(xerrors.TransportError, "loopbackGroup.Recv", "rank %d out of range [0, %d)", src, g.size)
	}
	select {
	case b := <-g.chans[src][g.rank]:
		return b, nil
	case <-ctx.Done():
		return nil, xerrors.New(xerrors.TransportError, "loopbackGroup.Recv", ctx.Err())
	}
}
