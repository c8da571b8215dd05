// Package wire implements the binary message format one rank sends another
// during a reduction round: a self-contained local triangulation (its
// points, its edges, and which of those edges are its extreme left/right
// edges), encoded with encoding/binary rather than a general-purpose
// serialization library, since the layout is fixed and small enough that a
// schema-evolution-capable codec would add indirection for no benefit.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/v-hill/parallel-delaunay/internal/xerrors"
)

// directionBit flags a DirectedEdge index as referring to the Sym of the
// listed edge rather than the edge itself.
const directionBit = uint32(1) << 31

// DirectedEdge is an index into a Message's Edges, plus which of the two
// directions of that edge is meant.
type DirectedEdge struct {
	Index    uint32
	Reversed bool
}

func (d DirectedEdge) encode() uint32 {
	v := d.Index
	if d.Reversed {
		v |= directionBit
	}
	return v
}

func decodeDirectedEdge(v uint32) DirectedEdge {
	return DirectedEdge{Index: v &^ directionBit, Reversed: v&directionBit != 0}
}

// EdgePair is one edge of a Message, referencing points by their position
// in that same Message's Points (never a global point id).
type EdgePair struct {
	Origin, Dest uint32
}

// Message is one rank's local triangulation, ready to hand to a peer: its
// points, its edges (origin < dest, as required by §6), and the two
// extreme edges a receiving rank needs to resume a merge.
type Message struct {
	Points []r2.Point
	Edges  []EdgePair
	LE, RE DirectedEdge
}

// Marshal encodes m per the wire format: a little-endian count of points,
// the points themselves, a count of edges, the edges, then LE and RE.
func Marshal(m Message) ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(m.Points))); err != nil {
		return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
	}
	for _, p := range m.Points {
		if err := binary.Write(&buf, binary.LittleEndian, p.X); err != nil {
			return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, p.Y); err != nil {
			return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
		}
	}

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(m.Edges))); err != nil {
		return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
	}
	for _, e := range m.Edges {
		if e.Origin >= e.Dest {
			return nil, xerrors.Newf(xerrors.TransportError, "wire.Marshal", "edge (%d, %d) violates origin < dest", e.Origin, e.Dest)
		}
		if err := binary.Write(&buf, binary.LittleEndian, e.Origin); err != nil {
			return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, e.Dest); err != nil {
			return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
		}
	}

	if err := binary.Write(&buf, binary.LittleEndian, m.LE.encode()); err != nil {
		return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, m.RE.encode()); err != nil {
		return nil, xerrors.New(xerrors.TransportError, "wire.Marshal", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes a Message previously produced by Marshal. It returns a
// *xerrors.Error of kind TransportError on truncated or malformed input.
func Unmarshal(data []byte) (Message, error) {
	r := bytes.NewReader(data)

	var numPoints uint32
	if err := binary.Read(r, binary.LittleEndian, &numPoints); err != nil {
		return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading point count: %w", err))
	}
	points := make([]r2.Point, numPoints)
	for i := range points {
		if err := binary.Read(r, binary.LittleEndian, &points[i].X); err != nil {
			return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading point %d.x: %w", i, err))
		}
		if err := binary.Read(r, binary.LittleEndian, &points[i].Y); err != nil {
			return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading point %d.y: %w", i, err))
		}
	}

	var numEdges uint32
	if err := binary.Read(r, binary.LittleEndian, &numEdges); err != nil {
		return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading edge count: %w", err))
	}
	edges := make([]EdgePair, numEdges)
	for i := range edges {
		if err := binary.Read(r, binary.LittleEndian, &edges[i].Origin); err != nil {
			return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading edge %d.origin: %w", i, err))
		}
		if err := binary.Read(r, binary.LittleEndian, &edges[i].Dest); err != nil {
			return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading edge %d.dest: %w", i, err))
		}
		if edges[i].Origin >= edges[i].Dest {
			return Message{}, xerrors.Newf(xerrors.TransportError, "wire.Unmarshal", "edge %d: (%d, %d) violates origin < dest", i, edges[i].Origin, edges[i].Dest)
		}
	}

	var le, re uint32
	if err := binary.Read(r, binary.LittleEndian, &le); err != nil {
		return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading le_index: %w", err))
	}
	if err := binary.Read(r, binary.LittleEndian, &re); err != nil {
		return Message{}, xerrors.New(xerrors.TransportError, "wire.Unmarshal", fmt.Errorf("reading re_index: %w", err))
	}
	if int(decodeDirectedEdge(le).Index) >= len(edges) || int(decodeDirectedEdge(re).Index) >= len(edges) {
		return Message{}, xerrors.Newf(xerrors.TransportError, "wire.Unmarshal", "le/re index out of range for %d edges", len(edges))
	}

	return Message{
		Points: points,
		Edges:  edges,
		LE:     decodeDirectedEdge(le),
		RE:     decodeDirectedEdge(re),
	}, nil
}
