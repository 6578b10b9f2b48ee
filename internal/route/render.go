// Package route turns a solved dial order into the arrows drawn between
// dial markers.
package route

import (
	"errors"
	"fmt"

	"github.com/Arcadaos/ffxiii2-enigme/internal/geometry"
	"github.com/Arcadaos/ffxiii2-enigme/internal/solve"
)

// ErrIndexOutOfRange reports a dial index that has no position on the ring.
var ErrIndexOutOfRange = errors.New("route: dial index out of range")

// Style sizes the drawn shapes.
type Style struct {
	TrimRadius    float64 // radius of a dial marker; lines stop at its edge
	ArrowSize     float64 // length of an arrowhead's sides
	MarkerPadding float64 // start ring radius beyond TrimRadius
}

// Edge is one arrow from dial From to dial To.
type Edge struct {
	From, To   int
	Start, End geometry.Point // End is trimmed to the destination marker edge
	Angle      float64
	Head       [3]geometry.Point
}

// Marker is the ring drawn around the first dial of a path.
type Marker struct {
	Center geometry.Point
	Radius float64
}

// Path is everything drawn for one solve result.
type Path struct {
	Edges []Edge
	Start *Marker
}

// Empty reports whether p draws nothing.
func (p Path) Empty() bool { return len(p.Edges) == 0 && p.Start == nil }

// Render builds the arrows for res over the given dial positions. Results
// that are not a dial order, or that visit fewer than two dials, draw nothing.
// Consecutive entries produce one edge each, in order, repeats included.
func Render(res solve.Result, positions []geometry.Point, style Style) (Path, error) {
	if !res.IsPath() || len(res.Path) <= 1 {
		return Path{}, nil
	}
	for i, idx := range res.Path {
		if idx < 0 || idx >= len(positions) {
			return Path{}, fmt.Errorf("%w: result[%d]=%d with %d dials", ErrIndexOutOfRange, i, idx, len(positions))
		}
	}

	edges := make([]Edge, 0, len(res.Path)-1)
	for i := 0; i < len(res.Path)-1; i++ {
		from, to := res.Path[i], res.Path[i+1]
		start := positions[from]
		end, angle := geometry.TrimmedSegment(start, positions[to], style.TrimRadius)
		edges = append(edges, Edge{
			From:  from,
			To:    to,
			Start: start,
			End:   end,
			Angle: angle,
			Head:  geometry.ArrowheadPolygon(end, angle, style.ArrowSize),
		})
	}

	return Path{
		Edges: edges,
		Start: &Marker{
			Center: positions[res.Path[0]],
			Radius: style.TrimRadius + style.MarkerPadding,
		},
	}, nil
}
