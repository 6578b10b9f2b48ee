// Package geometry places dials on a circle and computes the line and
// arrowhead shapes drawn between them. Coordinates are screen coordinates:
// y grows downwards, so increasing angles run clockwise.
package geometry

import (
	"errors"
	"math"
)

// ErrNoDials is returned when a position is requested on an empty dial ring.
var ErrNoDials = errors.New("geometry: dial count must be positive")

// arrowSpread is the angle between an arrowhead's axis and each back edge.
const arrowSpread = math.Pi / 6

// Point is a position on the canvas.
type Point struct {
	X, Y float64
}

// DialPosition returns the center of dial index on a ring of count dials.
// Index 0 sits at the top of the circle and indices proceed clockwise.
func DialPosition(count, index int, radius float64, center Point) (Point, error) {
	if count <= 0 {
		return Point{}, ErrNoDials
	}
	angle := 360.0 / float64(count) * float64(index)
	return angleToPoint(angle-90, radius, center), nil
}

// Positions returns the centers of all count dials, or nil when count <= 0.
func Positions(count int, radius float64, center Point) []Point {
	if count <= 0 {
		return nil
	}
	out := make([]Point, count)
	for i := range out {
		out[i], _ = DialPosition(count, i, radius, center)
	}
	return out
}

// angleToPoint converts polar coordinates (degrees, radius) around center.
// Angle 0 = right, 90 = down.
func angleToPoint(angleDeg, radius float64, center Point) Point {
	rad := angleDeg * math.Pi / 180.0
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}

// TrimmedSegment shortens the segment start→end so that it stops trim short
// of end, and returns the new end point together with the segment direction.
// A segment shorter than trim collapses onto start.
func TrimmedSegment(start, end Point, trim float64) (Point, float64) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	angle := math.Atan2(dy, dx)

	adjusted := math.Hypot(dx, dy) - trim
	if adjusted < 0 {
		adjusted = 0
	}

	return Point{
		X: start.X + adjusted*math.Cos(angle),
		Y: start.Y + adjusted*math.Sin(angle),
	}, angle
}

// ArrowheadPolygon returns the triangle of an arrowhead pointing along angle
// with its tip at tip: back-left corner, tip, back-right corner.
func ArrowheadPolygon(tip Point, angle, size float64) [3]Point {
	return [3]Point{
		{X: tip.X - size*math.Cos(angle-arrowSpread), Y: tip.Y - size*math.Sin(angle-arrowSpread)},
		tip,
		{X: tip.X - size*math.Cos(angle+arrowSpread), Y: tip.Y - size*math.Sin(angle+arrowSpread)},
	}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
