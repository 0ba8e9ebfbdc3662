package domain

import "math"

// Immutable planar coordinates of an instance node.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
