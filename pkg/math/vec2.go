// Package math provides the small vector types used by mesh conversion.
package math

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Vec2From converts an array pair to a Vec2.
func Vec2From(a [2]float32) Vec2 {
	return Vec2{a[0], a[1]}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Cross returns the z component of the 3D cross product of v and other.
// This is the signed parallelogram area spanned by the two vectors.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}
