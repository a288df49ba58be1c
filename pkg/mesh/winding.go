package mesh

import "github.com/Faultbox/objmesh/pkg/math"

// Winding classifies a triangle's orientation from its positions in face
// order. It returns the sign of the dominant component of (b-a)×(c-a):
// reversing the corner order flips the result, and a zero-area triangle
// yields 0.
func Winding(a, b, c [3]float32) int8 {
	pa := math.Vec3From(a)
	d := math.Vec3From(b).Sub(pa)
	e := math.Vec3From(c).Sub(pa)
	return d.Cross(e).DominantSign()
}
