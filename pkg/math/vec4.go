package math

// Vec4 is a 4D vector. Tangents store their handedness sign in W.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec4From converts an array quadruple to a Vec4.
func Vec4From(a [4]float32) Vec4 {
	return Vec4{a[0], a[1], a[2], a[3]}
}

// XYZ returns the first three components.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Array returns v as a [4]float32.
func (v Vec4) Array() [4]float32 {
	return [4]float32{v.X, v.Y, v.Z, v.W}
}
