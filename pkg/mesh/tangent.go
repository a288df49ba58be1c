package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/objmesh/pkg/math"
)

// DefaultTangent is used for vertices whose tangent cannot be derived.
var DefaultTangent = [4]float32{1, 0, 0, 1}

// TangentGenerator computes one tangent per output vertex. The W
// component of each tangent is the bitangent sign (+1 or -1).
type TangentGenerator interface {
	Generate(v *Vertices, indices []uint32) ([][4]float32, error)
}

// DirectTangents computes a tangent per triangle from its edge and UV
// deltas and accumulates it into the triangle's three vertices. Triangles
// with a degenerate UV mapping contribute nothing; vertices left without a
// contribution get DefaultTangent. It never reports a geometry unsuitable.
type DirectTangents struct{}

// Generate implements TangentGenerator.
func (d DirectTangents) Generate(v *Vertices, indices []uint32) ([][4]float32, error) {
	n := v.Len()
	tangents := make([]math.Vec3, n)
	bitangents := make([]math.Vec3, n)

	for i := 0; i+2 < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		for _, idx := range tri {
			if int(idx) >= n {
				return nil, integrityError("vertex", int(idx), n)
			}
		}

		t, b, ok := triangleTangent(
			[3][3]float32{v.Positions[tri[0]], v.Positions[tri[1]], v.Positions[tri[2]]},
			[3][2]float32{v.TexCoords[tri[0]], v.TexCoords[tri[1]], v.TexCoords[tri[2]]},
		)
		if !ok {
			continue
		}
		for _, idx := range tri {
			tangents[idx] = tangents[idx].Add(t)
			bitangents[idx] = bitangents[idx].Add(b)
		}
	}

	out := make([][4]float32, n)
	for i := range out {
		out[i] = orthonormalize(math.Vec3From(v.Normals[i]), tangents[i], bitangents[i])
	}
	return out, nil
}

// triangleTangent solves the UV-to-object-space system of one triangle.
// ok is false when the UV determinant or the result is degenerate.
func triangleTangent(p [3][3]float32, uv [3][2]float32) (t, b math.Vec3, ok bool) {
	p0 := math.Vec3From(p[0])
	e1 := math.Vec3From(p[1]).Sub(p0)
	e2 := math.Vec3From(p[2]).Sub(p0)

	t0 := math.Vec2From(uv[0])
	d1 := math.Vec2From(uv[1]).Sub(t0)
	d2 := math.Vec2From(uv[2]).Sub(t0)

	det := d1.Cross(d2)
	if det == 0 {
		return t, b, false
	}
	r := 1 / det

	t = e1.Scale(d2.Y * r).Sub(e2.Scale(d1.Y * r))
	b = e2.Scale(d1.X * r).Sub(e1.Scale(d2.X * r))
	if !t.IsFinite() || !b.IsFinite() || t.LengthSqr() == 0 {
		return math.Vec3{}, math.Vec3{}, false
	}
	return t, b, true
}

// orthonormalize turns an accumulated tangent into a unit tangent
// perpendicular to n, with the handedness of the accumulated bitangent in
// W. Without a usable tangent it returns DefaultTangent.
func orthonormalize(n, t, b math.Vec3) [4]float32 {
	if t.LengthSqr() == 0 || !t.IsFinite() {
		return DefaultTangent
	}

	ortho := t
	if n.LengthSqr() > 0 {
		nn := n.Normalize()
		ortho = t.Sub(nn.Scale(nn.Dot(t)))
		// Tangent parallel to the normal; keep the raw direction
		if ortho.LengthSqr() < 1e-12 {
			ortho = t
		}
	}

	w := float32(1)
	if n.Cross(ortho).Dot(b) < 0 {
		w = -1
	}
	return finalizeTangent(math.Vec4{X: ortho.X, Y: ortho.Y, Z: ortho.Z, W: w})
}

// finalizeTangent divides XYZ by their Euclidean length and keeps W.
// Zero-length or non-finite input yields DefaultTangent.
func finalizeTangent(acc math.Vec4) [4]float32 {
	xyz := acc.XYZ()
	l := xyz.Length()
	if l == 0 || !xyz.IsFinite() || math32.IsInf(l, 0) {
		return DefaultTangent
	}
	w := acc.W
	if w == 0 {
		w = 1
	}
	u := xyz.Scale(1 / l)
	return math.Vec4{X: u.X, Y: u.Y, Z: u.Z, W: w}.Array()
}
