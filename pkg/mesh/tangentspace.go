package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/objmesh/pkg/math"
)

// Geometry is the face/corner view a tangent-space algorithm works on.
// Faces are triangles; corners are resolved through the index buffer.
type Geometry interface {
	NumFaces() int
	NumVerticesOfFace(face int) int
	Position(face, vert int) [3]float32
	Normal(face, vert int) [3]float32
	TexCoord(face, vert int) [2]float32
	// SetTangent receives the tangent of one corner; W is the bitangent sign.
	SetTangent(tangent [4]float32, face, vert int)
}

// TangentSpaceAlgorithm generates per-corner tangents for a Geometry.
// It returns false when the geometry is unsuitable.
type TangentSpaceAlgorithm interface {
	GenerateTangents(g Geometry) bool
}

// TangentSpace runs a TangentSpaceAlgorithm over the mesh and welds the
// per-corner results back onto the output vertices: corner tangents are
// summed per vertex, the last sign wins, and the sum is normalized.
type TangentSpace struct {
	// Algorithm defaults to AngleWeightedAlgorithm.
	Algorithm TangentSpaceAlgorithm
}

// Generate implements TangentGenerator.
func (ts TangentSpace) Generate(v *Vertices, indices []uint32) ([][4]float32, error) {
	n := v.Len()
	for _, idx := range indices {
		if int(idx) >= n {
			return nil, integrityError("vertex", int(idx), n)
		}
	}

	alg := ts.Algorithm
	if alg == nil {
		alg = AngleWeightedAlgorithm{}
	}

	g := newAccessorGeometry(v, indices)
	if !alg.GenerateTangents(g) {
		return nil, ErrTangentGeneration
	}
	return g.tangents(), nil
}

// accessorGeometry adapts the deduplicated arrays to Geometry.
type accessorGeometry struct {
	v       *Vertices
	indices []uint32
	acc     []math.Vec4
}

func newAccessorGeometry(v *Vertices, indices []uint32) *accessorGeometry {
	acc := make([]math.Vec4, v.Len())
	for i := range acc {
		acc[i].W = 1
	}
	return &accessorGeometry{v: v, indices: indices, acc: acc}
}

func (g *accessorGeometry) vertex(face, vert int) uint32 {
	return g.indices[face*3+vert]
}

func (g *accessorGeometry) NumFaces() int                 { return len(g.indices) / 3 }
func (g *accessorGeometry) NumVerticesOfFace(face int) int { return 3 }

func (g *accessorGeometry) Position(face, vert int) [3]float32 {
	return g.v.Positions[g.vertex(face, vert)]
}

func (g *accessorGeometry) Normal(face, vert int) [3]float32 {
	return g.v.Normals[g.vertex(face, vert)]
}

func (g *accessorGeometry) TexCoord(face, vert int) [2]float32 {
	return g.v.TexCoords[g.vertex(face, vert)]
}

func (g *accessorGeometry) SetTangent(tangent [4]float32, face, vert int) {
	t := math.Vec4From(tangent)
	a := &g.acc[g.vertex(face, vert)]
	a.X += t.X
	a.Y += t.Y
	a.Z += t.Z
	a.W = t.W
}

func (g *accessorGeometry) tangents() [][4]float32 {
	out := make([][4]float32, len(g.acc))
	for i, a := range g.acc {
		out[i] = finalizeTangent(a)
	}
	return out
}

// AngleWeightedAlgorithm is the built-in tangent-space algorithm. For every
// face with a usable UV mapping it derives the face tangent from the UV
// gradient, projects it onto the plane of each corner normal and reports it
// weighted by the corner angle. Faces with degenerate positions or UVs are
// skipped and their vertices fall back to DefaultTangent.
//
// It follows the MikkTSpace accessor model but is not the reference
// MikkTSpace implementation: there is no per-group splitting or vertex
// welding by tangent frame, so results can differ from baked normal maps
// that expect exact MikkTSpace output. Plug such an implementation in
// through TangentSpace.Algorithm.
type AngleWeightedAlgorithm struct {
	// Strict reports the geometry unsuitable when every face is skipped.
	Strict bool
}

// GenerateTangents implements TangentSpaceAlgorithm.
func (m AngleWeightedAlgorithm) GenerateTangents(g Geometry) bool {
	faces := g.NumFaces()
	usable := 0
	for f := 0; f < faces; f++ {
		if g.NumVerticesOfFace(f) != 3 {
			continue
		}

		var p [3][3]float32
		var uv [3][2]float32
		for c := 0; c < 3; c++ {
			p[c] = g.Position(f, c)
			uv[c] = g.TexCoord(f, c)
		}

		t, b, ok := triangleTangent(p, uv)
		if !ok {
			continue
		}

		var corners [3][4]float32
		valid := true
		for c := 0; c < 3; c++ {
			weight := cornerAngle(p, c)
			if weight == 0 {
				valid = false
				break
			}
			n := math.Vec3From(g.Normal(f, c))
			tc := math.Vec4From(orthonormalize(n, t, b))
			xyz := tc.XYZ().Scale(weight)
			corners[c] = math.Vec4{X: xyz.X, Y: xyz.Y, Z: xyz.Z, W: tc.W}.Array()
		}
		if !valid {
			continue
		}

		usable++
		for c := 0; c < 3; c++ {
			g.SetTangent(corners[c], f, c)
		}
	}
	return !m.Strict || faces == 0 || usable > 0
}

// cornerAngle returns the interior angle of the triangle at corner c, or 0
// when an adjacent edge has no length.
func cornerAngle(p [3][3]float32, c int) float32 {
	o := math.Vec3From(p[c])
	e1 := math.Vec3From(p[(c+1)%3]).Sub(o).Normalize()
	e2 := math.Vec3From(p[(c+2)%3]).Sub(o).Normalize()
	if e1.LengthSqr() == 0 || e2.LengthSqr() == 0 {
		return 0
	}
	cos := e1.Dot(e2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math32.Acos(cos)
}

