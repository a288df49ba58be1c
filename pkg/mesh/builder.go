package mesh

import "fmt"

// Builder receives a converted geometry. Attribute arrays arrive in the
// order positions, normals, tangents, texture coordinates, followed by the
// index buffer and, if the geometry has one, its material name.
type Builder interface {
	AddPositions(p [][3]float32)
	AddNormals(n [][3]float32)
	AddTangents(t [][4]float32)
	AddTexCoords(uv [][2]float32)
	SetIndices(indices []uint32)
	SetMaterial(name string)
}

// Data is an in-memory Builder holding one converted geometry.
type Data struct {
	Positions   [][3]float32
	Normals     [][3]float32
	Tangents    [][4]float32
	TexCoords   [][2]float32
	Indices     []uint32
	Material    string
	HasMaterial bool
}

func (d *Data) AddPositions(p [][3]float32) { d.Positions = append(d.Positions, p...) }
func (d *Data) AddNormals(n [][3]float32)   { d.Normals = append(d.Normals, n...) }
func (d *Data) AddTangents(t [][4]float32)  { d.Tangents = append(d.Tangents, t...) }
func (d *Data) AddTexCoords(uv [][2]float32) {
	d.TexCoords = append(d.TexCoords, uv...)
}
func (d *Data) SetIndices(indices []uint32) { d.Indices = indices }

func (d *Data) SetMaterial(name string) {
	d.Material = name
	d.HasMaterial = true
}

// VertexCount returns the number of vertices.
func (d *Data) VertexCount() int {
	return len(d.Positions)
}

// TriangleCount returns the number of indexed triangles.
func (d *Data) TriangleCount() int {
	return len(d.Indices) / 3
}

// Validate checks that all attribute arrays have the same length and every
// index refers to an existing vertex.
func (d *Data) Validate() error {
	n := len(d.Positions)
	if len(d.Normals) != n || len(d.Tangents) != n || len(d.TexCoords) != n {
		return fmt.Errorf("%w: attribute lengths differ (positions %d, normals %d, tangents %d, texcoords %d)",
			ErrDataIntegrity, n, len(d.Normals), len(d.Tangents), len(d.TexCoords))
	}
	if len(d.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrDataIntegrity, len(d.Indices))
	}
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrDataIntegrity, idx, i, n)
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the positions.
func (d *Data) Bounds() (min, max [3]float32) {
	if len(d.Positions) == 0 {
		return min, max
	}
	min, max = d.Positions[0], d.Positions[0]
	for _, p := range d.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}
