// Package obj parses Wavefront OBJ text into an object/geometry/shape scene graph.
package obj

import "fmt"

// OptIndex is an attribute index that may be absent.
// An absent index never compares equal to a present index 0.
type OptIndex struct {
	Index int
	Valid bool
}

// Some returns a present index.
func Some(i int) OptIndex {
	return OptIndex{Index: i, Valid: true}
}

// String returns the index, or "-" when absent.
func (o OptIndex) String() string {
	if !o.Valid {
		return "-"
	}
	return fmt.Sprintf("%d", o.Index)
}

// VTNIndex is one face corner: a position index plus optional texture
// coordinate and normal indices. All indices are 0-based.
type VTNIndex struct {
	Vertex   int
	TexCoord OptIndex
	Normal   OptIndex
}

// String formats the reference the way it is written in a face statement,
// but 0-based.
func (r VTNIndex) String() string {
	return fmt.Sprintf("%d/%s/%s", r.Vertex, r.TexCoord, r.Normal)
}

// PrimitiveKind discriminates the Primitive union.
type PrimitiveKind uint8

const (
	PrimitivePoint    PrimitiveKind = iota // One reference in Refs[0]
	PrimitiveLine                          // Two references in Refs[0:2]
	PrimitiveTriangle                      // Three references
)

// String returns a human-readable primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitivePoint:
		return "Point"
	case PrimitiveLine:
		return "Line"
	case PrimitiveTriangle:
		return "Triangle"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Primitive is a point, line segment or triangle.
type Primitive struct {
	Kind PrimitiveKind
	Refs [3]VTNIndex
}

// Triangle builds a triangle primitive.
func Triangle(a, b, c VTNIndex) Primitive {
	return Primitive{Kind: PrimitiveTriangle, Refs: [3]VTNIndex{a, b, c}}
}

// Line builds a line segment primitive.
func Line(a, b VTNIndex) Primitive {
	return Primitive{Kind: PrimitiveLine, Refs: [3]VTNIndex{a, b}}
}

// Point builds a point primitive.
func Point(a VTNIndex) Primitive {
	return Primitive{Kind: PrimitivePoint, Refs: [3]VTNIndex{a}}
}

// Corners returns the references used by the primitive.
func (p Primitive) Corners() []VTNIndex {
	switch p.Kind {
	case PrimitivePoint:
		return p.Refs[:1]
	case PrimitiveLine:
		return p.Refs[:2]
	default:
		return p.Refs[:]
	}
}

// Shape is a primitive with the grouping state active when it was declared.
type Shape struct {
	Primitive      Primitive
	Groups         []string // Names from the last "g" statement
	SmoothingGroup uint32   // 0 when smoothing is off
	Line           int      // Source line of the statement
}

// Geometry is a run of shapes sharing one material.
type Geometry struct {
	Material    string
	HasMaterial bool
	Shapes      []Shape
}

// TexCoord is a texture vertex. W is parsed but unused by mesh conversion.
type TexCoord struct {
	U, V, W float64
}

// Object is a named set of geometries plus the attribute arrays their
// shapes index into.
type Object struct {
	Name       string
	Vertices   [][3]float64
	TexCoords  []TexCoord
	Normals    [][3]float64
	Geometries []Geometry
}

// Scene is a parsed OBJ file.
type Scene struct {
	MaterialLibraries []string
	Objects           []Object
}

// CountShapes returns total and triangle shape counts for a scene.
func CountShapes(s *Scene) (total, triangles int) {
	for i := range s.Objects {
		for _, g := range s.Objects[i].Geometries {
			for _, shape := range g.Shapes {
				total++
				if shape.Primitive.Kind == PrimitiveTriangle {
					triangles++
				}
			}
		}
	}
	return total, triangles
}
