package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/objmesh/pkg/obj"
)

func parseGeometry(t *testing.T, src string) (*obj.Object, *obj.Geometry) {
	t.Helper()
	scene, err := obj.ParseString(src)
	require.NoError(t, err)
	require.Len(t, scene.Objects, 1)
	require.Len(t, scene.Objects[0].Geometries, 1)
	o := &scene.Objects[0]
	return o, &o.Geometries[0]
}

func TestDeduplicate_Cube(t *testing.T) {
	o, g := parseGeometry(t, cubeOBJ)

	for _, separate := range []bool{false, true} {
		tris, skipped, err := Triangles(o, g, separate)
		require.NoError(t, err)
		assert.Len(t, tris, 12)
		assert.Zero(t, skipped)

		d, err := Deduplicate(o, tris)
		require.NoError(t, err)
		assert.Len(t, d.Keys, 24, "separateWinding=%v", separate)
		assert.Len(t, d.Index, 24)
		assert.Len(t, d.Vertices.Positions, 24)
		assert.Len(t, d.Vertices.Normals, 24)
		assert.Len(t, d.Vertices.TexCoords, 24)

		for i := 1; i < len(d.Keys); i++ {
			assert.True(t, d.Keys[i-1].Less(d.Keys[i]), "keys must be strictly ascending at %d", i)
		}
		for i, k := range d.Keys {
			assert.Equal(t, uint32(i), d.Index[k])
		}
	}
}

func TestDeduplicate_MissingAttributeDefaults(t *testing.T) {
	o, g := parseGeometry(t, "v 1 2 3\nv 4 5 6\nv 7 8 9\nvt 0.25 0.75\nvn 0 1 0\nf 1 2/1 3//1\n")

	tris, _, err := Triangles(o, g, false)
	require.NoError(t, err)
	d, err := Deduplicate(o, tris)
	require.NoError(t, err)
	require.Equal(t, 3, d.Vertices.Len())

	// Keys sort by position index, so output order follows v1, v2, v3.
	assert.Equal(t, [3]float32{1, 2, 3}, d.Vertices.Positions[0])
	assert.Equal(t, [3]float32{0, 0, 0}, d.Vertices.Normals[0])
	assert.Equal(t, [2]float32{0, 0}, d.Vertices.TexCoords[0])

	assert.Equal(t, [2]float32{0.25, 0.75}, d.Vertices.TexCoords[1])
	assert.Equal(t, [3]float32{0, 0, 0}, d.Vertices.Normals[1])

	assert.Equal(t, [3]float32{0, 1, 0}, d.Vertices.Normals[2])
	assert.Equal(t, [2]float32{0, 0}, d.Vertices.TexCoords[2])
}

func TestDeduplicate_AbsentAndZeroIndexStayDistinct(t *testing.T) {
	o, g := parseGeometry(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1 2 3\nf 1/1 2/1 3/1\n")

	tris, _, err := Triangles(o, g, false)
	require.NoError(t, err)
	d, err := Deduplicate(o, tris)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Vertices.Len())
}

func TestDeduplicate_SortOrderNotFirstOccurrence(t *testing.T) {
	o, g := parseGeometry(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 3 2 1\n")

	tris, _, err := Triangles(o, g, false)
	require.NoError(t, err)
	d, err := Deduplicate(o, tris)
	require.NoError(t, err)

	indices, err := Remap(tris, d)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 1, 0}, indices)
	assert.Equal(t, [3]float32{0, 1, 0}, d.Vertices.Positions[2])
}

func TestTriangles_SkipsOtherPrimitives(t *testing.T) {
	o, g := parseGeometry(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\np 1\nl 1 2\nf 1 2 3\n")

	tris, skipped, err := Triangles(o, g, true)
	require.NoError(t, err)
	assert.Len(t, tris, 1)
	assert.Equal(t, 2, skipped)
}

func TestDataIntegrity(t *testing.T) {
	o := &obj.Object{
		Vertices:  [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		TexCoords: []obj.TexCoord{{U: 0, V: 0}},
		Normals:   [][3]float64{{0, 0, 1}},
	}

	tests := []struct {
		name     string
		ref      obj.VTNIndex
		separate bool
	}{
		{"position", obj.VTNIndex{Vertex: 999}, false},
		{"position with winding", obj.VTNIndex{Vertex: 999}, true},
		{"negative position", obj.VTNIndex{Vertex: -1}, false},
		{"texcoord", obj.VTNIndex{Vertex: 0, TexCoord: obj.Some(3)}, false},
		{"normal", obj.VTNIndex{Vertex: 0, Normal: obj.Some(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &obj.Geometry{Shapes: []obj.Shape{{
				Primitive: obj.Triangle(obj.VTNIndex{Vertex: 0}, obj.VTNIndex{Vertex: 1}, tt.ref),
			}}}

			tris, _, err := Triangles(o, g, tt.separate)
			if err == nil {
				_, err = Deduplicate(o, tris)
			}
			assert.ErrorIs(t, err, ErrDataIntegrity)
		})
	}
}

func TestRemap_MissingKey(t *testing.T) {
	tris := []Triangle{{NewKey(obj.VTNIndex{Vertex: 0}, 0), NewKey(obj.VTNIndex{Vertex: 1}, 0), NewKey(obj.VTNIndex{Vertex: 2}, 0)}}
	d := &Dedup{Index: map[Key]uint32{NewKey(obj.VTNIndex{Vertex: 0}, 0): 0}}

	_, err := Remap(tris, d)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}
