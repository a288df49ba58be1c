package mesh

import (
	"github.com/google/btree"

	"github.com/Faultbox/objmesh/pkg/obj"
)

// btreeDegree is the fan-out of the sorted key set.
const btreeDegree = 16

// Triangle holds the output vertex keys of one source triangle, in face
// order.
type Triangle [3]Key

// Triangles collects the triangle shapes of a geometry as key triples.
// Other primitives are skipped and counted. With separateWinding set, each
// key carries the orientation of its triangle so oppositely wound faces
// never share a vertex.
func Triangles(o *obj.Object, g *obj.Geometry, separateWinding bool) (tris []Triangle, skipped int, err error) {
	tris = make([]Triangle, 0, len(g.Shapes))
	for _, shape := range g.Shapes {
		prim := shape.Primitive
		if prim.Kind != obj.PrimitiveTriangle {
			skipped++
			continue
		}

		var winding int8
		if separateWinding {
			var p [3][3]float32
			for i, r := range prim.Refs {
				if r.Vertex < 0 || r.Vertex >= len(o.Vertices) {
					return nil, 0, integrityError("position", r.Vertex, len(o.Vertices))
				}
				p[i] = toFloat3(o.Vertices[r.Vertex])
			}
			winding = Winding(p[0], p[1], p[2])
		}

		tris = append(tris, Triangle{
			NewKey(prim.Refs[0], winding),
			NewKey(prim.Refs[1], winding),
			NewKey(prim.Refs[2], winding),
		})
	}
	return tris, skipped, nil
}

// Dedup is the set of distinct keys of a geometry in sorted order, the
// dense index assigned to each, and the attributes they resolve to.
type Dedup struct {
	Keys     []Key
	Index    map[Key]uint32
	Vertices Vertices
}

// Deduplicate assigns each distinct key a dense index in ascending key
// order and resolves its attributes. Missing normals resolve to [0,0,0]
// and missing texture coordinates to [0,0]. A reference outside the
// object's arrays is an ErrDataIntegrity.
func Deduplicate(o *obj.Object, tris []Triangle) (*Dedup, error) {
	set := btree.NewG[Key](btreeDegree, Key.Less)
	for _, tri := range tris {
		for _, k := range tri {
			set.ReplaceOrInsert(k)
		}
	}

	n := set.Len()
	d := &Dedup{
		Keys:  make([]Key, 0, n),
		Index: make(map[Key]uint32, n),
		Vertices: Vertices{
			Positions: make([][3]float32, 0, n),
			Normals:   make([][3]float32, 0, n),
			TexCoords: make([][2]float32, 0, n),
		},
	}

	var err error
	set.Ascend(func(k Key) bool {
		var pos, nrm [3]float32
		var uv [2]float32
		if pos, nrm, uv, err = resolve(o, k.Ref); err != nil {
			return false
		}
		d.Index[k] = uint32(len(d.Keys))
		d.Keys = append(d.Keys, k)
		d.Vertices.Positions = append(d.Vertices.Positions, pos)
		d.Vertices.Normals = append(d.Vertices.Normals, nrm)
		d.Vertices.TexCoords = append(d.Vertices.TexCoords, uv)
		return true
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func resolve(o *obj.Object, r obj.VTNIndex) (pos, nrm [3]float32, uv [2]float32, err error) {
	if r.Vertex < 0 || r.Vertex >= len(o.Vertices) {
		return pos, nrm, uv, integrityError("position", r.Vertex, len(o.Vertices))
	}
	pos = toFloat3(o.Vertices[r.Vertex])

	if r.Normal.Valid {
		if r.Normal.Index < 0 || r.Normal.Index >= len(o.Normals) {
			return pos, nrm, uv, integrityError("normal", r.Normal.Index, len(o.Normals))
		}
		nrm = toFloat3(o.Normals[r.Normal.Index])
	}

	if r.TexCoord.Valid {
		if r.TexCoord.Index < 0 || r.TexCoord.Index >= len(o.TexCoords) {
			return pos, nrm, uv, integrityError("texture coordinate", r.TexCoord.Index, len(o.TexCoords))
		}
		tc := o.TexCoords[r.TexCoord.Index]
		uv = [2]float32{float32(tc.U), float32(tc.V)}
	}
	return pos, nrm, uv, nil
}
