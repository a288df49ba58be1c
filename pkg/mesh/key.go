package mesh

import "github.com/Faultbox/objmesh/pkg/obj"

// Key identifies one output vertex: the attribute indices of a face corner
// and, when winding separation is on, the orientation of its triangle.
// Keys are comparable and usable as map keys.
type Key struct {
	Ref     obj.VTNIndex
	Winding int8
}

// NewKey builds a key for a face corner.
func NewKey(ref obj.VTNIndex, winding int8) Key {
	return Key{Ref: ref, Winding: winding}
}

// Compare orders keys lexicographically by position index, texture
// coordinate, normal and winding. An absent index sorts before any present
// one. Returns -1, 0 or +1.
func (k Key) Compare(other Key) int {
	if c := compareInt(k.Ref.Vertex, other.Ref.Vertex); c != 0 {
		return c
	}
	if c := compareOpt(k.Ref.TexCoord, other.Ref.TexCoord); c != 0 {
		return c
	}
	if c := compareOpt(k.Ref.Normal, other.Ref.Normal); c != 0 {
		return c
	}
	return compareInt(int(k.Winding), int(other.Winding))
}

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

func compareOpt(a, b obj.OptIndex) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	}
	return compareInt(a.Index, b.Index)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
