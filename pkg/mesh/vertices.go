package mesh

// Vertices holds the deduplicated attribute arrays. Entry i of every
// array belongs to output vertex i.
type Vertices struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Tangents  [][4]float32
}

// Len returns the number of output vertices.
func (v *Vertices) Len() int {
	return len(v.Positions)
}

func toFloat3(p [3]float64) [3]float32 {
	return [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
}
