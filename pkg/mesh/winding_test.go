package mesh

import "testing"

func TestWinding(t *testing.T) {
	a := [3]float32{0, 0, 0}
	b := [3]float32{1, 0, 0}
	c := [3]float32{0, 1, 0}

	tests := []struct {
		name    string
		a, b, c [3]float32
		want    int8
	}{
		{"counter-clockwise in xy", a, b, c, 1},
		{"clockwise in xy", a, c, b, -1},
		{"rotated corners keep sign", b, c, a, 1},
		{"degenerate", a, b, [3]float32{2, 0, 0}, 0},
		{"coincident", a, a, a, 0},
		{"facing -x", [3]float32{0, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Winding(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("Winding() = %d, want %d", got, tt.want)
			}
		})
	}
}
