package mesh

import "fmt"

// Remap rewrites every triangle as three dense vertex indices, keeping
// triangle order and corner order.
func Remap(tris []Triangle, d *Dedup) ([]uint32, error) {
	indices := make([]uint32, 0, len(tris)*3)
	for t, tri := range tris {
		for _, k := range tri {
			idx, ok := d.Index[k]
			if !ok {
				return nil, fmt.Errorf("%w: triangle %d corner %v has no output vertex", ErrDataIntegrity, t, k.Ref)
			}
			indices = append(indices, idx)
		}
	}
	return indices, nil
}
