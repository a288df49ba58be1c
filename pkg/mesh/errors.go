package mesh

import (
	"errors"
	"fmt"
)

// Conversion errors.
var (
	ErrDataIntegrity     = errors.New("mesh: face references data that does not exist")
	ErrTangentGeneration = errors.New("mesh: geometry is unsuitable for tangent generation")
)

// GeometryError identifies the geometry a conversion failure belongs to.
type GeometryError struct {
	Object   string
	Geometry int
	Err      error
}

// Error formats the error with the object name and geometry index.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("object %q geometry %d: %v", e.Object, e.Geometry, e.Err)
}

// Unwrap returns the underlying error.
func (e *GeometryError) Unwrap() error {
	return e.Err
}

func integrityError(kind string, idx, count int) error {
	return fmt.Errorf("%w: %s index %d out of range (%d available)", ErrDataIntegrity, kind, idx, count)
}
