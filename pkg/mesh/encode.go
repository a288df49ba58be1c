package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Binary mesh file errors.
var (
	ErrInvalidMeshMagic       = errors.New("invalid mesh magic: expected 'OMSH'")
	ErrUnsupportedMeshVersion = errors.New("unsupported mesh version")
	ErrTruncatedMeshData      = errors.New("truncated mesh data")
	ErrMeshTooLarge           = errors.New("mesh exceeds size limits")
)

const (
	meshMagic   = "OMSH"
	meshVersion = 1

	flagHasMaterial = 1 << 0

	// decodeChunk is how many array elements Decode reads per step.
	decodeChunk = 1 << 14
)

// maxMeshElements bounds vertex and index counts in a mesh file.
var maxMeshElements = 1 << 28

// meshHeader is the fixed-size part of a mesh file.
type meshHeader struct {
	Magic       [4]byte
	Version     uint16
	Flags       uint16
	VertexCount uint32
	IndexCount  uint32
	MaterialLen uint16
}

// Encode writes d in the little-endian OMSH format: header, material name,
// positions, normals, tangents, texture coordinates, indices.
func Encode(w io.Writer, d *Data) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := checkCounts(len(d.Positions), len(d.Indices)); err != nil {
		return err
	}
	if len(d.Material) > 0xFFFF {
		return fmt.Errorf("%w: material name is %d bytes", ErrMeshTooLarge, len(d.Material))
	}

	h := meshHeader{
		Version:     meshVersion,
		VertexCount: uint32(len(d.Positions)),
		IndexCount:  uint32(len(d.Indices)),
		MaterialLen: uint16(len(d.Material)),
	}
	copy(h.Magic[:], meshMagic)
	if d.HasMaterial {
		h.Flags |= flagHasMaterial
	}

	parts := []any{h, []byte(d.Material), d.Positions, d.Normals, d.Tangents, d.TexCoords, d.Indices}
	for _, p := range parts {
		if err := binary.Write(w, binary.LittleEndian, p); err != nil {
			return fmt.Errorf("writing mesh: %w", err)
		}
	}
	return nil
}

// Decode reads a mesh written by Encode.
func Decode(r io.Reader) (*Data, error) {
	var h meshHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, truncated(err)
	}
	if string(h.Magic[:]) != meshMagic {
		return nil, ErrInvalidMeshMagic
	}
	if h.Version != meshVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMeshVersion, h.Version)
	}
	if err := checkCounts(int(h.VertexCount), int(h.IndexCount)); err != nil {
		return nil, err
	}

	// Counts come from the file, so arrays grow only as data arrives.
	material, err := readArray[byte](r, int(h.MaterialLen))
	if err != nil {
		return nil, err
	}
	d := &Data{
		Material:    string(material),
		HasMaterial: h.Flags&flagHasMaterial != 0,
	}
	if d.Positions, err = readArray[[3]float32](r, int(h.VertexCount)); err != nil {
		return nil, err
	}
	if d.Normals, err = readArray[[3]float32](r, int(h.VertexCount)); err != nil {
		return nil, err
	}
	if d.Tangents, err = readArray[[4]float32](r, int(h.VertexCount)); err != nil {
		return nil, err
	}
	if d.TexCoords, err = readArray[[2]float32](r, int(h.VertexCount)); err != nil {
		return nil, err
	}
	if d.Indices, err = readArray[uint32](r, int(h.IndexCount)); err != nil {
		return nil, err
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// WriteFile encodes d to path.
func WriteFile(path string, d *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile decodes the mesh stored at path.
func ReadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// readArray reads n little-endian elements in chunks of decodeChunk.
func readArray[T any](r io.Reader, n int) ([]T, error) {
	out := make([]T, 0, min(n, decodeChunk))
	for len(out) < n {
		chunk := make([]T, min(n-len(out), decodeChunk))
		if err := binary.Read(r, binary.LittleEndian, chunk); err != nil {
			return nil, truncated(err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func checkCounts(vertices, indices int) error {
	if vertices > maxMeshElements || indices > maxMeshElements {
		return fmt.Errorf("%w: %d vertices, %d indices", ErrMeshTooLarge, vertices, indices)
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedMeshData
	}
	return fmt.Errorf("reading mesh: %w", err)
}
