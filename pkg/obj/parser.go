package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// OBJ parse errors.
var (
	ErrEncoding        = errors.New("obj: input is not valid UTF-8")
	ErrSyntax          = errors.New("obj: syntax error")
	ErrIndexOutOfRange = errors.New("obj: index out of range")
)

// maxLineLength bounds a single (joined) statement.
const maxLineLength = 16 << 20

// SyntaxError describes a malformed statement.
type SyntaxError struct {
	Line    int    // 1-based source line
	Message string // What was wrong
	Err     error  // Optional more specific sentinel, e.g. ErrIndexOutOfRange
}

// Error formats the error with its source line.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Unwrap exposes ErrSyntax and the specific cause, if any.
func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSyntax, e.Err}
	}
	return []error{ErrSyntax}
}

// Parse parses OBJ data from a byte slice.
// The data must be UTF-8; a leading byte order mark is ignored.
func Parse(data []byte) (*Scene, error) {
	if !utf8.Valid(data) {
		return nil, ErrEncoding
	}

	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	p := &parser{current: -1}
	if err := p.run(text); err != nil {
		return nil, err
	}
	return p.finish()
}

// ParseString parses OBJ text.
func ParseString(s string) (*Scene, error) {
	return Parse([]byte(s))
}

// ParseFile reads and parses an OBJ file from disk.
func ParseFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Parse(data)
}

type parser struct {
	scene     Scene
	vertices  [][3]float64
	texCoords []TexCoord
	normals   [][3]float64

	current     int // Index of the active object, -1 before the first one
	groups      []string
	smoothing   uint32
	material    string
	hasMaterial bool
	line        int
}

func (p *parser) run(text []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var pending strings.Builder
	start := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if pending.Len() == 0 {
			start = lineNo
		}

		// Comments end at the line break, so a trailing backslash inside
		// one does not continue the statement.
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		// Backslash continues the statement on the next line
		if strings.HasSuffix(line, "\\") {
			pending.WriteString(strings.TrimSuffix(line, "\\"))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)

		p.line = start
		if err := p.statement(pending.String()); err != nil {
			return err
		}
		pending.Reset()
	}
	if err := scanner.Err(); err != nil {
		return &SyntaxError{Line: lineNo + 1, Message: err.Error()}
	}
	if pending.Len() > 0 {
		p.line = start
		return p.statement(pending.String())
	}
	return nil
}

func (p *parser) statement(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	args := fields[1:]
	switch fields[0] {
	case "v":
		v, err := p.floats(fields[0], args, 3, 3)
		if err != nil {
			return err
		}
		p.vertices = append(p.vertices, [3]float64{v[0], v[1], v[2]})

	case "vt":
		v, err := p.floats(fields[0], args, 1, 3)
		if err != nil {
			return err
		}
		tc := TexCoord{U: v[0]}
		if len(v) > 1 {
			tc.V = v[1]
		}
		if len(v) > 2 {
			tc.W = v[2]
		}
		p.texCoords = append(p.texCoords, tc)

	case "vn":
		v, err := p.floats(fields[0], args, 3, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float64{v[0], v[1], v[2]})

	case "f":
		if len(args) < 3 {
			return p.errorf("face needs at least 3 vertices, got %d", len(args))
		}
		refs, err := p.refs(args)
		if err != nil {
			return err
		}
		// Polygons are fan-triangulated around the first corner
		for i := 1; i+1 < len(refs); i++ {
			p.addShape(Triangle(refs[0], refs[i], refs[i+1]))
		}

	case "l":
		if len(args) < 2 {
			return p.errorf("line needs at least 2 vertices, got %d", len(args))
		}
		refs, err := p.refs(args)
		if err != nil {
			return err
		}
		for i := 0; i+1 < len(refs); i++ {
			p.addShape(Line(refs[i], refs[i+1]))
		}

	case "p":
		if len(args) < 1 {
			return p.errorf("point needs at least 1 vertex")
		}
		refs, err := p.refs(args)
		if err != nil {
			return err
		}
		for _, r := range refs {
			p.addShape(Point(r))
		}

	case "o":
		p.scene.Objects = append(p.scene.Objects, Object{Name: strings.Join(args, " ")})
		p.current = len(p.scene.Objects) - 1

	case "g":
		if len(args) == 0 {
			p.groups = []string{"default"}
		} else {
			p.groups = append([]string(nil), args...)
		}

	case "s":
		if len(args) != 1 {
			return p.errorf("smoothing group expects 1 argument, got %d", len(args))
		}
		if args[0] == "off" {
			p.smoothing = 0
			break
		}
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return p.errorf("invalid smoothing group %q", args[0])
		}
		p.smoothing = uint32(n)

	case "usemtl":
		if len(args) == 0 {
			return p.errorf("usemtl expects a material name")
		}
		p.material = strings.Join(args, " ")
		p.hasMaterial = true

	case "mtllib":
		p.scene.MaterialLibraries = append(p.scene.MaterialLibraries, args...)

	default:
		// Free-form curves, display attributes and vendor extensions carry
		// nothing mesh conversion can use.
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) floats(keyword string, args []string, min, max int) ([]float64, error) {
	if len(args) < min {
		return nil, p.errorf("%s expects at least %d values, got %d", keyword, min, len(args))
	}
	if len(args) > max {
		args = args[:max]
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q in %s", a, keyword)
		}
		out[i] = f
	}
	return out, nil
}

func (p *parser) refs(args []string) ([]VTNIndex, error) {
	out := make([]VTNIndex, len(args))
	for i, a := range args {
		r, err := p.ref(a)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// ref parses "v", "v/vt", "v//vn" or "v/vt/vn".
func (p *parser) ref(tok string) (VTNIndex, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return VTNIndex{}, p.errorf("invalid vertex reference %q", tok)
	}

	var r VTNIndex
	v, err := p.index(parts[0], len(p.vertices), "vertex")
	if err != nil {
		return VTNIndex{}, err
	}
	r.Vertex = v

	if len(parts) > 1 && parts[1] != "" {
		vt, err := p.index(parts[1], len(p.texCoords), "texture coordinate")
		if err != nil {
			return VTNIndex{}, err
		}
		r.TexCoord = Some(vt)
	}
	if len(parts) > 2 && parts[2] != "" {
		vn, err := p.index(parts[2], len(p.normals), "normal")
		if err != nil {
			return VTNIndex{}, err
		}
		r.Normal = Some(vn)
	}
	return r, nil
}

// index converts a 1-based or negative (relative) OBJ index to 0-based.
// Positive indices are range-checked once the whole file is read.
func (p *parser) index(tok string, count int, kind string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errorf("invalid %s index %q", kind, tok)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		if count+n < 0 {
			return 0, &SyntaxError{
				Line:    p.line,
				Message: fmt.Sprintf("relative %s index %d out of range (%d defined)", kind, n, count),
				Err:     ErrIndexOutOfRange,
			}
		}
		return count + n, nil
	default:
		return 0, p.errorf("%s index 0 is invalid, OBJ indices start at 1", kind)
	}
}

func (p *parser) addShape(prim Primitive) {
	if p.current < 0 {
		p.scene.Objects = append(p.scene.Objects, Object{})
		p.current = 0
	}
	obj := &p.scene.Objects[p.current]

	n := len(obj.Geometries)
	switch {
	case n == 0:
		obj.Geometries = append(obj.Geometries, p.newGeometry())
	case !p.sameMaterial(&obj.Geometries[n-1]):
		if len(obj.Geometries[n-1].Shapes) == 0 {
			obj.Geometries[n-1] = p.newGeometry()
		} else {
			obj.Geometries = append(obj.Geometries, p.newGeometry())
		}
	}

	g := &obj.Geometries[len(obj.Geometries)-1]
	g.Shapes = append(g.Shapes, Shape{
		Primitive:      prim,
		Groups:         p.groups,
		SmoothingGroup: p.smoothing,
		Line:           p.line,
	})
}

func (p *parser) newGeometry() Geometry {
	return Geometry{Material: p.material, HasMaterial: p.hasMaterial}
}

func (p *parser) sameMaterial(g *Geometry) bool {
	return g.HasMaterial == p.hasMaterial && g.Material == p.material
}

// finish range-checks every reference and hands the attribute arrays to
// each object.
func (p *parser) finish() (*Scene, error) {
	for i := range p.scene.Objects {
		obj := &p.scene.Objects[i]
		obj.Vertices = p.vertices
		obj.TexCoords = p.texCoords
		obj.Normals = p.normals

		for _, g := range obj.Geometries {
			for _, shape := range g.Shapes {
				for _, r := range shape.Primitive.Corners() {
					if err := p.check(shape.Line, r); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return &p.scene, nil
}

func (p *parser) check(line int, r VTNIndex) error {
	outOfRange := func(kind string, idx, count int) error {
		return &SyntaxError{
			Line:    line,
			Message: fmt.Sprintf("%s index %d out of range (%d defined)", kind, idx+1, count),
			Err:     ErrIndexOutOfRange,
		}
	}
	if r.Vertex >= len(p.vertices) {
		return outOfRange("vertex", r.Vertex, len(p.vertices))
	}
	if r.TexCoord.Valid && r.TexCoord.Index >= len(p.texCoords) {
		return outOfRange("texture coordinate", r.TexCoord.Index, len(p.texCoords))
	}
	if r.Normal.Valid && r.Normal.Index >= len(p.normals) {
		return outOfRange("normal", r.Normal.Index, len(p.normals))
	}
	return nil
}
