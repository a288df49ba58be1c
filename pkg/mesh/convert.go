// Package mesh converts parsed OBJ scenes into indexed meshes where every
// vertex carries position, normal, tangent and texture coordinate at the
// same index.
package mesh

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objmesh/pkg/obj"
)

// TangentMode selects the built-in tangent generator.
type TangentMode string

const (
	// TangentsMikk runs TangentSpace, the MikkTSpace-style accessor
	// pipeline, with AngleWeightedAlgorithm.
	TangentsMikk TangentMode = "mikktspace"
	// TangentsDirect runs DirectTangents.
	TangentsDirect TangentMode = "direct"
)

// Options controls conversion.
type Options struct {
	// Tangents selects the tangent strategy. Ignored when Generator is set.
	Tangents TangentMode
	// Generator overrides the built-in tangent strategies.
	Generator TangentGenerator
	// StrictTangents makes TangentsMikk fail geometries whose UV mapping is
	// degenerate on every triangle. Otherwise they get DefaultTangent.
	// TangentsDirect always falls back to DefaultTangent.
	StrictTangents bool
	// SeparateWinding keeps oppositely wound triangles from sharing vertices.
	SeparateWinding bool
	// Workers bounds how many geometries convert in parallel.
	// Zero or less means runtime.NumCPU().
	Workers int
	// ContinueOnError drops failed geometries instead of failing the load.
	ContinueOnError bool
	// Logger receives per-geometry diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by LoadOBJ.
func DefaultOptions() Options {
	return Options{
		Tangents:        TangentsMikk,
		StrictTangents:  true,
		SeparateWinding: true,
	}
}

// Stats describes one converted geometry.
type Stats struct {
	Triangles int // Triangle shapes converted
	Skipped   int // Point and line shapes ignored
	Vertices  int // Distinct output vertices
}

// Result is one converted geometry.
type Result struct {
	Object   string // Name of the source object
	Geometry int    // Index of the geometry within its object
	Data     *Data
	Stats    Stats
}

// Converter turns OBJ geometries into mesh data.
type Converter struct {
	opts     Options
	tangents TangentGenerator
	log      *zap.Logger
}

// NewConverter creates a converter.
func NewConverter(opts Options) (*Converter, error) {
	gen := opts.Generator
	if gen == nil {
		switch opts.Tangents {
		case TangentsMikk, "":
			gen = TangentSpace{Algorithm: AngleWeightedAlgorithm{Strict: opts.StrictTangents}}
		case TangentsDirect:
			gen = DirectTangents{}
		default:
			return nil, fmt.Errorf("unknown tangent mode %q", opts.Tangents)
		}
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Converter{opts: opts, tangents: gen, log: log}, nil
}

// LoadOBJ parses OBJ data and converts every geometry with DefaultOptions.
func LoadOBJ(data []byte) ([]Result, error) {
	c, err := NewConverter(DefaultOptions())
	if err != nil {
		return nil, err
	}
	return c.LoadOBJ(context.Background(), data)
}

// LoadOBJ parses OBJ data and converts every geometry.
func (c *Converter) LoadOBJ(ctx context.Context, data []byte) ([]Result, error) {
	scene, err := obj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing obj: %w", err)
	}
	return c.Convert(ctx, scene)
}

// Convert converts every geometry of the scene, in parallel, and returns
// the results in source order.
//
// A geometry either converts completely or not at all. Geometries do not
// depend on each other, but by default the first failure still fails the
// whole scene: the context shared by the workers is canceled, geometries
// not yet started are never converted, and no results are returned. This
// keeps LoadOBJ an all-or-nothing load of the file. With ContinueOnError,
// every geometry is attempted, failed ones are left out of the results and
// their errors are returned combined alongside the results that did
// convert.
func (c *Converter) Convert(ctx context.Context, scene *obj.Scene) ([]Result, error) {
	type job struct {
		object   int
		geometry int
	}
	var jobs []job
	for i := range scene.Objects {
		for j := range scene.Objects[i].Geometries {
			jobs = append(jobs, job{object: i, geometry: j})
		}
	}

	results := make([]Result, len(jobs))
	failures := make([]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for slot, jb := range jobs {
		if gctx.Err() != nil {
			break
		}
		slot, jb := slot, jb // per-iteration copies (module builds with go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			o := &scene.Objects[jb.object]
			data := &Data{}
			stats, err := c.ConvertGeometry(o, &o.Geometries[jb.geometry], data)
			if err != nil {
				gerr := &GeometryError{Object: o.Name, Geometry: jb.geometry, Err: err}
				if !c.opts.ContinueOnError {
					return gerr
				}
				c.log.Warn("skipping geometry",
					zap.String("object", o.Name),
					zap.Int("geometry", jb.geometry),
					zap.Error(err))
				failures[slot] = gerr
				return nil
			}

			results[slot] = Result{Object: o.Name, Geometry: jb.geometry, Data: data, Stats: stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var combined error
	out := make([]Result, 0, len(jobs))
	for slot := range jobs {
		if failures[slot] != nil {
			combined = multierr.Append(combined, failures[slot])
			continue
		}
		out = append(out, results[slot])
	}
	return out, combined
}

// ConvertGeometry converts a single geometry of o into b. Nothing is
// written to b unless conversion succeeds.
func (c *Converter) ConvertGeometry(o *obj.Object, g *obj.Geometry, b Builder) (Stats, error) {
	tris, skipped, err := Triangles(o, g, c.opts.SeparateWinding)
	if err != nil {
		return Stats{}, err
	}

	dedup, err := Deduplicate(o, tris)
	if err != nil {
		return Stats{}, err
	}

	indices, err := Remap(tris, dedup)
	if err != nil {
		return Stats{}, err
	}

	v := &dedup.Vertices
	tangents, err := c.tangents.Generate(v, indices)
	if err != nil {
		return Stats{}, err
	}
	if len(tangents) != v.Len() {
		return Stats{}, fmt.Errorf("%w: %d tangents for %d vertices", ErrTangentGeneration, len(tangents), v.Len())
	}
	v.Tangents = tangents

	b.AddPositions(v.Positions)
	b.AddNormals(v.Normals)
	b.AddTangents(v.Tangents)
	b.AddTexCoords(v.TexCoords)
	b.SetIndices(indices)
	if g.HasMaterial {
		b.SetMaterial(g.Material)
	}

	stats := Stats{Triangles: len(tris), Skipped: skipped, Vertices: v.Len()}
	c.log.Debug("converted geometry",
		zap.String("object", o.Name),
		zap.String("material", g.Material),
		zap.Int("triangles", stats.Triangles),
		zap.Int("skipped", stats.Skipped),
		zap.Int("vertices", stats.Vertices))
	return stats, nil
}
