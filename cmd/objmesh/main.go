// objmesh converts Wavefront OBJ scenes into indexed meshes with tangents.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/logger"
	"github.com/Faultbox/objmesh/pkg/mesh"
	"github.com/Faultbox/objmesh/pkg/obj"
)

// stdout receives command output; logs go to stderr.
var stdout io.Writer = os.Stdout

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "convert", "c":
		err = cmdConvert(args)
	case "dump":
		err = cmdDump(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`objmesh - OBJ to indexed mesh converter

Usage:
  objmesh <command> [options]

Commands:
  info <file.obj>              Show objects, geometries and converted sizes
  convert <file.obj>...        Write one .omsh file per geometry
  dump <file.omsh>             Print a mesh file summary as YAML
  config [-save | -save-to <path>]
                               Print the effective config, or save it

Options (info, convert, config):
  -config <path>     Config file (default ./objmesh.yaml or user config dir)
  -tangents <mode>   mikktspace or direct
  -workers <n>       Geometries converted in parallel
  -no-winding        Let oppositely wound triangles share vertices
  -lenient           Default tangents where the UV mapping is unusable
  -continue          Skip failed geometries instead of aborting
  -o <dir>           Output directory (convert)
  -f                 Overwrite existing files (convert)
  -debug             Enable debug logging
  -log-file <path>   Also write logs to a rotated file

Examples:
  objmesh info scene.obj
  objmesh convert -o meshes -tangents direct scene.obj props.obj
  objmesh dump meshes/scene_Cube_0.omsh
  objmesh config -tangents direct -workers 4 -save`)
}

// setup registers the shared flags on fs, parses args, loads the config
// and starts logging.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(c *mesh.Converter, path string) ([]mesh.Result, error) {
	scene, err := obj.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	results, err := c.Convert(context.Background(), scene)
	if err != nil && results == nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		logger.Warn("some geometries failed", zap.String("file", path), zap.Error(err))
	}
	return results, nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: objmesh info [options] <file.obj>")
	}

	path := fs.Arg(0)
	scene, err := obj.ParseFile(path)
	if err != nil {
		return err
	}

	c, err := mesh.NewConverter(cfg.Options(logger.Log))
	if err != nil {
		return err
	}
	results, err := c.Convert(context.Background(), scene)
	if err != nil && results == nil {
		return err
	}

	shapes, triangles := obj.CountShapes(scene)
	fmt.Fprintf(stdout, "File:       %s\n", path)
	fmt.Fprintf(stdout, "Objects:    %d\n", len(scene.Objects))
	fmt.Fprintf(stdout, "Shapes:     %d (%d triangles)\n", shapes, triangles)
	if len(scene.MaterialLibraries) > 0 {
		fmt.Fprintf(stdout, "Materials:  %s\n", strings.Join(scene.MaterialLibraries, ", "))
	}
	fmt.Fprintf(stdout, "Tangents:   %s\n", cfg.Conversion.Tangents)
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "%-24s %-4s %-16s %10s %10s %8s\n", "OBJECT", "GEO", "MATERIAL", "TRIANGLES", "VERTICES", "SKIPPED")
	for _, r := range results {
		material := r.Data.Material
		if !r.Data.HasMaterial {
			material = "-"
		}
		fmt.Fprintf(stdout, "%-24s %-4d %-16s %10d %10d %8d\n",
			displayName(r.Object), r.Geometry, material, r.Stats.Triangles, r.Stats.Vertices, r.Stats.Skipped)
	}

	if err != nil {
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "Failed geometries:\n  %v\n", err)
	}
	return nil
}

func cmdConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: objmesh convert [options] <file.obj>...")
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	c, err := mesh.NewConverter(cfg.Options(logger.Log))
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(fs.NArg()), "converting")
	written := 0
	for _, path := range fs.Args() {
		bar.Describe(filepath.Base(path))

		results, err := loadFile(c, path)
		if err != nil {
			if !cfg.Conversion.ContinueOnError {
				return err
			}
			logger.Error("skipping file", zap.String("file", path), zap.Error(err))
			_ = bar.Add(1)
			continue
		}

		for _, r := range results {
			out := filepath.Join(cfg.Output.Dir, outputName(path, r.Object, r.Geometry))
			if !cfg.Output.Overwrite {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use -f to overwrite)", out)
				}
			}
			if err := mesh.WriteFile(out, r.Data); err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}
			logger.Debug("wrote mesh",
				zap.String("file", out),
				zap.Int("vertices", r.Data.VertexCount()),
				zap.Int("triangles", r.Data.TriangleCount()))
			written++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	logger.Info("conversion finished",
		zap.Int("files", fs.NArg()),
		zap.Int("meshes", written),
		zap.String("dir", cfg.Output.Dir))
	fmt.Fprintf(stdout, "\nWrote %d meshes to %s\n", written, cfg.Output.Dir)
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	saveTo := fs.String("save-to", "", "Save to this path")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}

	switch {
	case *saveTo != "":
		if err := cfg.SaveTo(*saveTo); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Info("saved config", zap.String("path", *saveTo))
	case *save:
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Info("saved config", zap.String("dir", config.ConfigDir()))
	default:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, string(out))
	}
	return nil
}

// meshSummary is the YAML form printed by dump.
type meshSummary struct {
	File      string         `yaml:"file"`
	Material  string         `yaml:"material,omitempty"`
	Vertices  int            `yaml:"vertices"`
	Triangles int            `yaml:"triangles"`
	Bounds    [2][3]float32  `yaml:"bounds,flow"`
	Sample    []vertexSample `yaml:"sample,omitempty"`
}

type vertexSample struct {
	Position [3]float32 `yaml:"position,flow"`
	Normal   [3]float32 `yaml:"normal,flow"`
	Tangent  [4]float32 `yaml:"tangent,flow"`
	TexCoord [2]float32 `yaml:"texcoord,flow"`
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	n := fs.Int("n", 4, "Number of vertices to print")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: objmesh dump [-n count] <file.omsh>")
	}

	d, err := mesh.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(summarize(fs.Arg(0), d, *n))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, string(out))
	return nil
}

func summarize(path string, d *mesh.Data, samples int) meshSummary {
	lo, hi := d.Bounds()
	s := meshSummary{
		File:      path,
		Material:  d.Material,
		Vertices:  d.VertexCount(),
		Triangles: d.TriangleCount(),
		Bounds:    [2][3]float32{lo, hi},
	}
	for i := 0; i < samples && i < d.VertexCount(); i++ {
		s.Sample = append(s.Sample, vertexSample{
			Position: d.Positions[i],
			Normal:   d.Normals[i],
			Tangent:  d.Tangents[i],
			TexCoord: d.TexCoords[i],
		})
	}
	return s
}

// outputName builds "<source>_<object>_<geometry>.omsh" with the object
// name reduced to filename-safe characters.
func outputName(src, object string, geometry int) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, object)
	if safe == "" {
		safe = "default"
	}
	return fmt.Sprintf("%s_%s_%d.omsh", base, safe, geometry)
}

func displayName(object string) string {
	if object == "" {
		return "(unnamed)"
	}
	return object
}
