package config

import "flag"

// Flags holds the command-line overrides shared by the objmesh subcommands.
type Flags struct {
	Config    *string
	Debug     *bool
	LogFile   *string
	Tangents  *string
	Workers   *int
	NoWinding *bool
	Lenient   *bool
	Continue  *bool
	OutputDir *string
	Overwrite *bool
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:    fs.String("config", "", "Path to config file"),
		Debug:     fs.Bool("debug", false, "Enable debug logging"),
		LogFile:   fs.String("log-file", "", "Also write logs to this file"),
		Tangents:  fs.String("tangents", "", "Tangent strategy: mikktspace or direct"),
		Workers:   fs.Int("workers", 0, "Geometries converted in parallel (0 = config)"),
		NoWinding: fs.Bool("no-winding", false, "Let oppositely wound triangles share vertices"),
		Lenient:   fs.Bool("lenient", false, "Use default tangents where the UV mapping is unusable"),
		Continue:  fs.Bool("continue", false, "Skip failed geometries instead of aborting"),
		OutputDir: fs.String("o", "", "Output directory"),
		Overwrite: fs.Bool("f", false, "Overwrite existing output files"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if *f.LogFile != "" {
		cfg.Logging.LogFile = *f.LogFile
	}
	if *f.Tangents != "" {
		cfg.Conversion.Tangents = *f.Tangents
	}
	if *f.Workers > 0 {
		cfg.Conversion.Workers = *f.Workers
	}
	if *f.NoWinding {
		cfg.Conversion.SeparateWinding = false
	}
	if *f.Lenient {
		cfg.Conversion.StrictTangents = false
	}
	if *f.Continue {
		cfg.Conversion.ContinueOnError = true
	}
	if *f.OutputDir != "" {
		cfg.Output.Dir = *f.OutputDir
	}
	if *f.Overwrite {
		cfg.Output.Overwrite = true
	}
}
