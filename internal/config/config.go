// Package config handles objmesh configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

// Config holds all settings.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConversionConfig holds the mesh conversion settings.
type ConversionConfig struct {
	Tangents        string `yaml:"tangents"` // "mikktspace" or "direct"
	SeparateWinding bool   `yaml:"separate_winding"`
	StrictTangents  bool   `yaml:"strict_tangents"`
	Workers         int    `yaml:"workers"` // 0 = one per CPU
	ContinueOnError bool   `yaml:"continue_on_error"`
}

// OutputConfig holds where converted meshes are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Overwrite bool   `yaml:"overwrite"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			Tangents:        string(mesh.TangentsMikk),
			SeparateWinding: true,
			StrictTangents:  true,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	switch mesh.TangentMode(c.Conversion.Tangents) {
	case mesh.TangentsMikk, mesh.TangentsDirect:
	default:
		return fmt.Errorf("conversion.tangents: unknown mode %q", c.Conversion.Tangents)
	}
	if c.Conversion.Workers < 0 {
		return fmt.Errorf("conversion.workers: must not be negative, got %d", c.Conversion.Workers)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir: must not be empty")
	}
	return nil
}

// Options maps the conversion settings to mesh options.
func (c *Config) Options(log *zap.Logger) mesh.Options {
	return mesh.Options{
		Tangents:        mesh.TangentMode(c.Conversion.Tangents),
		StrictTangents:  c.Conversion.StrictTangents,
		SeparateWinding: c.Conversion.SeparateWinding,
		Workers:         c.Conversion.Workers,
		ContinueOnError: c.Conversion.ContinueOnError,
		Logger:          log,
	}
}
