package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Conversion.Tangents != "mikktspace" {
		t.Errorf("expected tangents 'mikktspace', got %s", cfg.Conversion.Tangents)
	}
	if !cfg.Conversion.SeparateWinding {
		t.Error("expected separate_winding to be true by default")
	}
	if !cfg.Conversion.StrictTangents {
		t.Error("expected strict_tangents to be true by default")
	}
	if cfg.Conversion.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Conversion.Workers)
	}
	if cfg.Output.Dir != "." {
		t.Errorf("expected output dir '.', got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objmesh.yaml")

	yamlContent := `
conversion:
  tangents: direct
  separate_winding: false
  strict_tangents: false
  workers: 4
  continue_on_error: true

output:
  dir: "out/meshes"
  overwrite: true

logging:
  level: "debug"
  log_file: "objmesh.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Conversion.Tangents != "direct" {
		t.Errorf("expected tangents 'direct', got %s", cfg.Conversion.Tangents)
	}
	if cfg.Conversion.SeparateWinding {
		t.Error("expected separate_winding to be false")
	}
	if cfg.Conversion.StrictTangents {
		t.Error("expected strict_tangents to be false")
	}
	if cfg.Conversion.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Conversion.Workers)
	}
	if !cfg.Conversion.ContinueOnError {
		t.Error("expected continue_on_error to be true")
	}
	if cfg.Output.Dir != "out/meshes" {
		t.Errorf("expected output dir 'out/meshes', got %s", cfg.Output.Dir)
	}
	if !cfg.Output.Overwrite {
		t.Error("expected overwrite to be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "objmesh.log" {
		t.Errorf("expected log file 'objmesh.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
conversion:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"direct tangents", func(c *Config) { c.Conversion.Tangents = "direct" }, false},
		{"unknown tangents", func(c *Config) { c.Conversion.Tangents = "bogus" }, true},
		{"negative workers", func(c *Config) { c.Conversion.Workers = -1 }, true},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Conversion.Tangents = "direct"
	cfg.Conversion.Workers = 3
	cfg.Conversion.SeparateWinding = false
	cfg.Conversion.StrictTangents = true
	cfg.Conversion.ContinueOnError = true

	log := zap.NewNop()
	opts := cfg.Options(log)

	if opts.Tangents != mesh.TangentsDirect {
		t.Errorf("expected direct tangents, got %s", opts.Tangents)
	}
	if opts.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", opts.Workers)
	}
	if opts.SeparateWinding {
		t.Error("expected separate winding off")
	}
	if !opts.StrictTangents || !opts.ContinueOnError {
		t.Error("expected strict tangents and continue on error")
	}
	if opts.Logger != log {
		t.Error("logger not passed through")
	}
	if _, err := mesh.NewConverter(opts); err != nil {
		t.Errorf("options rejected by converter: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "objmesh.yaml")
	if err := os.WriteFile(configPath, []byte("conversion:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find objmesh.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "tangents and workers",
			args: []string{"-tangents", "direct", "-workers", "8"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Conversion.Tangents != "direct" {
					t.Errorf("expected tangents 'direct', got %s", cfg.Conversion.Tangents)
				}
				if cfg.Conversion.Workers != 8 {
					t.Errorf("expected workers 8, got %d", cfg.Conversion.Workers)
				}
			},
		},
		{
			name: "conversion switches",
			args: []string{"-no-winding", "-lenient", "-continue"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Conversion.SeparateWinding {
					t.Error("expected separate_winding to be false with -no-winding")
				}
				if cfg.Conversion.StrictTangents {
					t.Error("expected strict_tangents off with -lenient")
				}
				if !cfg.Conversion.ContinueOnError {
					t.Error("expected continue_on_error with -continue")
				}
			},
		},
		{
			name: "output flags",
			args: []string{"-o", "build", "-f", "-log-file", "run.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Dir != "build" {
					t.Errorf("expected output dir 'build', got %s", cfg.Output.Dir)
				}
				if !cfg.Output.Overwrite {
					t.Error("expected overwrite with -f")
				}
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file 'run.log', got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				def := Default()
				if *cfg != *def {
					t.Errorf("expected defaults, got %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parsing flags: %v", err)
			}

			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objmesh.yaml")

	yamlContent := `
conversion:
  workers: 2
  tangents: direct
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-workers", "6"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers from flag (6), not file (2)
	if cfg.Conversion.Workers != 6 {
		t.Errorf("expected workers 6 from flag, got %d", cfg.Conversion.Workers)
	}
	// Tangents from file since no flag override
	if cfg.Conversion.Tangents != "direct" {
		t.Errorf("expected tangents 'direct' from file, got %s", cfg.Conversion.Tangents)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "none.yaml")}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Error("expected error for missing explicit config file")
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	f = RegisterFlags(fs)
	configPath := filepath.Join(t.TempDir(), "objmesh.yaml")
	if err := os.WriteFile(configPath, []byte("conversion:\n  tangents: bogus\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Error("expected validation error for unknown tangent mode")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Conversion.Workers = 5
	cfg.Output.Dir = "meshes"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("saved config differs: got %+v, want %+v", loaded, cfg)
	}
}
