// internal/config/config.go
//
// This package handles configuration and the .examforge directory.
// Every project directory examforge runs in gets a .examforge/ folder holding
// config.yaml and the assembly logbook.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/examforge/internal/materialize"
	"github.com/kingrea/examforge/internal/scaffold"
	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".examforge"

	// LibraryEnv overrides the library path from config.yaml.
	LibraryEnv = "EXAMFORGE_LIBRARY"

	defaultLibrary = "../lib"
	defaultOutput  = "exercice"
)

const defaultProjectConfigYAML = `# examforge project configuration
version: 1

# Content library: <library>/<exam>/<level>/<exercise>/
# Relative paths resolve against the project directory.
library: ../lib

# Generated exams are written to <output>/<exam>/<level>/<exercise>/
output: exercice

# External tool that creates an empty project named {name} in its working directory.
generator:
  command: cargo
  args: [new, --bin, "{name}"]

# Template files copied from each exercise. source: true places the file in src/.
templates:
  - name: main.rs
    source: true
  - name: lib.rs
    source: true
  - name: README.md
  - name: Cargo.toml
`

// GeneratorConfig describes the external project generator.
type GeneratorConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// TemplateRef names one template file copied from exercises.
type TemplateRef struct {
	Name   string `yaml:"name"`
	Source bool   `yaml:"source,omitempty"`
}

// ProjectConfig models .examforge/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Library   string          `yaml:"library"`
	Output    string          `yaml:"output"`
	Generator GeneratorConfig `yaml:"generator"`
	Templates []TemplateRef   `yaml:"templates"`
}

// Config holds the runtime configuration for examforge.
type Config struct {
	// ProjectDir is the directory examforge was run from (or --project)
	ProjectDir string

	// ConfigDir is ProjectDir/.examforge
	ConfigDir string

	Project ProjectConfig
}

// InitDir creates the .examforge directory structure in projectDir.
//
// Structure created:
// .examforge/
// ├── config.yaml
// └── logs/         <- assembly logbook
func InitDir(projectDir string) error {
	dir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}
	return ensureProjectConfig(filepath.Join(dir, "config.yaml"))
}

// NewConfig loads .examforge/config.yaml from projectDir, applies the
// environment override and validates the result. A missing file yields the
// defaults.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}
	cfg := &Config{
		ProjectDir: abs,
		ConfigDir:  filepath.Join(abs, Dir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if lib := strings.TrimSpace(os.Getenv(LibraryEnv)); lib != "" {
		cfg.Project.Library = lib
	}
	cfg.Project.normalize(cfg.ProjectDir)
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Override replaces the library and output paths when non-empty. Relative
// values resolve against the project directory.
func (c *Config) Override(library, output string) error {
	if v := strings.TrimSpace(library); v != "" {
		c.Project.Library = resolvePath(c.ProjectDir, v)
	}
	if v := strings.TrimSpace(output); v != "" {
		c.Project.Output = resolvePath(c.ProjectDir, v)
	}
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LibraryDir returns the absolute library root.
func (c *Config) LibraryDir() string {
	return c.Project.Library
}

// WorkDir returns the absolute directory exams are generated into.
func (c *Config) WorkDir() string {
	return c.Project.Output
}

// ConfigPath returns the on-disk location for the project config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, "config.yaml")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.ConfigDir, "logs")
}

// LogPath returns the assembly logbook file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "assembly.log")
}

// Generator returns the configured generator command.
func (c *Config) Generator() GeneratorConfig {
	return GeneratorConfig{
		Command: c.Project.Generator.Command,
		Args:    append([]string(nil), c.Project.Generator.Args...),
	}
}

// Templates returns the configured template files.
func (c *Config) Templates() []TemplateRef {
	return append([]TemplateRef(nil), c.Project.Templates...)
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	gen := scaffold.NewCargoGenerator()
	defaults := materialize.DefaultTemplates()
	templates := make([]TemplateRef, 0, len(defaults))
	for _, tpl := range defaults {
		templates = append(templates, TemplateRef{Name: tpl.Name, Source: tpl.InSource})
	}
	return ProjectConfig{
		Version:   1,
		Library:   defaultLibrary,
		Output:    defaultOutput,
		Generator: GeneratorConfig{Command: gen.Command, Args: gen.Args},
		Templates: templates,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if strings.TrimSpace(pc.Library) == "" {
		pc.Library = defaults.Library
	}
	if strings.TrimSpace(pc.Output) == "" {
		pc.Output = defaults.Output
	}
	if strings.TrimSpace(pc.Generator.Command) == "" && len(pc.Generator.Args) == 0 {
		pc.Generator = defaults.Generator
	}
	if pc.Templates == nil {
		pc.Templates = defaults.Templates
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Library = resolvePath(base, pc.Library)
	pc.Output = resolvePath(base, pc.Output)
	pc.Generator.Command = strings.TrimSpace(pc.Generator.Command)
	for i := range pc.Templates {
		pc.Templates[i].Name = strings.TrimSpace(pc.Templates[i].Name)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Generator.Command == "" {
		return fmt.Errorf("generator.command is required")
	}
	if !hasPlaceholder(pc.Generator.Args) {
		return fmt.Errorf("generator.args must contain %s", scaffold.NamePlaceholder)
	}
	if len(pc.Templates) == 0 {
		return fmt.Errorf("templates must list at least one file")
	}
	seen := make(map[string]struct{}, len(pc.Templates))
	for i, tpl := range pc.Templates {
		if tpl.Name == "" {
			return fmt.Errorf("templates[%d]: name is required", i)
		}
		if tpl.Name != filepath.Base(tpl.Name) || tpl.Name == "." || tpl.Name == ".." {
			return fmt.Errorf("templates[%d]: %q must be a plain file name", i, tpl.Name)
		}
		if _, dup := seen[tpl.Name]; dup {
			return fmt.Errorf("templates[%d]: duplicate %q", i, tpl.Name)
		}
		seen[tpl.Name] = struct{}{}
	}
	if within(pc.Library, pc.Output) || within(pc.Output, pc.Library) {
		return fmt.Errorf("library and output must be different directories, neither inside the other (library %s, output %s)", pc.Library, pc.Output)
	}
	return nil
}

// within reports whether path is base or lies below it.
func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func hasPlaceholder(args []string) bool {
	for _, arg := range args {
		if strings.Contains(arg, scaffold.NamePlaceholder) {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
