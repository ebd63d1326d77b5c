// Package config loads deprdf settings from a YAML file.
//
//	format: n3
//	output_dir: build/dependencies-rdf
//	root:
//	  group: org.example
//	  artifact: app
//	  version: 1.0.0
//	source:
//	  lockfile: maven_install.json
//	  module_file: MODULE.bazel
//
// Relative source paths in a file are resolved against the file's directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/otigges/deprdf"
	"github.com/otigges/deprdf/artifact"
	"github.com/otigges/deprdf/rdf"
)

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete run configuration.
type Config struct {
	Format    string `yaml:"format"`
	OutputDir string `yaml:"output_dir"`
	Root      Root   `yaml:"root"`
	Source    Source `yaml:"source"`
}

// Root holds the project coordinates. Fields left empty are filled from the
// source where it provides them.
type Root struct {
	Group    string `yaml:"group"`
	Artifact string `yaml:"artifact"`
	Version  string `yaml:"version"`
}

// Source selects where the dependency tree comes from. Exactly one of
// MavenTree and Lockfile must be set.
type Source struct {
	MavenTree       string `yaml:"maven_tree"`
	Lockfile        string `yaml:"lockfile"`
	ModuleFile      string `yaml:"module_file"`
	Repository      string `yaml:"repository"`
	DevDependencies bool   `yaml:"dev_dependencies"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:    deprdf.DefaultFormat,
		OutputDir: deprdf.DefaultOutputDir,
	}
}

// Load reads a configuration file. Unset keys keep their Default values.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.resolvePaths(filepath.Dir(path))
	return c, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return c, nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Source.MavenTree, &c.Source.Lockfile, &c.Source.ModuleFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := rdf.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalid)
	}

	switch {
	case c.Source.MavenTree == "" && c.Source.Lockfile == "":
		return fmt.Errorf("%w: one of source.maven_tree or source.lockfile is required", ErrInvalid)
	case c.Source.MavenTree != "" && c.Source.Lockfile != "":
		return fmt.Errorf("%w: source.maven_tree and source.lockfile are mutually exclusive", ErrInvalid)
	case c.Source.ModuleFile != "" && c.Source.Lockfile == "":
		return fmt.Errorf("%w: source.module_file requires source.lockfile", ErrInvalid)
	case c.Source.Lockfile != "" && c.Source.ModuleFile == "":
		if err := c.Coordinates().Validate(); err != nil {
			return fmt.Errorf("%w: root coordinates are required without source.module_file: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Coordinates returns the configured project coordinates.
func (c *Config) Coordinates() artifact.Coordinates {
	return artifact.Coordinates{
		Group:    c.Root.Group,
		Artifact: c.Root.Artifact,
		Version:  c.Root.Version,
	}
}

// TreeSource returns the source the configuration selects. Call Validate
// first.
func (c *Config) TreeSource() deprdf.TreeSource {
	if c.Source.MavenTree != "" {
		return deprdf.MavenTreeSource{Path: c.Source.MavenTree}
	}
	return deprdf.LockfileSource{
		Lockfile:        c.Source.Lockfile,
		ModuleFile:      c.Source.ModuleFile,
		Root:            c.Coordinates(),
		Repository:      c.Source.Repository,
		DevDependencies: c.Source.DevDependencies,
	}
}

// Options returns the Generate options for the configuration.
func (c *Config) Options() []deprdf.Option {
	return []deprdf.Option{
		deprdf.WithFormat(c.Format),
		deprdf.WithOutputDir(c.OutputDir),
	}
}
