package deprdf

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/otigges/deprdf/rdf"
)

const (
	// DefaultFormat is used when WithFormat is not given.
	DefaultFormat = "xml"

	// DefaultOutputDir mirrors ${project.build.directory}/dependencies-rdf.
	DefaultOutputDir = "target/dependencies-rdf"
)

// Option configures Generate.
type Option func(*config) error

type config struct {
	formatName  string
	format      rdf.Format
	outputDir   string
	keepPartial bool

	// logger is nil when logging is disabled.
	logger *slog.Logger
}

// WithFormat selects the output syntax by name: "xml", "n3" or "ntriples".
// An unknown name makes Generate fail with ErrConfiguration.
func WithFormat(name string) Option {
	return func(c *config) error {
		c.formatName = name
		return nil
	}
}

// WithOutputDir sets the directory the RDF file is written to. It is created
// if absent.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.New("output directory must not be empty")
		}
		c.outputDir = dir
		return nil
	}
}

// WithLogger sets a structured logger. If not set, logging is disabled.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	deprdf.Generate(ctx, src, deprdf.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithKeepPartial keeps a partially written file when writing fails.
// By default it is removed.
func WithKeepPartial(keep bool) Option {
	return func(c *config) error {
		c.keepPartial = keep
		return nil
	}
}

func (c *config) validate() error {
	f, err := rdf.ParseFormat(c.formatName)
	if err != nil {
		return err
	}
	c.format = f
	return nil
}

func (c *config) outputPath() string {
	return filepath.Join(c.outputDir, OutputFileName(c.format))
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		formatName: DefaultFormat,
		outputDir:  DefaultOutputDir,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}
