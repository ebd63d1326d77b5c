// Package deprdf exports a project's resolved Maven dependency tree as an
// RDF graph.
//
// Every artifact becomes the resource
//
//	http://arastreju.org/maven-artifact/{group}:{artifact}:{version}
//
// and every edge of the tree becomes one triple
//
//	<parent> <http://arastreju.org/depends-on> <child> .
//
// The graph is written as RDF/XML, N3 or N-Triples to
// {output dir}/dependencies.rdf.{format}.
//
// # Quick Start
//
//	src := deprdf.MavenTreeSource{Path: "target/dependency-tree.json"}
//	result, err := deprdf.Generate(ctx, src,
//	    deprdf.WithFormat("n3"),
//	    deprdf.WithOutputDir("target/dependencies-rdf"),
//	)
//
// # Tree Sources
//
// A TreeSource supplies the resolved tree. StaticSource wraps a tree built in
// code, MavenTreeSource reads the JSON output of the Maven dependency plugin,
// and LockfileSource reads a rules_jvm_external maven_install.json together
// with the MODULE.bazel that declares the direct artifacts.
//
// # Errors
//
// Generate returns a *StageError. errors.Is matches ErrConfiguration,
// ErrResolution or ErrWrite for the failing stage, as well as the cause.
package deprdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/otigges/deprdf/rdf"
	"github.com/otigges/deprdf/tree"
)

// Result describes a generated RDF file.
type Result struct {
	Path    string
	Format  rdf.Format
	Triples int
	Stats   tree.Stats
}

// OutputFileName returns the file name used for format f.
func OutputFileName(f rdf.Format) string {
	return "dependencies.rdf." + f.String()
}

// Generate resolves the dependency tree from src and writes it as RDF.
//
// Options are validated before anything else happens, and the tree is
// resolved and checked before the output file is created, so configuration
// and resolution failures leave the file system untouched. If writing fails
// the partial file is removed unless WithKeepPartial(true) is given.
func Generate(ctx context.Context, src TreeSource, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, stageError(StageConfiguration, err)
	}
	if src == nil {
		return nil, stageError(StageConfiguration, errors.New("no tree source"))
	}
	logger := cfg.log()

	if err := ctx.Err(); err != nil {
		return nil, stageError(StageResolution, err)
	}
	root, err := src.Resolve(ctx)
	if err != nil {
		return nil, stageError(StageResolution, err)
	}
	stats, err := tree.Compute(root)
	if err != nil {
		return nil, stageError(StageResolution, err)
	}
	logger.Debug("resolved dependency tree",
		"nodes", stats.Nodes,
		"direct", stats.DirectDependencies,
		"transitive", stats.TransitiveDependencies,
		"max_depth", stats.MaxDepth)

	if err := ctx.Err(); err != nil {
		return nil, stageError(StageWrite, err)
	}
	if err := os.MkdirAll(cfg.outputDir, 0o755); err != nil {
		return nil, stageError(StageWrite, fmt.Errorf("create output directory: %w", err))
	}

	path := cfg.outputPath()
	n, err := writeFile(path, root, cfg.format, cfg.keepPartial)
	if err != nil {
		return nil, stageError(StageWrite, err)
	}

	logger.Info("wrote dependency RDF", "path", path, "format", cfg.format.String(), "triples", n)
	return &Result{
		Path:    path,
		Format:  cfg.format,
		Triples: n,
		Stats:   stats,
	}, nil
}

// writeFile creates path and exports root into it. If the export fails the
// file is removed unless keepPartial is set.
func writeFile(path string, root *tree.Node, f rdf.Format, keepPartial bool) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := Export(file, root, f)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close %s: %w", path, cerr)
	}
	if err != nil && !keepPartial {
		if rmErr := os.Remove(path); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}
	return n, err
}

// Export walks the tree rooted at root and serializes its triples to w in
// format f. It returns the number of triples written. w is not closed.
func Export(w io.Writer, root *tree.Node, f rdf.Format) (int, error) {
	rw, err := rdf.NewWriter(w, f)
	if err != nil {
		return 0, err
	}
	if err := rw.Start(); err != nil {
		return 0, err
	}
	n := 0
	err = tree.Walk(root, func(t rdf.Triple) error {
		if err := rw.Write(t); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	if err := rw.End(); err != nil {
		return n, err
	}
	return n, nil
}
