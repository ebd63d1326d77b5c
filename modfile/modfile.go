// Package modfile reads the parts of a MODULE.bazel file that describe a
// project's Maven dependencies: the module() declaration and the tags of the
// rules_jvm_external "maven" extension.
//
// Only the statically visible shape is understood:
//
//	module(name = "app", version = "1.0.0")
//	maven = use_extension("@rules_jvm_external//:extensions.bzl", "maven")
//	maven.install(artifacts = ["com.google.guava:guava:32.1.2-jre"])
//	maven.artifact(group = "junit", artifact = "junit", version = "4.13.2")
//
// Anything else is skipped; unusable tags are reported as warnings.
package modfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/bazelbuild/buildtools/build"

	"github.com/otigges/deprdf/internal/buildutil"
)

// DefaultRepository is the repository name maven.install uses without name=.
const DefaultRepository = "maven"

const (
	extensionFile = "rules_jvm_external//:extensions.bzl"
	extensionName = "maven"
)

// Position represents a location in a source file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// ParseError represents a parsing problem with position information.
type ParseError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// File is the Maven-relevant content of a MODULE.bazel file.
type File struct {
	Path      string
	Module    *Module
	Artifacts []Artifact
	Warnings  []*ParseError
}

// Module is the module() declaration.
type Module struct {
	Pos     Position
	Name    string
	Version string
}

// Artifact is one declared Maven artifact.
type Artifact struct {
	Pos Position
	// Coordinates in rules_jvm_external form:
	// group:artifact[:packaging[:classifier]]:version.
	Coordinates string
	// Repository is the name of the maven.install repository the artifact
	// belongs to.
	Repository    string
	DevDependency bool
}

// ParseFile reads and parses a MODULE.bazel file from disk.
func ParseFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return Parse(filename, data)
}

// Parse parses MODULE.bazel content. Only Starlark syntax errors fail;
// malformed tags become warnings.
func Parse(filename string, content []byte) (*File, error) {
	raw, err := build.ParseModule(filename, content)
	if err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: filename},
			Message: fmt.Sprintf("syntax error: %v", err),
			Wrapped: err,
		}
	}

	p := &parser{
		file:    &File{Path: filename},
		proxies: make(map[string]bool),
	}
	for _, stmt := range raw.Stmt {
		p.statement(stmt)
	}
	return p.file, nil
}

// Direct returns the coordinates declared for repository, in declaration
// order. Dev dependencies are included only if dev is true.
func (f *File) Direct(repository string, dev bool) []string {
	var coords []string
	for _, a := range f.Artifacts {
		if a.Repository != repository || (a.DevDependency && !dev) {
			continue
		}
		coords = append(coords, a.Coordinates)
	}
	return coords
}

type parser struct {
	file *File
	// proxies maps extension proxy identifiers to their dev_dependency flag.
	proxies map[string]bool
}

func (p *parser) statement(expr build.Expr) {
	if assign, ok := expr.(*build.AssignExpr); ok {
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok {
			return
		}
		if call, ok := assign.RHS.(*build.CallExpr); ok && buildutil.FuncName(call) == "use_extension" {
			p.useExtension(lhs.Name, call)
		}
		return
	}

	call, ok := expr.(*build.CallExpr)
	if !ok {
		return
	}
	if buildutil.FuncName(call) == "module" {
		p.module(call)
		return
	}
	proxy, tag, ok := buildutil.TagCall(call)
	if !ok {
		return
	}
	dev, known := p.proxies[proxy]
	if !known {
		return
	}
	switch tag {
	case "install":
		p.install(call, dev)
	case "artifact":
		p.artifact(call, dev)
	}
}

func (p *parser) useExtension(ident string, call *build.CallExpr) {
	file := buildutil.String(call, "")
	if file == "" {
		file = buildutil.String(call, "extension_bzl_file")
	}
	name := buildutil.String(call, "extension_name")
	if name == "" && len(call.List) > 1 {
		if s, ok := call.List[1].(*build.StringExpr); ok {
			name = s.Value
		}
	}
	if !strings.HasSuffix(file, extensionFile) || name != extensionName {
		return
	}
	p.proxies[ident] = buildutil.Bool(call, "dev_dependency")
}

func (p *parser) module(call *build.CallExpr) {
	if p.file.Module != nil {
		p.warn(call, "module() declared more than once")
		return
	}
	p.file.Module = &Module{
		Pos:     p.position(call),
		Name:    buildutil.String(call, "name"),
		Version: buildutil.String(call, "version"),
	}
}

func (p *parser) install(call *build.CallExpr, dev bool) {
	repo := repository(call)
	pos := p.position(call)
	for _, coords := range buildutil.StringList(call, "artifacts") {
		p.file.Artifacts = append(p.file.Artifacts, Artifact{
			Pos:           pos,
			Coordinates:   coords,
			Repository:    repo,
			DevDependency: dev,
		})
	}
}

func (p *parser) artifact(call *build.CallExpr, dev bool) {
	group := buildutil.String(call, "group")
	name := buildutil.String(call, "artifact")
	version := buildutil.String(call, "version")
	if group == "" || name == "" || version == "" {
		p.warn(call, "maven.artifact: group, artifact and version are required")
		return
	}

	parts := []string{group, name}
	packaging := buildutil.String(call, "packaging")
	classifier := buildutil.String(call, "classifier")
	if classifier != "" && packaging == "" {
		packaging = "jar"
	}
	if packaging != "" {
		parts = append(parts, packaging)
	}
	if classifier != "" {
		parts = append(parts, classifier)
	}
	parts = append(parts, version)

	p.file.Artifacts = append(p.file.Artifacts, Artifact{
		Pos:           p.position(call),
		Coordinates:   strings.Join(parts, ":"),
		Repository:    repository(call),
		DevDependency: dev || buildutil.Bool(call, "testonly"),
	})
}

func repository(call *build.CallExpr) string {
	if name := buildutil.String(call, "name"); name != "" {
		return name
	}
	return DefaultRepository
}

func (p *parser) warn(expr build.Expr, msg string) {
	p.file.Warnings = append(p.file.Warnings, &ParseError{Pos: p.position(expr), Message: msg})
}

func (p *parser) position(expr build.Expr) Position {
	start, _ := expr.Span()
	return Position{
		Filename: p.file.Path,
		Line:     start.Line,
		Column:   start.LineRune,
	}
}
