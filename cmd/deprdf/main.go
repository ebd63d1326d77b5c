// Command deprdf writes a project's resolved Maven dependency tree as RDF.
//
// The tree is read either from the JSON output of the Maven dependency plugin
// or from a rules_jvm_external lock file:
//
//	mvn dependency:tree -DoutputType=json -DoutputFile=target/dependency-tree.json
//	deprdf -maven-tree target/dependency-tree.json -format n3
//
//	deprdf -lockfile maven_install.json -module-file MODULE.bazel -format ntriples
//
// Settings can also come from a YAML file given with -config. Flags override
// values from the file. With -print text or -print dot the resolved tree is
// also printed to stdout, as mvn dependency:tree text or as Graphviz DOT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/otigges/deprdf"
	"github.com/otigges/deprdf/internal/config"
	"github.com/otigges/deprdf/rdf"
	"github.com/otigges/deprdf/tree"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("deprdf", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	format := fs.String("format", deprdf.DefaultFormat, "output format: xml, n3 or ntriples")
	outputDir := fs.String("output-dir", deprdf.DefaultOutputDir, "directory the RDF file is written to")
	mavenTree := fs.String("maven-tree", "", "JSON file from mvn dependency:tree -DoutputType=json")
	lockPath := fs.String("lockfile", "", "rules_jvm_external maven_install.json")
	moduleFile := fs.String("module-file", "", "MODULE.bazel declaring the direct artifacts (with -lockfile)")
	dev := fs.Bool("dev", false, "include dev_dependency and testonly artifacts (with -module-file)")
	group := fs.String("group", "", "project group id")
	artifactID := fs.String("artifact", "", "project artifact id")
	version := fs.String("version", "", "project version")
	verify := fs.Bool("verify", false, "re-read the written file and check the triple count")
	printAs := fs.String("print", "", "also print the resolved tree to stdout: text or dot")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	// Only flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "output-dir":
			cfg.OutputDir = *outputDir
		case "maven-tree":
			cfg.Source.MavenTree = *mavenTree
			cfg.Source.Lockfile = ""
			cfg.Source.ModuleFile = ""
		case "lockfile":
			cfg.Source.Lockfile = *lockPath
			cfg.Source.MavenTree = ""
		case "module-file":
			cfg.Source.ModuleFile = *moduleFile
		case "dev":
			cfg.Source.DevDependencies = *dev
		case "group":
			cfg.Root.Group = *group
		case "artifact":
			cfg.Root.Artifact = *artifactID
		case "version":
			cfg.Root.Version = *version
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	src := cfg.TreeSource()
	switch *printAs {
	case "":
	case "text":
		src = printingSource{TreeSource: src, w: stdout, render: tree.ToText}
	case "dot":
		src = printingSource{TreeSource: src, w: stdout, render: tree.ToDOT}
	default:
		fmt.Fprintf(stderr, "Error: -print must be text or dot, got %q\n", *printAs)
		return 2
	}

	opts := append(cfg.Options(), deprdf.WithLogger(logger))
	result, err := deprdf.Generate(ctx, src, opts...)
	if err != nil {
		var serr *deprdf.StageError
		if errors.As(err, &serr) {
			fmt.Fprintf(stderr, "Error: %s stage failed: %v\n", serr.Stage, serr.Err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	if *verify {
		if err := verifyOutput(result); err != nil {
			fmt.Fprintf(stderr, "Error: verification failed: %v\n", err)
			return 1
		}
		logger.Debug("verified output", "path", result.Path, "triples", result.Triples)
	}

	fmt.Fprintf(stdout, "%s (%d triples, %d artifacts)\n", result.Path, result.Triples, result.Stats.Nodes)
	return 0
}

// printingSource renders the tree to w as soon as it is resolved.
type printingSource struct {
	deprdf.TreeSource
	w      io.Writer
	render func(*tree.Node) (string, error)
}

func (s printingSource) Resolve(ctx context.Context) (*tree.Node, error) {
	root, err := s.TreeSource.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.render(root)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(s.w, out); err != nil {
		return nil, err
	}
	return root, nil
}

func verifyOutput(result *deprdf.Result) error {
	f, err := os.Open(result.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	triples, err := rdf.Parse(f, result.Format)
	if err != nil {
		return err
	}
	if len(triples) != result.Triples {
		return fmt.Errorf("%s holds %d triples, wrote %d", result.Path, len(triples), result.Triples)
	}
	return nil
}
