package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/otigges/deprdf"
	"github.com/otigges/deprdf/artifact"
	"github.com/otigges/deprdf/rdf"
	"github.com/otigges/deprdf/tree"
)

// The same project described three ways: built in code, as Maven plugin
// output and as a rules_jvm_external lock file.

const mavenTree = `{
  "groupId": "org.example", "artifactId": "app", "version": "1.0.0", "type": "jar",
  "children": [
    {"groupId": "com.google.guava", "artifactId": "guava", "version": "32.1.2-jre", "scope": "compile",
     "children": [
       {"groupId": "com.google.guava", "artifactId": "failureaccess", "version": "1.0.1", "scope": "compile"},
       {"groupId": "com.google.code.findbugs", "artifactId": "jsr305", "version": "3.0.2", "scope": "compile"}
     ]},
    {"groupId": "junit", "artifactId": "junit", "version": "4.13.2", "scope": "test",
     "children": [
       {"groupId": "org.hamcrest", "artifactId": "hamcrest-core", "version": "1.3", "scope": "test"}
     ]}
  ]
}`

const lockFile = `{
  "artifacts": {
    "com.google.code.findbugs:jsr305": {"shasums": {"jar": "766ad2a0"}, "version": "3.0.2"},
    "com.google.guava:failureaccess": {"shasums": {"jar": "a171ee4c"}, "version": "1.0.1"},
    "com.google.guava:guava": {"shasums": {"jar": "bc65dea7"}, "version": "32.1.2-jre"},
    "junit:junit": {"shasums": {"jar": "8e495b63"}, "version": "4.13.2"},
    "org.hamcrest:hamcrest-core": {"shasums": {"jar": "66fdef91"}, "version": "1.3"}
  },
  "dependencies": {
    "com.google.guava:guava": ["com.google.guava:failureaccess", "com.google.code.findbugs:jsr305"],
    "junit:junit": ["org.hamcrest:hamcrest-core"]
  },
  "repositories": {
    "https://repo1.maven.org/maven2/": ["com.google.guava:guava", "junit:junit"]
  },
  "version": "2"
}`

const moduleFile = `module(name = "app", version = "1.0.0")

bazel_dep(name = "rules_jvm_external", version = "6.3")

maven = use_extension("@rules_jvm_external//:extensions.bzl", "maven")
maven.install(
    artifacts = ["com.google.guava:guava:32.1.2-jre"],
)
maven.artifact(group = "junit", artifact = "junit", version = "4.13.2", testonly = True)
use_repo(maven, "maven")
`

func staticTree() *tree.Node {
	return tree.New(artifact.MustParse("org.example:app:1.0.0"),
		tree.New(artifact.MustParse("com.google.guava:guava:32.1.2-jre"),
			tree.New(artifact.MustParse("com.google.guava:failureaccess:1.0.1")),
			tree.New(artifact.MustParse("com.google.code.findbugs:jsr305:3.0.2")),
		),
		tree.New(artifact.MustParse("junit:junit:4.13.2"),
			tree.New(artifact.MustParse("org.hamcrest:hamcrest-core:1.3")),
		),
	)
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"dependency-tree.json": mavenTree,
		"maven_install.json":   lockFile,
		"MODULE.bazel":         moduleFile,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readOutput(t *testing.T, result *deprdf.Result) []rdf.Triple {
	t.Helper()
	f, err := os.Open(result.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	triples, err := rdf.Parse(f, result.Format)
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", result.Path, err)
	}
	return triples
}

func TestE2E_SourcesAgree(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	dir := writeFixtures(t)
	sources := map[string]deprdf.TreeSource{
		"static": deprdf.StaticSource{Root: staticTree()},
		"maven":  deprdf.MavenTreeSource{Path: filepath.Join(dir, "dependency-tree.json")},
		"lockfile": deprdf.LockfileSource{
			Lockfile:        filepath.Join(dir, "maven_install.json"),
			ModuleFile:      filepath.Join(dir, "MODULE.bazel"),
			Root:            artifact.Coordinates{Group: "org.example"},
			DevDependencies: true,
		},
	}

	want, err := tree.Collect(staticTree())
	if err != nil {
		t.Fatal(err)
	}
	sortTriples := cmpopts.SortSlices(func(a, b rdf.Triple) bool { return a.String() < b.String() })

	for _, f := range rdf.Formats() {
		for name, src := range sources {
			t.Run(f.String()+"/"+name, func(t *testing.T) {
				result, err := deprdf.Generate(context.Background(), src,
					deprdf.WithFormat(f.String()),
					deprdf.WithOutputDir(filepath.Join(t.TempDir(), "rdf")),
				)
				if err != nil {
					t.Fatalf("Generate error: %v", err)
				}
				if result.Triples != len(want) {
					t.Errorf("Triples = %d, want %d", result.Triples, len(want))
				}
				if diff := cmp.Diff(want, readOutput(t, result), sortTriples); diff != "" {
					t.Errorf("triples mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

// TestE2E_CLI builds the command and runs it against the fixtures.
func TestE2E_CLI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bin := filepath.Join(t.TempDir(), "deprdf")
	build := exec.CommandContext(ctx, goBin, "build", "-o", bin, "github.com/otigges/deprdf/cmd/deprdf")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}

	dir := writeFixtures(t)
	outDir := filepath.Join(dir, "target", "dependencies-rdf")
	cmd := exec.CommandContext(ctx, bin,
		"-lockfile", "maven_install.json",
		"-module-file", "MODULE.bazel",
		"-group", "org.example",
		"-format", "n3",
		"-verify",
	)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("deprdf failed: %v\n%s", err, out)
	}
	// testonly junit is left out without -dev.
	if !strings.Contains(string(out), "(3 triples, 4 artifacts)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "dependencies.rdf.n3")); err != nil {
		t.Errorf("output missing: %v", err)
	}

	bad := exec.CommandContext(ctx, bin, "-maven-tree", "dependency-tree.json", "-format", "turtle")
	bad.Dir = dir
	if out, err := bad.CombinedOutput(); err == nil {
		t.Errorf("unsupported format should fail:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "dependencies.rdf.turtle")); !os.IsNotExist(err) {
		t.Error("unsupported format created an output file")
	}
}
