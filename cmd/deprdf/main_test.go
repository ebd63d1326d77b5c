package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const treeJSON = `{
  "groupId": "org.example", "artifactId": "app", "version": "1.0.0",
  "children": [
    {"groupId": "org.slf4j", "artifactId": "slf4j-api", "version": "2.0.9"},
    {"groupId": "com.google.guava", "artifactId": "guava", "version": "32.1.2-jre",
     "children": [{"groupId": "com.google.guava", "artifactId": "failureaccess", "version": "1.0.1"}]}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_MavenTree(t *testing.T) {
	dir := t.TempDir()
	tree := writeFile(t, dir, "tree.json", treeJSON)
	out := filepath.Join(dir, "out")

	for _, format := range []string{"xml", "n3", "ntriples"} {
		t.Run(format, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(t.Context(), []string{
				"-maven-tree", tree,
				"-format", format,
				"-output-dir", out,
				"-verify",
			}, &stdout, &stderr)
			if code != 0 {
				t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
			}

			path := filepath.Join(out, "dependencies.rdf."+format)
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("output missing: %v", err)
			}
			if want := path + " (3 triples, 4 artifacts)\n"; stdout.String() != want {
				t.Errorf("stdout = %q, want %q", stdout.String(), want)
			}
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree.json", treeJSON)
	cfg := writeFile(t, dir, "deprdf.yaml", "format: n3\noutput_dir: "+filepath.Join(dir, "rdf")+"\nsource:\n  maven_tree: tree.json\n")

	var stdout, stderr bytes.Buffer
	if code := run(t.Context(), []string{"-config", cfg}, &stdout, &stderr); code != 0 {
		t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "rdf", "dependencies.rdf.n3")); err != nil {
		t.Errorf("output missing: %v", err)
	}

	// A flag overrides the file.
	stdout.Reset()
	if code := run(t.Context(), []string{"-config", cfg, "-format", "ntriples"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "rdf", "dependencies.rdf.ntriples")); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRun_MavenTreeOverridesConfigLockfile(t *testing.T) {
	dir := t.TempDir()
	tree := writeFile(t, dir, "tree.json", treeJSON)
	cfg := writeFile(t, dir, "deprdf.yaml",
		"output_dir: "+filepath.Join(dir, "rdf")+"\nsource:\n  lockfile: maven_install.json\n  module_file: MODULE.bazel\n")

	var stdout, stderr bytes.Buffer
	if code := run(t.Context(), []string{"-config", cfg, "-maven-tree", tree}, &stdout, &stderr); code != 0 {
		t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "(3 triples, 4 artifacts)") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_Lockfile(t *testing.T) {
	dir := t.TempDir()
	lock := writeFile(t, dir, "maven_install.json", `{
  "artifacts": {
    "com.google.guava:guava": {"version": "32.1.2-jre"},
    "com.google.guava:failureaccess": {"version": "1.0.1"}
  },
  "dependencies": {"com.google.guava:guava": ["com.google.guava:failureaccess"]},
  "version": "2"
}`)

	var stdout, stderr bytes.Buffer
	code := run(t.Context(), []string{
		"-lockfile", lock,
		"-group", "org.example", "-artifact", "app", "-version", "1.0.0",
		"-output-dir", filepath.Join(dir, "out"),
		"-v",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "(2 triples, 3 artifacts)") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "level=DEBUG") {
		t.Errorf("-v should enable debug logging, stderr:\n%s", stderr.String())
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	tree := writeFile(t, dir, "tree.json", treeJSON)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "unsupported format",
			args:     []string{"-maven-tree", tree, "-format", "turtle", "-output-dir", filepath.Join(dir, "a")},
			wantCode: 1,
			wantErr:  "turtle",
		},
		{
			name:     "no source",
			args:     []string{"-output-dir", filepath.Join(dir, "b")},
			wantCode: 1,
			wantErr:  "source.maven_tree",
		},
		{
			name:     "missing tree file",
			args:     []string{"-maven-tree", filepath.Join(dir, "missing.json"), "-output-dir", filepath.Join(dir, "c")},
			wantCode: 1,
			wantErr:  "resolution stage failed",
		},
		{
			name:     "unknown flag",
			args:     []string{"-nope"},
			wantCode: 2,
		},
		{
			name:     "positional argument",
			args:     []string{"-maven-tree", tree, "extra"},
			wantCode: 2,
			wantErr:  "unexpected arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(t.Context(), tt.args, &stdout, &stderr); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr.String())
			}
		})
	}

	for _, sub := range []string{"a", "b", "c"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); !os.IsNotExist(err) {
			t.Errorf("output directory %s created on failure", sub)
		}
	}
}

func TestRun_Print(t *testing.T) {
	dir := t.TempDir()
	tree := writeFile(t, dir, "tree.json", treeJSON)

	var stdout, stderr bytes.Buffer
	code := run(t.Context(), []string{
		"-maven-tree", tree,
		"-output-dir", filepath.Join(dir, "out"),
		"-print", "text",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	want := `org.example:app:1.0.0
+- org.slf4j:slf4j-api:2.0.9
\- com.google.guava:guava:32.1.2-jre
   \- com.google.guava:failureaccess:1.0.1
`
	if !strings.HasPrefix(stdout.String(), want) {
		t.Errorf("stdout = %q, want prefix %q", stdout.String(), want)
	}

	stdout.Reset()
	code = run(t.Context(), []string{"-maven-tree", tree, "-output-dir", filepath.Join(dir, "out"), "-print", "dot"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "digraph dependencies {") {
		t.Errorf("stdout = %q, want DOT output", stdout.String())
	}

	if code := run(t.Context(), []string{"-maven-tree", tree, "-print", "svg"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code for -print svg = %d, want 2", code)
	}
}
