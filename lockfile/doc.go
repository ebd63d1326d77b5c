// Package lockfile reads the maven_install.json lock file written by
// rules_jvm_external and turns it into a dependency tree.
//
// The lock file pins every resolved Maven artifact of a Bazel workspace
// together with the direct dependencies of each artifact:
//
//	{
//	  "artifacts": {
//	    "com.google.guava:guava": {"shasums": {"jar": "..."}, "version": "32.1.2-jre"}
//	  },
//	  "dependencies": {
//	    "com.google.guava:guava": ["com.google.guava:failureaccess"]
//	  },
//	  "repositories": {"https://repo1.maven.org/maven2/": ["com.google.guava:guava"]},
//	  "version": "2"
//	}
//
// # Usage
//
// Read a lock file and build the tree for a project:
//
//	lf, err := lockfile.ReadFile("maven_install.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	root, err := lf.Tree(project, nil)
//
// # Compatibility
//
// Only the version 2 layout is supported. Version 1 files (with a
// "dependency_tree" object) are rejected with ErrUnsupportedVersion.
package lockfile
