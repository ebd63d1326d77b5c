// Package mvntree reads dependency trees written by the Maven dependency
// plugin:
//
//	mvn dependency:tree -DoutputType=json -DoutputFile=target/dependency-tree.json
//
// The document is a single nested object per artifact with a "children"
// array holding its direct dependencies in resolution order.
package mvntree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/otigges/deprdf/artifact"
	"github.com/otigges/deprdf/tree"
)

// Dependency is one node of the plugin's JSON output.
type Dependency struct {
	GroupID    string       `json:"groupId"`
	ArtifactID string       `json:"artifactId"`
	Version    string       `json:"version"`
	Type       string       `json:"type,omitempty"`
	Scope      string       `json:"scope,omitempty"`
	Classifier string       `json:"classifier,omitempty"`
	Optional   Flag         `json:"optional,omitempty"`
	Children   []Dependency `json:"children,omitempty"`
}

// Coordinates returns the artifact identity of d.
func (d Dependency) Coordinates() artifact.Coordinates {
	return artifact.Coordinates{Group: d.GroupID, Artifact: d.ArtifactID, Version: d.Version}
}

// Flag accepts both JSON booleans and the quoted "true"/"false" strings the
// plugin emits.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid optional flag %s: %w", data, err)
	}
	*f = Flag(v)
	return nil
}

// ReadFile reads and parses a dependency tree file.
func ReadFile(path string) (*Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency tree: %w", err)
	}
	return Parse(data)
}

// Parse parses dependency tree JSON.
func Parse(data []byte) (*Dependency, error) {
	var root Dependency
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse dependency tree JSON: %w", err)
	}
	return &root, nil
}

// Tree converts d and its descendants into a tree. Coordinates are copied
// as-is; malformed ones surface when the tree is walked.
func (d *Dependency) Tree() *tree.Node {
	type pending struct {
		dep  *Dependency
		node *tree.Node
	}

	root := &tree.Node{Artifact: d.Coordinates()}
	queue := []pending{{d, root}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if len(p.dep.Children) == 0 {
			continue
		}
		p.node.Children = make([]*tree.Node, len(p.dep.Children))
		for i := range p.dep.Children {
			child := &p.dep.Children[i]
			node := &tree.Node{Artifact: child.Coordinates()}
			p.node.Children[i] = node
			queue = append(queue, pending{child, node})
		}
	}
	return root
}
