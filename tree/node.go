// Package tree holds resolved dependency trees and turns them into
// depends-on triples.
//
// A tree is built once by a resolver, walked exactly once, and discarded.
// Nothing in this package mutates a tree.
//
// # Walking
//
// Walk visits edges depth-first in pre-order: for each node, every child is
// emitted as (node, depends-on, child) and then descended into before the
// next sibling. For root A with children B (child D) and C the order is:
//
//	A depends-on B
//	B depends-on D
//	A depends-on C
//
// A tree with N nodes yields exactly N-1 triples.
package tree

import (
	"errors"

	"github.com/otigges/deprdf/artifact"
)

var (
	// ErrNilRoot indicates a walk without a root node.
	ErrNilRoot = errors.New("dependency tree has no root")

	// ErrCycle indicates a node that repeats the coordinates of one of its
	// ancestors. A resolved tree never contains one.
	ErrCycle = errors.New("dependency cycle")
)

// Node is an artifact together with its direct dependencies, in the order
// the resolver supplied them.
type Node struct {
	Artifact artifact.Coordinates
	Children []*Node
}

// New returns a node for coords with the given children.
func New(coords artifact.Coordinates, children ...*Node) *Node {
	return &Node{Artifact: coords, Children: children}
}

// Stats summarizes a tree.
type Stats struct {
	// Nodes is the total number of nodes, root included.
	Nodes int

	// DirectDependencies is the number of children of the root.
	DirectDependencies int

	// TransitiveDependencies is the number of nodes below depth one.
	TransitiveDependencies int

	// MaxDepth is the length of the longest root-to-leaf path in edges.
	MaxDepth int
}

// Edges returns the number of depends-on edges, which is Nodes-1 for a
// non-empty tree.
func (s Stats) Edges() int {
	if s.Nodes == 0 {
		return 0
	}
	return s.Nodes - 1
}
