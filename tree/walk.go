package tree

import (
	"fmt"

	"github.com/otigges/deprdf/artifact"
	"github.com/otigges/deprdf/rdf"
)

// frame is one level of the explicit traversal stack.
type frame struct {
	node *Node
	uri  string
	next int
}

// visit drives a pre-order traversal. enter is called for every edge before
// the child is descended into, with the child's depth (root children are at
// depth 1). Traversal uses an explicit stack, not recursion.
func visit(root *Node, enter func(parent, child *frame, depth int) error) error {
	if root == nil {
		return ErrNilRoot
	}
	rootURI, err := root.Artifact.URI()
	if err != nil {
		return err
	}

	stack := []*frame{{node: root, uri: rootURI}}
	onPath := map[artifact.Coordinates]bool{root.Artifact: true}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.node.Children) {
			stack = stack[:len(stack)-1]
			delete(onPath, top.node.Artifact)
			continue
		}

		child := top.node.Children[top.next]
		top.next++
		if child == nil {
			return fmt.Errorf("%w: nil dependency of %s", artifact.ErrMalformed, top.node.Artifact)
		}
		childURI, err := child.Artifact.URI()
		if err != nil {
			return fmt.Errorf("dependency of %s: %w", top.node.Artifact, err)
		}
		if onPath[child.Artifact] {
			return fmt.Errorf("%w: %s depends on its ancestor %s", ErrCycle, top.node.Artifact, child.Artifact)
		}

		next := &frame{node: child, uri: childURI}
		if err := enter(top, next, len(stack)); err != nil {
			return err
		}
		stack = append(stack, next)
		onPath[child.Artifact] = true
	}
	return nil
}

// Walk emits one depends-on triple per edge of the tree rooted at root, in
// depth-first pre-order. An error from fn stops the walk and is returned
// unchanged.
func Walk(root *Node, fn func(rdf.Triple) error) error {
	return visit(root, func(parent, child *frame, _ int) error {
		return fn(rdf.Triple{
			Subject:   parent.uri,
			Predicate: artifact.DependsOn,
			Object:    child.uri,
		})
	})
}

// Collect returns all triples of the tree in walk order.
func Collect(root *Node) ([]rdf.Triple, error) {
	var triples []rdf.Triple
	err := Walk(root, func(t rdf.Triple) error {
		triples = append(triples, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return triples, nil
}

// Compute returns statistics for the tree rooted at root. It fails on the
// same inputs Walk fails on.
func Compute(root *Node) (Stats, error) {
	var s Stats
	err := visit(root, func(_, _ *frame, depth int) error {
		s.Nodes++
		if depth == 1 {
			s.DirectDependencies++
		} else {
			s.TransitiveDependencies++
		}
		s.MaxDepth = max(s.MaxDepth, depth)
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	s.Nodes++ // root
	return s, nil
}
