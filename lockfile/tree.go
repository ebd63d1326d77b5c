package lockfile

import (
	"fmt"

	"github.com/otigges/deprdf/artifact"
	"github.com/otigges/deprdf/tree"
)

// Tree builds the dependency tree of project from the lock file.
//
// direct lists the project's declared dependencies in declaration order. If
// it is empty, TopLevel is used instead.
//
// The lock file describes a graph in which artifacts can be shared. Like
// Maven's own tree, each artifact is placed once at its shallowest depth,
// breadth first, and the first declaration wins among equal depths. The
// result is therefore always a tree, even if the lock file contains cycles.
func (l *Lockfile) Tree(project artifact.Coordinates, direct []Key) (*tree.Node, error) {
	type pending struct {
		key  Key
		node *tree.Node
	}

	if len(direct) == 0 {
		direct = l.TopLevel()
	}

	root := &tree.Node{Artifact: project}
	placed := make(map[Key]bool)
	var queue []pending

	attach := func(parent *tree.Node, key Key) error {
		if placed[key] {
			return nil
		}
		coords, err := l.Coordinates(key)
		if err != nil {
			return err
		}
		placed[key] = true
		node := &tree.Node{Artifact: coords}
		parent.Children = append(parent.Children, node)
		queue = append(queue, pending{key: key, node: node})
		return nil
	}

	for _, key := range direct {
		if err := attach(root, key); err != nil {
			return nil, fmt.Errorf("direct dependency: %w", err)
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, dep := range l.Dependencies[p.key] {
			if err := attach(p.node, dep); err != nil {
				return nil, fmt.Errorf("dependency of %s: %w", p.key, err)
			}
		}
	}
	return root, nil
}
