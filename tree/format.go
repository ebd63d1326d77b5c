package tree

import (
	"bytes"
	"fmt"
	"strings"
)

// ToText renders the tree the way mvn dependency:tree prints it:
//
//	org.example:app:1.0.0
//	+- org.slf4j:slf4j-api:2.0.9
//	\- com.google.guava:guava:32.1.2-jre
//	   \- com.google.guava:failureaccess:1.0.1
func ToText(root *Node) (string, error) {
	var buf bytes.Buffer
	if root != nil {
		buf.WriteString(root.Artifact.String() + "\n")
	}

	// last[d] reports whether the current node at depth d is the final child
	// of its parent.
	var last []bool
	err := visit(root, func(parent, child *frame, depth int) error {
		isLast := parent.next == len(parent.node.Children)
		last = append(last[:depth-1], isLast)

		for _, ancestorLast := range last[:depth-1] {
			if ancestorLast {
				buf.WriteString("   ")
			} else {
				buf.WriteString("|  ")
			}
		}
		if isLast {
			buf.WriteString(`\- `)
		} else {
			buf.WriteString("+- ")
		}
		buf.WriteString(child.node.Artifact.String() + "\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToDOT renders the tree in Graphviz DOT format. An artifact that occurs
// more than once in the tree is a single DOT node.
func ToDOT(root *Node) (string, error) {
	var nodes, edges bytes.Buffer
	seen := make(map[string]bool)
	addNode := func(n *Node, attrs string) {
		id := n.Artifact.String()
		if seen[id] {
			return
		}
		seen[id] = true
		label := strings.Join([]string{
			dotEscape(n.Artifact.Group),
			dotEscape(n.Artifact.Artifact),
			dotEscape(n.Artifact.Version),
		}, `\n`)
		fmt.Fprintf(&nodes, "  %q [label=\"%s\"%s];\n", id, label, attrs) //nolint:gocritic // DOT label escapes are written by hand
	}

	if root != nil {
		addNode(root, ", style=bold")
	}
	drawn := make(map[[2]string]bool)
	err := visit(root, func(parent, child *frame, _ int) error {
		addNode(child.node, "")
		edge := [2]string{parent.node.Artifact.String(), child.node.Artifact.String()}
		if !drawn[edge] {
			drawn[edge] = true
			fmt.Fprintf(&edges, "  %q -> %q;\n", edge[0], edge[1])
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")
	buf.WriteString(nodes.String())
	buf.WriteString("\n")
	buf.WriteString(edges.String())
	buf.WriteString("}\n")
	return buf.String(), nil
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
