package rdf

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// Namespace binds a prefix to an IRI namespace.
type Namespace struct {
	Prefix string
	IRI    string
}

// DefaultNamespaces are declared in every N3 and RDF/XML document.
var DefaultNamespaces = []Namespace{
	{Prefix: "ara", IRI: "http://arastreju.org/"},
}

// safeLocalName limits abbreviated names to a form every N3 and Turtle
// parser accepts. Anything else is written as a full IRI.
var safeLocalName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// n3Syntax groups consecutive triples by subject and predicate.
type n3Syntax struct {
	subject   string
	predicate string
	open      bool
}

func (s *n3Syntax) start(w *bufio.Writer) error {
	for _, ns := range DefaultNamespaces {
		fmt.Fprintf(w, "@prefix %s: ", ns.Prefix)
		if err := writeIRIRef(w, ns.IRI); err != nil {
			return err
		}
		w.WriteString(" .\n")
	}
	_, err := w.WriteString("\n")
	return err
}

func (s *n3Syntax) triple(w *bufio.Writer, t Triple) error {
	switch {
	case s.open && t.Subject == s.subject && t.Predicate == s.predicate:
		w.WriteString(" ,\n\t\t")
	case s.open && t.Subject == s.subject:
		w.WriteString(" ;\n\t")
		s.writeTerm(w, t.Predicate)
		w.WriteByte(' ')
	default:
		if s.open {
			w.WriteString(" .\n\n")
		}
		s.writeTerm(w, t.Subject)
		w.WriteByte(' ')
		s.writeTerm(w, t.Predicate)
		w.WriteByte(' ')
	}
	s.subject, s.predicate, s.open = t.Subject, t.Predicate, true
	return s.writeTerm(w, t.Object)
}

func (s *n3Syntax) end(w *bufio.Writer) error {
	if !s.open {
		return nil
	}
	s.open = false
	_, err := w.WriteString(" .\n")
	return err
}

func (s *n3Syntax) writeTerm(w *bufio.Writer, iri string) error {
	if name, ok := abbreviate(iri); ok {
		_, err := w.WriteString(name)
		return err
	}
	return writeIRIRef(w, iri)
}

// abbreviate returns the prefixed name for iri if one of the default
// namespaces covers it with a safe local name.
func abbreviate(iri string) (string, bool) {
	for _, ns := range DefaultNamespaces {
		local, ok := strings.CutPrefix(iri, ns.IRI)
		if ok && safeLocalName.MatchString(local) {
			return ns.Prefix + ":" + local, true
		}
	}
	return "", false
}
