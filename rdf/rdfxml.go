package rdf

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

const rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// ncName approximates the XML NCName production for ASCII names.
var ncName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// xmlSyntax writes one rdf:Description per run of triples sharing a subject.
type xmlSyntax struct {
	subject string
	open    bool
}

func (s *xmlSyntax) start(w *bufio.Writer) error {
	w.WriteString(xml.Header)
	w.WriteString("<rdf:RDF\n\txmlns:rdf=\"" + rdfNamespace + "\"")
	for _, ns := range DefaultNamespaces {
		fmt.Fprintf(w, "\n\txmlns:%s=\"", ns.Prefix)
		writeAttr(w, ns.IRI)
		w.WriteByte('"')
	}
	_, err := w.WriteString(">\n")
	return err
}

func (s *xmlSyntax) triple(w *bufio.Writer, t Triple) error {
	ns, local, err := splitPredicate(t.Predicate)
	if err != nil {
		return err
	}

	if !s.open || t.Subject != s.subject {
		if s.open {
			w.WriteString("</rdf:Description>\n")
		}
		w.WriteString("\n<rdf:Description rdf:about=\"")
		writeAttr(w, t.Subject)
		w.WriteString("\">\n")
		s.subject, s.open = t.Subject, true
	}

	w.WriteString("\t<")
	if prefix, ok := declaredPrefix(ns); ok {
		w.WriteString(prefix + ":" + local)
	} else {
		w.WriteString("ns0:" + local + " xmlns:ns0=\"")
		writeAttr(w, ns)
		w.WriteByte('"')
	}
	w.WriteString(" rdf:resource=\"")
	writeAttr(w, t.Object)
	_, err = w.WriteString("\"/>\n")
	return err
}

func (s *xmlSyntax) end(w *bufio.Writer) error {
	if s.open {
		w.WriteString("</rdf:Description>\n")
		s.open = false
	}
	_, err := w.WriteString("\n</rdf:RDF>\n")
	return err
}

// splitPredicate splits a predicate IRI after its last '#' or '/' into a
// namespace and an NCName local part.
func splitPredicate(iri string) (namespace, local string, err error) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 || i == len(iri)-1 || !ncName.MatchString(iri[i+1:]) {
		return "", "", fmt.Errorf("%w: %q has no XML local name", ErrInvalidPredicate, iri)
	}
	return iri[:i+1], iri[i+1:], nil
}

func declaredPrefix(namespace string) (string, bool) {
	if namespace == rdfNamespace {
		return "rdf", true
	}
	for _, ns := range DefaultNamespaces {
		if ns.IRI == namespace {
			return ns.Prefix, true
		}
	}
	return "", false
}

func writeAttr(w *bufio.Writer, s string) {
	// EscapeText only fails when the underlying writer does; bufio keeps
	// that error and reports it on the next write or Flush.
	_ = xml.EscapeText(w, []byte(s))
}
