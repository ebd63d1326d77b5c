package rdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for serialization failures.
var (
	// ErrUnsupportedFormat indicates a format name with no backend.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")

	// ErrStarted indicates a second call to Start.
	ErrStarted = errors.New("rdf writer already started")

	// ErrNotStarted indicates a triple or End before Start.
	ErrNotStarted = errors.New("rdf writer not started")

	// ErrEnded indicates a call after End.
	ErrEnded = errors.New("rdf writer already ended")

	// ErrInvalidPredicate indicates a predicate IRI that cannot be written
	// as an XML qualified name.
	ErrInvalidPredicate = errors.New("invalid predicate IRI")

	// ErrSyntax indicates input that Parse cannot read.
	ErrSyntax = errors.New("rdf syntax error")
)

// Triple is a single subject-predicate-object statement. All three
// positions hold absolute IRIs.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// String returns the triple in N-Triples form without the trailing newline.
func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> <%s> .", t.Subject, t.Predicate, t.Object)
}

// Format selects an output syntax.
type Format int

const (
	// FormatXML is RDF/XML.
	FormatXML Format = iota + 1

	// FormatN3 is Notation3.
	FormatN3

	// FormatNTriples is N-Triples.
	FormatNTriples
)

var formatNames = map[Format]string{
	FormatXML:      "xml",
	FormatN3:       "n3",
	FormatNTriples: "ntriples",
}

// Formats returns all supported formats in a stable order.
func Formats() []Format {
	return []Format{FormatXML, FormatN3, FormatNTriples}
}

// ParseFormat maps a format name ("xml", "n3", "ntriples") to a Format.
// Names are matched exactly.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if formatNames[f] == name {
			return f, nil
		}
	}
	names := make([]string, 0, len(formatNames))
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, name, strings.Join(names, ", "))
}

// String returns the format name, which is also the output file extension.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Valid reports whether f has a backend.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}
