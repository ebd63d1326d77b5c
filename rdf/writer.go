package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer serializes a framed stream of triples.
type Writer interface {
	// Start writes the document header. It must be called exactly once,
	// before any triple.
	Start() error

	// Write appends one triple.
	Write(t Triple) error

	// End writes the document footer and flushes buffered output.
	End() error
}

// syntax is implemented by each format backend. The framed writer
// guarantees start, then any number of triple calls, then end.
type syntax interface {
	start(w *bufio.Writer) error
	triple(w *bufio.Writer, t Triple) error
	end(w *bufio.Writer) error
}

type writerState int

const (
	stateNew writerState = iota
	stateStarted
	stateEnded
)

type framedWriter struct {
	format Format
	out    *bufio.Writer
	syntax syntax
	state  writerState
}

// NewWriter returns a Writer for the given format. Nothing is written to w
// until Start is called, so an unsupported format leaves w untouched.
func NewWriter(w io.Writer, f Format) (Writer, error) {
	var s syntax
	switch f {
	case FormatXML:
		s = &xmlSyntax{}
	case FormatN3:
		s = &n3Syntax{}
	case FormatNTriples:
		s = ntriplesSyntax{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return &framedWriter{
		format: f,
		out:    bufio.NewWriter(w),
		syntax: s,
	}, nil
}

func (w *framedWriter) Start() error {
	switch w.state {
	case stateStarted:
		return ErrStarted
	case stateEnded:
		return ErrEnded
	}
	w.state = stateStarted
	return w.wrap(w.syntax.start(w.out))
}

func (w *framedWriter) Write(t Triple) error {
	switch w.state {
	case stateNew:
		return ErrNotStarted
	case stateEnded:
		return ErrEnded
	}
	return w.wrap(w.syntax.triple(w.out, t))
}

func (w *framedWriter) End() error {
	switch w.state {
	case stateNew:
		return ErrNotStarted
	case stateEnded:
		return ErrEnded
	}
	w.state = stateEnded
	if err := w.syntax.end(w.out); err != nil {
		return w.wrap(err)
	}
	return w.wrap(w.out.Flush())
}

func (w *framedWriter) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("write %s: %w", w.format, err)
}

// Serialize writes a complete document containing triples to w.
func Serialize(w io.Writer, triples []Triple, f Format) error {
	rw, err := NewWriter(w, f)
	if err != nil {
		return err
	}
	if err := rw.Start(); err != nil {
		return err
	}
	for _, t := range triples {
		if err := rw.Write(t); err != nil {
			return err
		}
	}
	return rw.End()
}

// writeIRIRef writes iri as an IRIREF token, escaping characters that
// N-Triples and N3 do not allow between angle brackets.
func writeIRIRef(w *bufio.Writer, iri string) error {
	w.WriteByte('<')
	for _, r := range iri {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(w, `\u%04X`, r)
			continue
		}
		w.WriteRune(r)
	}
	return w.WriteByte('>')
}
