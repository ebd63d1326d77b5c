package rdf

import "bufio"

// ntriplesSyntax writes one statement per line. It has no header or footer.
type ntriplesSyntax struct{}

func (ntriplesSyntax) start(*bufio.Writer) error { return nil }

func (ntriplesSyntax) triple(w *bufio.Writer, t Triple) error {
	for _, iri := range []string{t.Subject, t.Predicate, t.Object} {
		if err := writeIRIRef(w, iri); err != nil {
			return err
		}
		w.WriteByte(' ')
	}
	_, err := w.WriteString(".\n")
	return err
}

func (ntriplesSyntax) end(*bufio.Writer) error { return nil }
