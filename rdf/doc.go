// Package rdf writes and reads the RDF triple streams produced when a
// dependency tree is exported.
//
// Three syntaxes are supported, selected once through [Format]:
//
//   - [FormatXML]: RDF/XML, one rdf:Description per run of triples sharing a subject
//   - [FormatN3]: Notation3 with @prefix declarations and ';' / ',' abbreviations
//   - [FormatNTriples]: N-Triples, one triple per line in input order
//
// # Writing
//
// A [Writer] frames a triple stream between Start and End:
//
//	w, err := rdf.NewWriter(out, rdf.FormatNTriples)
//	if err != nil {
//	    return err // unsupported format, nothing written
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	for _, t := range triples {
//	    if err := w.Write(t); err != nil {
//	        return err
//	    }
//	}
//	return w.End()
//
// Writers buffer their output and flush it in End. They never close the
// underlying sink.
//
// # Reading
//
// [Parse] reads back the subset of each syntax that the writers produce. It
// exists so exported files can be checked for round-trip fidelity; it is not a
// general purpose RDF parser.
package rdf
