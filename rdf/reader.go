package rdf

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse reads all triples from r. Only IRI subjects, predicates and objects
// are supported.
func Parse(r io.Reader, f Format) ([]Triple, error) {
	switch f {
	case FormatXML:
		return parseXML(r)
	case FormatN3:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return parseN3(string(data))
	case FormatNTriples:
		return parseNTriples(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

func parseNTriples(r io.Reader) ([]Triple, error) {
	var triples []Triple
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var terms [3]string
		rest := text
		for i := range terms {
			iri, tail, err := readIRIRef(strings.TrimLeft(rest, " \t"))
			if err != nil {
				return nil, syntaxErr(line, "%v", err)
			}
			terms[i], rest = iri, tail
		}
		if strings.TrimSpace(rest) != "." {
			return nil, syntaxErr(line, "expected '.' after object, got %q", rest)
		}
		triples = append(triples, Triple{Subject: terms[0], Predicate: terms[1], Object: terms[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return triples, nil
}

// readIRIRef reads a leading <...> token and returns the unescaped IRI and
// the remaining input.
func readIRIRef(s string) (string, string, error) {
	if !strings.HasPrefix(s, "<") {
		return "", s, fmt.Errorf("expected '<', got %q", s)
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", s, errors.New("unterminated IRI")
	}
	iri, err := unescapeIRI(s[1:end])
	if err != nil {
		return "", s, err
	}
	return iri, s[end+1:], nil
}

func unescapeIRI(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		width := 0
		if i+1 < len(s) {
			switch s[i+1] {
			case 'u':
				width = 4
			case 'U':
				width = 8
			}
		}
		if width == 0 || i+2+width > len(s) {
			return "", fmt.Errorf("invalid escape in IRI %q", s)
		}
		code, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return "", fmt.Errorf("invalid escape in IRI %q", s)
		}
		b.WriteRune(rune(code))
		i += 1 + width
	}
	return b.String(), nil
}

type n3Token struct {
	kind  byte // 'i' IRI, 'n' prefixed name, 'd' directive, or the punctuation itself
	value string
	line  int
}

func tokenizeN3(src string) ([]n3Token, error) {
	var tokens []n3Token
	line := 1
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '<':
			iri, rest, err := readIRIRef(src[i:])
			if err != nil {
				return nil, syntaxErr(line, "%v", err)
			}
			tokens = append(tokens, n3Token{kind: 'i', value: iri, line: line})
			i = len(src) - len(rest)
		case c == '.' || c == ';' || c == ',':
			tokens = append(tokens, n3Token{kind: c, line: line})
			i++
		case c == '@':
			j := i + 1
			for j < len(src) && isNameByte(src[j]) {
				j++
			}
			tokens = append(tokens, n3Token{kind: 'd', value: src[i+1 : j], line: line})
			i = j
		case isNameByte(c) || c == ':':
			j := i
			for j < len(src) && (isNameByte(src[j]) || src[j] == ':' || src[j] == '.') {
				j++
			}
			// A trailing '.' terminates the statement rather than the name.
			name := strings.TrimRight(src[i:j], ".")
			tokens = append(tokens, n3Token{kind: 'n', value: name, line: line})
			i += len(name)
		default:
			return nil, syntaxErr(line, "unexpected character %q", c)
		}
	}
	return tokens, nil
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

type n3Parser struct {
	tokens   []n3Token
	pos      int
	prefixes map[string]string
	triples  []Triple
}

func parseN3(src string) ([]Triple, error) {
	tokens, err := tokenizeN3(src)
	if err != nil {
		return nil, err
	}
	p := &n3Parser{tokens: tokens, prefixes: make(map[string]string)}
	for p.pos < len(p.tokens) {
		if err := p.statement(); err != nil {
			return nil, err
		}
	}
	return p.triples, nil
}

func (p *n3Parser) next() (n3Token, error) {
	if p.pos >= len(p.tokens) {
		line := 0
		if len(p.tokens) > 0 {
			line = p.tokens[len(p.tokens)-1].line
		}
		return n3Token{}, syntaxErr(line, "unexpected end of input")
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

func (p *n3Parser) expect(kind byte) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.kind != kind {
		return syntaxErr(tok.line, "expected %q", kind)
	}
	return nil
}

func (p *n3Parser) statement() error {
	if p.tokens[p.pos].kind == 'd' {
		return p.prefixDirective()
	}

	subject, err := p.term()
	if err != nil {
		return err
	}
	for {
		predicate, err := p.term()
		if err != nil {
			return err
		}
		for {
			object, err := p.term()
			if err != nil {
				return err
			}
			p.triples = append(p.triples, Triple{Subject: subject, Predicate: predicate, Object: object})

			tok, err := p.next()
			if err != nil {
				return err
			}
			switch tok.kind {
			case ',':
				continue
			case ';':
				if p.pos < len(p.tokens) && p.tokens[p.pos].kind == '.' {
					p.pos++
					return nil
				}
			case '.':
				return nil
			default:
				return syntaxErr(tok.line, "expected ',', ';' or '.'")
			}
			break
		}
	}
}

func (p *n3Parser) prefixDirective() error {
	tok, _ := p.next()
	if tok.value != "prefix" {
		return syntaxErr(tok.line, "unsupported directive @%s", tok.value)
	}
	name, err := p.next()
	if err != nil {
		return err
	}
	if name.kind != 'n' || !strings.HasSuffix(name.value, ":") {
		return syntaxErr(name.line, "expected prefix name")
	}
	iri, err := p.next()
	if err != nil {
		return err
	}
	if iri.kind != 'i' {
		return syntaxErr(iri.line, "expected namespace IRI")
	}
	p.prefixes[strings.TrimSuffix(name.value, ":")] = iri.value
	return p.expect('.')
}

func (p *n3Parser) term() (string, error) {
	tok, err := p.next()
	if err != nil {
		return "", err
	}
	switch tok.kind {
	case 'i':
		return tok.value, nil
	case 'n':
		prefix, local, ok := strings.Cut(tok.value, ":")
		if !ok {
			return "", syntaxErr(tok.line, "unsupported bare name %q", tok.value)
		}
		ns, ok := p.prefixes[prefix]
		if !ok {
			return "", syntaxErr(tok.line, "undeclared prefix %q", prefix)
		}
		return ns + local, nil
	default:
		return "", syntaxErr(tok.line, "expected IRI or prefixed name")
	}
}

var (
	rdfRoot     = xml.Name{Space: rdfNamespace, Local: "RDF"}
	rdfAbout    = xml.Name{Space: rdfNamespace, Local: "about"}
	rdfResource = xml.Name{Space: rdfNamespace, Local: "resource"}
)

func parseXML(r io.Reader) ([]Triple, error) {
	dec := xml.NewDecoder(r)
	var (
		triples []Triple
		subject string
		depth   int
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			line, _ := dec.InputPos()
			switch depth {
			case 1:
				if el.Name != rdfRoot {
					return nil, syntaxErr(line, "root element is %s, want rdf:RDF", el.Name.Local)
				}
				sawRoot = true
			case 2:
				subject = attrValue(el, rdfAbout)
				if subject == "" {
					return nil, syntaxErr(line, "node element without rdf:about")
				}
			case 3:
				object := attrValue(el, rdfResource)
				if object == "" {
					return nil, syntaxErr(line, "property %s without rdf:resource", el.Name.Local)
				}
				triples = append(triples, Triple{
					Subject:   subject,
					Predicate: el.Name.Space + el.Name.Local,
					Object:    object,
				})
			default:
				return nil, syntaxErr(line, "unsupported nested element %s", el.Name.Local)
			}
		case xml.EndElement:
			depth--
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: missing rdf:RDF element", ErrSyntax)
	}
	return triples, nil
}

func attrValue(el xml.StartElement, name xml.Name) string {
	for _, a := range el.Attr {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}
