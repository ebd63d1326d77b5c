package rdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sortTriples = cmpopts.SortSlices(func(a, b Triple) bool {
	return a.String() < b.String()
})

func TestParse_RoundTrip(t *testing.T) {
	inputs := map[string][]Triple{
		"empty":  nil,
		"sample": sampleTriples(),
		"grouped": {
			{uriA, dependsOn, uriB},
			{uriA, dependsOn, uriC},
			{uriA, "http://example.org/vocab#uses", uriD},
			{uriB, dependsOn, uriD},
		},
		"escaped": {
			{"http://x/a b", dependsOn, "http://x/q?a=1&b=\"2\""},
		},
	}

	for name, triples := range inputs {
		for _, f := range Formats() {
			t.Run(name+"/"+f.String(), func(t *testing.T) {
				var buf bytes.Buffer
				if err := Serialize(&buf, triples, f); err != nil {
					t.Fatalf("Serialize error: %v", err)
				}
				got, err := Parse(&buf, f)
				if err != nil {
					t.Fatalf("Parse error: %v\n%s", err, buf.String())
				}
				if diff := cmp.Diff(triples, got, sortTriples, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("round trip mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestParse_NTriplesPreservesOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Serialize(&buf, sampleTriples(), FormatNTriples); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(&buf, FormatNTriples)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleTriples(), got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_N3Handwritten(t *testing.T) {
	src := `# comment
@prefix ara: <http://arastreju.org/> .
@prefix mvn: <http://arastreju.org/maven-artifact/> .

mvn:root ara:depends-on mvn:a , mvn:b ;
	ara:uses <http://x/y> ;
	.
`
	got, err := Parse(strings.NewReader(src), FormatN3)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []Triple{
		{"http://arastreju.org/maven-artifact/root", dependsOn, "http://arastreju.org/maven-artifact/a"},
		{"http://arastreju.org/maven-artifact/root", dependsOn, "http://arastreju.org/maven-artifact/b"},
		{"http://arastreju.org/maven-artifact/root", "http://arastreju.org/uses", "http://x/y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"ntriples literal", FormatNTriples, `<http://a> <http://p> "lit" .`},
		{"ntriples missing dot", FormatNTriples, `<http://a> <http://p> <http://o>`},
		{"ntriples unterminated", FormatNTriples, `<http://a <http://p> <http://o> .`},
		{"ntriples bad escape", FormatNTriples, `<http://a\q> <http://p> <http://o> .`},
		{"n3 undeclared prefix", FormatN3, `x:a x:b x:c .`},
		{"n3 truncated", FormatN3, `<http://a> <http://p>`},
		{"n3 unknown directive", FormatN3, `@base <http://a> .`},
		{"xml wrong root", FormatXML, `<foo/>`},
		{"xml no about", FormatXML, `<rdf:RDF xmlns:rdf="` + rdfNamespace + `"><rdf:Description/></rdf:RDF>`},
		{"xml literal property", FormatXML, `<rdf:RDF xmlns:rdf="` + rdfNamespace + `" xmlns:p="http://p/"><rdf:Description rdf:about="http://a"><p:x>lit</p:x></rdf:Description></rdf:RDF>`},
		{"xml empty", FormatXML, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse error = %v, want ErrSyntax", err)
			}
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), Format(0))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse error = %v, want ErrUnsupportedFormat", err)
	}
}
