// Package artifact provides Maven artifact coordinates and the URI naming
// scheme used when artifacts are exported as RDF resources.
//
// Coordinates are compared by exact field equality. No version ranges or
// semantic version normalization are applied: "1.0" and "1.0.0" are distinct
// artifacts.
//
// # URI Scheme
//
// Every artifact maps to exactly one URI:
//
//	http://arastreju.org/maven-artifact/{group}:{artifact}:{version}
//
// Fields must be valid UTF-8 and may not contain ':' or whitespace, which
// keeps the mapping injective.
package artifact

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Namespace is the URI prefix shared by all artifact resources.
	Namespace = "http://arastreju.org/maven-artifact/"

	// DependsOn is the predicate linking an artifact to a direct dependency.
	DependsOn = "http://arastreju.org/depends-on"

	separator = ":"
)

// ErrMalformed indicates coordinates with a missing or invalid field.
var ErrMalformed = errors.New("malformed artifact coordinates")

// Coordinates identifies a Maven artifact.
type Coordinates struct {
	Group    string
	Artifact string
	Version  string
}

// Parse parses the canonical "group:artifact:version" form.
func Parse(s string) (Coordinates, error) {
	parts := strings.Split(s, separator)
	if len(parts) != 3 {
		return Coordinates{}, fmt.Errorf("%w: %q: want group:artifact:version", ErrMalformed, s)
	}
	c := Coordinates{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// MustParse parses coordinates or panics. Use only for constants/tests.
func MustParse(s string) Coordinates {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the "group:artifact:version" form.
func (c Coordinates) String() string {
	return c.Group + separator + c.Artifact + separator + c.Version
}

// Validate reports whether all fields are present and usable in a URI.
func (c Coordinates) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"group", c.Group},
		{"artifact", c.Artifact},
		{"version", c.Version},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is empty in %q", ErrMalformed, f.name, c.String())
		}
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s %q is not valid UTF-8", ErrMalformed, f.name, f.value)
		}
		if strings.Contains(f.value, separator) {
			return fmt.Errorf("%w: %s %q contains %q", ErrMalformed, f.name, f.value, separator)
		}
		if i := strings.IndexFunc(f.value, invalidRune); i >= 0 {
			return fmt.Errorf("%w: %s %q contains invalid character at offset %d", ErrMalformed, f.name, f.value, i)
		}
	}
	return nil
}

// URI returns the resource URI for the artifact.
func (c Coordinates) URI() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return Namespace + c.String(), nil
}

func invalidRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
