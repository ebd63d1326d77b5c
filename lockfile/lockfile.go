package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/otigges/deprdf/artifact"
)

// CurrentVersion is the lock file layout this package reads.
const CurrentVersion = "2"

var (
	// ErrUnsupportedVersion indicates a lock file layout other than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported maven_install.json version")

	// ErrNotLocked indicates an artifact key missing from the "artifacts" section.
	ErrNotLocked = errors.New("artifact not in lock file")

	// ErrInvalidKey indicates a key or coordinate string that cannot be split
	// into group and artifact.
	ErrInvalidKey = errors.New("invalid artifact key")
)

// Lockfile is the parsed content of maven_install.json.
type Lockfile struct {
	Version      string           `json:"version"`
	Artifacts    map[Key]Artifact `json:"artifacts"`
	Dependencies map[Key][]Key    `json:"dependencies"`
	Repositories map[string][]Key `json:"repositories"`
	Skipped      []Key            `json:"skipped,omitempty"`
}

// Artifact is a pinned artifact entry.
type Artifact struct {
	Version string            `json:"version"`
	Shasums map[string]string `json:"shasums,omitempty"`
}

// Key identifies a locked artifact as group:artifact[:packaging[:classifier]].
type Key string

// ParseKey validates a lock file key.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("%w: %q has an empty part", ErrInvalidKey, s)
		}
	}
	return Key(s), nil
}

// KeyForCoordinates returns the key for a rules_jvm_external coordinate
// string. The version is always the last part:
//
//	group:artifact:version
//	group:artifact:packaging:version
//	group:artifact:packaging:classifier:version
func KeyForCoordinates(coords string) (Key, error) {
	parts := strings.Split(coords, ":")
	if len(parts) < 3 || len(parts) > 5 {
		return "", fmt.Errorf("%w: %q is not group:artifact[:packaging[:classifier]]:version", ErrInvalidKey, coords)
	}
	return ParseKey(strings.Join(parts[:len(parts)-1], ":"))
}

// Group returns the group id part of the key.
func (k Key) Group() string {
	group, _, _ := strings.Cut(string(k), ":")
	return group
}

// Name returns the artifact id part of the key.
func (k Key) Name() string {
	parts := strings.SplitN(string(k), ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// ReadFile reads and parses a lock file from the given path.
func ReadFile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	return Parse(data)
}

// Parse parses lock file JSON data.
func Parse(data []byte) (*Lockfile, error) {
	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile JSON: %w", err)
	}
	if lf.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %q (want %q)", ErrUnsupportedVersion, lf.Version, CurrentVersion)
	}

	// Initialize nil maps to empty maps for consistency
	if lf.Artifacts == nil {
		lf.Artifacts = make(map[Key]Artifact)
	}
	if lf.Dependencies == nil {
		lf.Dependencies = make(map[Key][]Key)
	}
	if lf.Repositories == nil {
		lf.Repositories = make(map[string][]Key)
	}

	return &lf, nil
}

// Coordinates returns the pinned coordinates for key.
func (l *Lockfile) Coordinates(key Key) (artifact.Coordinates, error) {
	a, ok := l.Artifacts[key]
	if !ok {
		return artifact.Coordinates{}, fmt.Errorf("%w: %s", ErrNotLocked, key)
	}
	return artifact.Coordinates{Group: key.Group(), Artifact: key.Name(), Version: a.Version}, nil
}

// TopLevel returns the locked artifacts no other locked artifact depends on,
// sorted by key.
func (l *Lockfile) TopLevel() []Key {
	required := make(map[Key]bool)
	for _, deps := range l.Dependencies {
		for _, d := range deps {
			required[d] = true
		}
	}

	keys := make([]Key, 0, len(l.Artifacts))
	for k := range l.Artifacts {
		if !required[k] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
