package deprdf

import (
	"errors"
	"fmt"

	"github.com/otigges/deprdf/artifact"
)

// Sentinel errors identifying the stage of Generate that failed.
var (
	// ErrResolution indicates the dependency tree could not be obtained.
	ErrResolution = errors.New("dependency resolution failed")

	// ErrConfiguration indicates invalid options, such as an unknown format.
	// Nothing has been written when it is returned.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrWrite indicates the output could not be created or written.
	ErrWrite = errors.New("writing RDF failed")

	// ErrMalformedArtifact indicates coordinates that cannot be mapped to a URI.
	ErrMalformedArtifact = artifact.ErrMalformed
)

// Stage names a step of Generate.
type Stage string

const (
	StageConfiguration Stage = "configuration"
	StageResolution    Stage = "resolution"
	StageWrite         Stage = "write"
)

func (s Stage) sentinel() error {
	switch s {
	case StageConfiguration:
		return ErrConfiguration
	case StageResolution:
		return ErrResolution
	default:
		return ErrWrite
	}
}

// StageError reports the stage of Generate that failed and its cause.
// errors.Is matches both the cause and the stage sentinel.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Stage.sentinel(), e.Err}
}

func stageError(s Stage, err error) error {
	return &StageError{Stage: s, Err: err}
}
