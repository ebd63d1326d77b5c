package deprdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/otigges/deprdf/artifact"
	"github.com/otigges/deprdf/lockfile"
	"github.com/otigges/deprdf/modfile"
	"github.com/otigges/deprdf/mvntree"
	"github.com/otigges/deprdf/tree"
)

// TreeSource supplies the resolved dependency tree of a project.
type TreeSource interface {
	Resolve(ctx context.Context) (*tree.Node, error)
}

// StaticSource is an already resolved tree.
type StaticSource struct {
	Root *tree.Node
}

// Resolve returns Root, or tree.ErrNilRoot if it is unset.
func (s StaticSource) Resolve(ctx context.Context) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Root == nil {
		return nil, tree.ErrNilRoot
	}
	return s.Root, nil
}

// MavenTreeSource reads the file written by
//
//	mvn dependency:tree -DoutputType=json -DoutputFile=<Path>
type MavenTreeSource struct {
	Path string
}

// Resolve reads and converts the file at Path.
func (s MavenTreeSource) Resolve(ctx context.Context) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dep, err := mvntree.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return dep.Tree(), nil
}

// LockfileSource builds the tree from a rules_jvm_external maven_install.json.
//
// If ModuleFile is set, the project's declared artifacts for Repository are
// the direct dependencies, and module() supplies missing root coordinates.
// Otherwise every top-level locked artifact is a direct dependency.
type LockfileSource struct {
	Lockfile   string
	ModuleFile string

	// Root overrides the project coordinates. Empty fields are taken from
	// module(): the name is used as artifact and, lacking a group, as group.
	Root artifact.Coordinates

	// Repository defaults to modfile.DefaultRepository.
	Repository string

	// DevDependencies includes dev_dependency and testonly artifacts.
	DevDependencies bool
}

// Resolve reads the lock file and builds the tree below the root.
func (s LockfileSource) Resolve(ctx context.Context) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lf, err := lockfile.ReadFile(s.Lockfile)
	if err != nil {
		return nil, err
	}

	root := s.Root
	var direct []lockfile.Key
	if s.ModuleFile != "" {
		mf, err := modfile.ParseFile(s.ModuleFile)
		if err != nil {
			return nil, err
		}
		root = rootFromModule(root, mf.Module)
		direct, err = s.directKeys(mf)
		if err != nil {
			return nil, err
		}
	}
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("project coordinates: %w", err)
	}
	return lf.Tree(root, direct)
}

func (s LockfileSource) directKeys(mf *modfile.File) ([]lockfile.Key, error) {
	repo := s.Repository
	if repo == "" {
		repo = modfile.DefaultRepository
	}
	coords := mf.Direct(repo, s.DevDependencies)
	if len(coords) == 0 {
		return nil, fmt.Errorf("%s declares no artifacts for repository %q", mf.Path, repo)
	}
	keys := make([]lockfile.Key, 0, len(coords))
	var errs []error
	for _, c := range coords {
		k, err := lockfile.KeyForCoordinates(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		keys = append(keys, k)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return keys, nil
}

func rootFromModule(root artifact.Coordinates, m *modfile.Module) artifact.Coordinates {
	if m == nil {
		return root
	}
	if root.Artifact == "" {
		root.Artifact = m.Name
	}
	if root.Group == "" {
		root.Group = root.Artifact
	}
	if root.Version == "" {
		root.Version = m.Version
	}
	return root
}
