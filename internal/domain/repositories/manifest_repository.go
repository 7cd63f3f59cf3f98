package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// ManifestRepository reads the declared dependencies of a project.
type ManifestRepository interface {
	// Read returns the project manifest. It fails with entities.ErrManifestNotFound
	// when the project has no manifest.
	Read(ctx context.Context, projectPath string) (*entities.Manifest, error)

	// Files returns the manifest and lock file paths that describe the project's
	// dependency state, whether or not they exist yet.
	Files(projectPath string) []string
}

// TreeRepository lists the resolved, nested dependency tree of a project.
type TreeRepository interface {
	List(ctx context.Context, projectPath string) (*entities.PackageListing, error)
}
