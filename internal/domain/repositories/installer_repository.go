package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// InstallerRepository abstracts a package manager (npm, yarn, pnpm). Each
// implementation owns the mechanics of installing one package version.
type InstallerRepository interface {
	// Name returns the package manager identifier (e.g. "npm", "pnpm").
	Name() string

	// Detect returns true if the project is managed by this package manager.
	Detect(projectPath string) bool

	// Install sets the named package to the given version in the project.
	Install(ctx context.Context, projectPath, name, version string) error
}

// TestRunnerRepository runs a project's test suite.
type TestRunnerRepository interface {
	Run(ctx context.Context, projectPath string) (entities.TestReport, error)
}
