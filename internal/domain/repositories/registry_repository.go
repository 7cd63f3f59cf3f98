package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// RegistryRepository fetches package metadata from a package registry.
// Failures are never fatal to an analysis; they leave the metadata absent.
type RegistryRepository interface {
	Fetch(ctx context.Context, name string) (*entities.PackageMetadata, error)
}

// OutdatedRepository lists dependencies that have newer versions available.
type OutdatedRepository interface {
	List(ctx context.Context, projectPath string) ([]entities.OutdatedPackage, error)
}
