//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"path/filepath"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository with a canned manifest.
type StubManifestRepository struct {
	Manifest  *entities.Manifest
	ReadErr   error
	ReadCalls int
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (s *StubManifestRepository) Read(_ context.Context, _ string) (*entities.Manifest, error) {
	s.ReadCalls++
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return s.Manifest, nil
}

func (s *StubManifestRepository) Files(projectPath string) []string {
	return []string{
		filepath.Join(projectPath, "package.json"),
		filepath.Join(projectPath, "package-lock.json"),
	}
}

// StubTreeRepository implements repositories.TreeRepository with a canned listing.
type StubTreeRepository struct {
	Listing *entities.PackageListing
	ListErr error
}

var _ repositories.TreeRepository = (*StubTreeRepository)(nil)

func (s *StubTreeRepository) List(_ context.Context, _ string) (*entities.PackageListing, error) {
	return s.Listing, s.ListErr
}
