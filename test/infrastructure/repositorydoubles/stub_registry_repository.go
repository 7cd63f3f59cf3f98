//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// StubRegistryRepository implements repositories.RegistryRepository. It is safe
// for the concurrent fetches issued by the analyze command.
type StubRegistryRepository struct {
	Metadata map[string]*entities.PackageMetadata
	Errs     map[string]error

	mu      sync.Mutex
	fetched []string
}

var _ repositories.RegistryRepository = (*StubRegistryRepository)(nil)

func (s *StubRegistryRepository) Fetch(_ context.Context, name string) (*entities.PackageMetadata, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, name)
	s.mu.Unlock()

	if err, ok := s.Errs[name]; ok {
		return nil, err
	}
	if metadata, ok := s.Metadata[name]; ok {
		return metadata, nil
	}
	return nil, fmt.Errorf("package %q not found", name)
}

// Fetched returns the names requested so far, in call order.
func (s *StubRegistryRepository) Fetched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

// StubOutdatedRepository implements repositories.OutdatedRepository.
type StubOutdatedRepository struct {
	Packages []entities.OutdatedPackage
	ListErr  error
}

var _ repositories.OutdatedRepository = (*StubOutdatedRepository)(nil)

func (s *StubOutdatedRepository) List(_ context.Context, _ string) ([]entities.OutdatedPackage, error) {
	return s.Packages, s.ListErr
}
