//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// StubVulnerabilityRepository implements repositories.VulnerabilityRepository
// as a configurable spy.
type StubVulnerabilityRepository struct {
	FeedName string

	// HonorContext makes Lookup fail with the context error once ctx is done,
	// like a network-backed feed would.
	HonorContext bool

	// --- Lookup ---
	Records   map[string][]entities.Vulnerability
	LookupErr error
	LookedUp  []string

	// --- AuditProject ---
	Audit      []entities.Vulnerability
	AuditErr   error
	AuditCalls int
}

var _ repositories.VulnerabilityRepository = (*StubVulnerabilityRepository)(nil)

func (s *StubVulnerabilityRepository) Name() string {
	if s.FeedName == "" {
		return "stub"
	}
	return s.FeedName
}

func (s *StubVulnerabilityRepository) Lookup(ctx context.Context, name string) ([]entities.Vulnerability, error) {
	s.LookedUp = append(s.LookedUp, name)
	if s.HonorContext && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	return s.Records[name], nil
}

func (s *StubVulnerabilityRepository) AuditProject(_ context.Context, _ string) ([]entities.Vulnerability, error) {
	s.AuditCalls++
	return s.Audit, s.AuditErr
}

// StubSourceScannerRepository implements repositories.SourceScannerRepository.
type StubSourceScannerRepository struct {
	Imports map[string]struct{}
	ScanErr error
}

var _ repositories.SourceScannerRepository = (*StubSourceScannerRepository)(nil)

func (s *StubSourceScannerRepository) FindImportedPackageNames(
	_ context.Context, _ string,
) (map[string]struct{}, error) {
	return s.Imports, s.ScanErr
}
