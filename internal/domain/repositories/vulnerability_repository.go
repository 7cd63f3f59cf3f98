package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// VulnerabilityRepository is a source of vulnerability records. A feed may only
// support one of the two channels and return nil from the other.
type VulnerabilityRepository interface {
	// Name returns the feed identifier (e.g. "osv", "advisories", "npm-audit").
	Name() string

	// Lookup returns every known record for the named package.
	Lookup(ctx context.Context, name string) ([]entities.Vulnerability, error)

	// AuditProject returns the records reported for a whole project.
	AuditProject(ctx context.Context, projectPath string) ([]entities.Vulnerability, error)
}
