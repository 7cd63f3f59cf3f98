//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// VulnerabilityBuilder helps create test vulnerability records.
type VulnerabilityBuilder struct {
	*testkit.BaseBuilder
	vuln entities.Vulnerability
}

func defaultVulnerability() entities.Vulnerability {
	return entities.Vulnerability{
		ID:             "GHSA-test-0001",
		Severity:       entities.SeverityModerate,
		Title:          "Test vulnerability",
		AffectedRange:  "<1.0.1",
		PatchedRange:   ">=1.0.1",
		Dependency:     "test-dependency",
		Recommendation: "Upgrade to 1.0.1 or later",
		FixAvailable:   true,
	}
}

// NewVulnerabilityBuilder creates a new vulnerability builder with sensible defaults.
func NewVulnerabilityBuilder() *VulnerabilityBuilder {
	return &VulnerabilityBuilder{BaseBuilder: testkit.NewBaseBuilder(), vuln: defaultVulnerability()}
}

// WithID sets the advisory identifier.
func (b *VulnerabilityBuilder) WithID(id string) *VulnerabilityBuilder {
	b.vuln.ID = id
	return b
}

// WithSeverity sets the severity.
func (b *VulnerabilityBuilder) WithSeverity(severity entities.Severity) *VulnerabilityBuilder {
	b.vuln.Severity = severity
	return b
}

// WithDependency sets the affected dependency name.
func (b *VulnerabilityBuilder) WithDependency(name string) *VulnerabilityBuilder {
	b.vuln.Dependency = name
	return b
}

// WithAffectedRange sets the affected range.
func (b *VulnerabilityBuilder) WithAffectedRange(affected string) *VulnerabilityBuilder {
	b.vuln.AffectedRange = affected
	return b
}

// WithPatchedRange sets the patched range; an empty string means unknown.
func (b *VulnerabilityBuilder) WithPatchedRange(patched string) *VulnerabilityBuilder {
	b.vuln.PatchedRange = patched
	return b
}

// WithTitle sets the title.
func (b *VulnerabilityBuilder) WithTitle(title string) *VulnerabilityBuilder {
	b.vuln.Title = title
	return b
}

// WithFixAvailable sets the fix availability flag.
func (b *VulnerabilityBuilder) WithFixAvailable(available bool) *VulnerabilityBuilder {
	b.vuln.FixAvailable = available
	return b
}

// Build creates the vulnerability (satisfies testkit.Builder interface).
func (b *VulnerabilityBuilder) Build() interface{} {
	return b.BuildVulnerability()
}

// BuildVulnerability creates the vulnerability with a concrete return type.
func (b *VulnerabilityBuilder) BuildVulnerability() entities.Vulnerability {
	return b.vuln
}

// Reset clears the builder state, allowing it to be reused.
func (b *VulnerabilityBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.vuln = defaultVulnerability()
	return b
}

// Clone creates a deep copy of the VulnerabilityBuilder.
func (b *VulnerabilityBuilder) Clone() testkit.Builder {
	return &VulnerabilityBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		vuln:        b.vuln,
	}
}
