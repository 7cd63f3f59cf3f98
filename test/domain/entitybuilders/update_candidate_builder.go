//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// UpdateCandidateBuilder helps create test update candidates. Class, breaking
// flag and risk are kept consistent with each other by the setters.
type UpdateCandidateBuilder struct {
	*testkit.BaseBuilder
	candidate entities.UpdateCandidate
}

func defaultCandidate() entities.UpdateCandidate {
	return entities.UpdateCandidate{
		Name:           "test-dependency",
		CurrentVersion: "1.0.0",
		TargetVersion:  "1.0.1",
		Class:          entities.UpdatePatch,
		Risk:           entities.RiskLow,
	}
}

// NewUpdateCandidateBuilder creates a patch-level candidate by default.
func NewUpdateCandidateBuilder() *UpdateCandidateBuilder {
	return &UpdateCandidateBuilder{BaseBuilder: testkit.NewBaseBuilder(), candidate: defaultCandidate()}
}

// WithName sets the dependency name.
func (b *UpdateCandidateBuilder) WithName(name string) *UpdateCandidateBuilder {
	b.candidate.Name = name
	return b
}

// WithVersions sets the current and target versions.
func (b *UpdateCandidateBuilder) WithVersions(current, target string) *UpdateCandidateBuilder {
	b.candidate.CurrentVersion = current
	b.candidate.TargetVersion = target
	return b
}

// WithClass sets the update class and the derived breaking flag and risk.
func (b *UpdateCandidateBuilder) WithClass(class entities.UpdateClass) *UpdateCandidateBuilder {
	b.candidate.Class = class
	b.candidate.Breaking = class == entities.UpdateMajor
	b.candidate.Risk = entities.RiskForClass(class)
	return b
}

// WithSecurityFix marks the candidate as fixing a vulnerability.
func (b *UpdateCandidateBuilder) WithSecurityFix(fix bool) *UpdateCandidateBuilder {
	b.candidate.SecurityFix = fix
	return b
}

// Build creates the candidate (satisfies testkit.Builder interface).
func (b *UpdateCandidateBuilder) Build() interface{} {
	return b.BuildCandidate()
}

// BuildCandidate creates the candidate with a concrete return type.
func (b *UpdateCandidateBuilder) BuildCandidate() entities.UpdateCandidate {
	return b.candidate
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpdateCandidateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.candidate = defaultCandidate()
	return b
}

// Clone creates a deep copy of the UpdateCandidateBuilder.
func (b *UpdateCandidateBuilder) Clone() testkit.Builder {
	return &UpdateCandidateBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		candidate:   b.candidate,
	}
}
