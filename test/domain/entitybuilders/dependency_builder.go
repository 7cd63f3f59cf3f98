//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name             string
	versionRange     string
	installedVersion string
	kind             entities.DependencyKind
	license          string
	size             int64
	latestVersion    string
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder:      testkit.NewBaseBuilder(),
		name:             "test-dependency",
		versionRange:     "^1.0.0",
		installedVersion: "1.0.0",
		kind:             entities.KindDirect,
		license:          "MIT",
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithVersion sets both the declared range and the installed version.
func (b *DependencyBuilder) WithVersion(version string) *DependencyBuilder {
	b.versionRange = version
	b.installedVersion = version
	return b
}

// WithVersionRange sets the declared version range.
func (b *DependencyBuilder) WithVersionRange(versionRange string) *DependencyBuilder {
	b.versionRange = versionRange
	return b
}

// WithInstalledVersion sets the installed version.
func (b *DependencyBuilder) WithInstalledVersion(version string) *DependencyBuilder {
	b.installedVersion = version
	return b
}

// WithKind sets the manifest section.
func (b *DependencyBuilder) WithKind(kind entities.DependencyKind) *DependencyBuilder {
	b.kind = kind
	return b
}

// WithLicense sets the license identifier; an empty string means unknown.
func (b *DependencyBuilder) WithLicense(license string) *DependencyBuilder {
	b.license = license
	return b
}

// WithSize sets the package size in bytes.
func (b *DependencyBuilder) WithSize(size int64) *DependencyBuilder {
	b.size = size
	return b
}

// WithLatestVersion sets the latest known version.
func (b *DependencyBuilder) WithLatestVersion(version string) *DependencyBuilder {
	b.latestVersion = version
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() entities.Dependency {
	return entities.Dependency{
		Name:             b.name,
		VersionRange:     b.versionRange,
		InstalledVersion: b.installedVersion,
		Kind:             b.kind,
		License:          b.license,
		Size:             b.size,
		LatestVersion:    b.latestVersion,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-dependency"
	b.versionRange = "^1.0.0"
	b.installedVersion = "1.0.0"
	b.kind = entities.KindDirect
	b.license = "MIT"
	b.size = 0
	b.latestVersion = ""
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder:      b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:             b.name,
		versionRange:     b.versionRange,
		installedVersion: b.installedVersion,
		kind:             b.kind,
		license:          b.license,
		size:             b.size,
		latestVersion:    b.latestVersion,
	}
}
