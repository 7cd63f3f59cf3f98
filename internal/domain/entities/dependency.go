package entities

import (
	"sort"
	"strings"

	"github.com/package-url/packageurl-go"
)

// DependencyKind is the manifest section a dependency was declared in.
type DependencyKind string

const (
	KindDirect   DependencyKind = "direct"
	KindDev      DependencyKind = "dev"
	KindPeer     DependencyKind = "peer"
	KindOptional DependencyKind = "optional"
)

// Dependency is a single declared dependency of a project.
type Dependency struct {
	Name             string         `json:"name"                     yaml:"name"`
	VersionRange     string         `json:"versionRange"             yaml:"versionRange"`
	InstalledVersion string         `json:"installedVersion"         yaml:"installedVersion"`
	Kind             DependencyKind `json:"kind"                     yaml:"kind"`
	License          string         `json:"license,omitempty"        yaml:"license,omitempty"`
	Size             int64          `json:"size,omitempty"           yaml:"size,omitempty"`
	LatestVersion    string         `json:"latestVersion,omitempty"  yaml:"latestVersion,omitempty"`
}

// PackageURL returns the purl of the dependency at its installed version.
func (d Dependency) PackageURL() string {
	return NpmPackageURL(d.Name, d.InstalledVersion)
}

// NpmPackageURL builds a pkg:npm purl, splitting scoped names into namespace and name.
func NpmPackageURL(name, version string) string {
	namespace := ""
	if strings.HasPrefix(name, "@") {
		if scope, pkg, ok := strings.Cut(name, "/"); ok {
			namespace = scope
			name = pkg
		}
	}
	return packageurl.NewPackageURL(packageurl.TypeNPM, namespace, name, version, nil, "").ToString()
}

// Manifest holds the dependency sections of a project manifest (package.json).
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Records flattens the manifest into one Dependency per declared entry.
// Kinds are emitted in direct, dev, peer, optional order and names are sorted
// within each kind.
func (m *Manifest) Records() []Dependency {
	sections := []struct {
		kind    DependencyKind
		entries map[string]string
	}{
		{KindDirect, m.Dependencies},
		{KindDev, m.DevDependencies},
		{KindPeer, m.PeerDependencies},
		{KindOptional, m.OptionalDependencies},
	}

	var records []Dependency
	for _, section := range sections {
		names := make([]string, 0, len(section.entries))
		for name := range section.entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			records = append(records, Dependency{
				Name:         name,
				VersionRange: section.entries[name],
				Kind:         section.kind,
			})
		}
	}
	return records
}

// PackageMetadata is the registry information known about a package. Size is
// the unpacked size of LatestVersion; VersionSizes holds the sizes of every
// published version the registry reported one for.
type PackageMetadata struct {
	Name          string
	License       string
	LatestVersion string
	Size          int64
	VersionSizes  map[string]int64
}

// SizeOf returns the unpacked size of version, or 0 when unknown.
func (m PackageMetadata) SizeOf(version string) int64 {
	if size, ok := m.VersionSizes[version]; ok {
		return size
	}
	if version == m.LatestVersion {
		return m.Size
	}
	return 0
}

// OutdatedPackage is a dependency with a newer version available.
type OutdatedPackage struct {
	Name    string `json:"name"    yaml:"name"`
	Current string `json:"current" yaml:"current"`
	Latest  string `json:"latest"  yaml:"latest"`
}

// DuplicateGroup lists the distinct versions of a package found in the graph.
type DuplicateGroup struct {
	Name     string   `json:"name"     yaml:"name"`
	Versions []string `json:"versions" yaml:"versions"`
}

// LicenseIssueKind classifies a license compliance finding.
type LicenseIssueKind string

const (
	LicenseMissing    LicenseIssueKind = "missing"
	LicenseProhibited LicenseIssueKind = "prohibited"
	LicenseNotAllowed LicenseIssueKind = "not_allowed"
	LicenseCopyleft   LicenseIssueKind = "copyleft"
)

// LicenseIssue is a license compliance finding for one dependency.
type LicenseIssue struct {
	Dependency string           `json:"dependency"        yaml:"dependency"`
	License    string           `json:"license,omitempty" yaml:"license,omitempty"`
	Kind       LicenseIssueKind `json:"kind"              yaml:"kind"`
	Issue      string           `json:"issue"             yaml:"issue"`
}
