package entities

import (
	"maps"
	"slices"
	"time"
)

// DependencyCounts counts declared dependencies per kind.
type DependencyCounts struct {
	Total    int `json:"total"    yaml:"total"`
	Direct   int `json:"direct"   yaml:"direct"`
	Dev      int `json:"dev"      yaml:"dev"`
	Peer     int `json:"peer"     yaml:"peer"`
	Optional int `json:"optional" yaml:"optional"`
}

// CountDependencies tallies records by kind.
func CountDependencies(records []Dependency) DependencyCounts {
	counts := DependencyCounts{Total: len(records)}
	for _, record := range records {
		switch record.Kind {
		case KindDirect:
			counts.Direct++
		case KindDev:
			counts.Dev++
		case KindPeer:
			counts.Peer++
		case KindOptional:
			counts.Optional++
		}
	}
	return counts
}

// AnalysisResult is the snapshot of one analysis run for a project path.
type AnalysisResult struct {
	ProjectPath     string            `json:"projectPath"        yaml:"projectPath"`
	Counts          DependencyCounts  `json:"counts"             yaml:"counts"`
	Dependencies    []Dependency      `json:"dependencies"       yaml:"dependencies"`
	Vulnerabilities []Vulnerability   `json:"vulnerabilities"    yaml:"vulnerabilities"`
	Outdated        []OutdatedPackage `json:"outdated"           yaml:"outdated"`
	Unused          []string          `json:"unused"             yaml:"unused"`
	Duplicates      []DuplicateGroup  `json:"duplicates"         yaml:"duplicates"`
	LicenseIssues   []LicenseIssue    `json:"licenseIssues"      yaml:"licenseIssues"`
	Recommendations []Recommendation  `json:"recommendations"    yaml:"recommendations"`
	SecurityScore   int               `json:"securityScore"      yaml:"securityScore"`
	HealthScore     int               `json:"healthScore"        yaml:"healthScore"`
	Warnings        []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	AnalyzedAt      time.Time         `json:"analyzedAt"         yaml:"analyzedAt"`

	// Registry keeps the metadata fetched for each dependency name. Its values
	// are never modified after the analysis completes.
	Registry map[string]PackageMetadata `json:"-" yaml:"-"`
}

// Clone returns a copy that shares no slices or maps with the receiver.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Dependencies = slices.Clone(r.Dependencies)
	clone.Vulnerabilities = slices.Clone(r.Vulnerabilities)
	clone.Outdated = slices.Clone(r.Outdated)
	clone.Unused = slices.Clone(r.Unused)
	clone.LicenseIssues = slices.Clone(r.LicenseIssues)
	clone.Warnings = slices.Clone(r.Warnings)
	if r.Registry != nil {
		clone.Registry = make(map[string]PackageMetadata, len(r.Registry))
		for name, metadata := range r.Registry {
			metadata.VersionSizes = maps.Clone(metadata.VersionSizes)
			clone.Registry[name] = metadata
		}
	}

	clone.Duplicates = make([]DuplicateGroup, len(r.Duplicates))
	for i, group := range r.Duplicates {
		clone.Duplicates[i] = DuplicateGroup{Name: group.Name, Versions: slices.Clone(group.Versions)}
	}
	clone.Recommendations = make([]Recommendation, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		rec.Dependencies = slices.Clone(rec.Dependencies)
		clone.Recommendations[i] = rec
	}
	return &clone
}
