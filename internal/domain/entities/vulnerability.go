package entities

import (
	"fmt"
	"strings"
)

// Severity is the severity of a vulnerability record.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from low (1) to critical (4). Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityModerate:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps the severity vocabularies used by npm audit, GHSA and
// OSV onto the four engine severities.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "moderate", "medium":
		return SeverityModerate, nil
	case "low", "info", "negligible":
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("unknown severity %q", raw)
	}
}

// Vulnerability is a known vulnerability affecting a range of versions of a dependency.
type Vulnerability struct {
	ID             string   `json:"id"                     yaml:"id"`
	Severity       Severity `json:"severity"               yaml:"severity"`
	Title          string   `json:"title"                  yaml:"title"`
	Description    string   `json:"description,omitempty"  yaml:"description,omitempty"`
	AffectedRange  string   `json:"affectedRange"          yaml:"affected"`
	PatchedRange   string   `json:"patchedRange,omitempty" yaml:"patched,omitempty"`
	Dependency     string   `json:"dependency"             yaml:"dependency"`
	Recommendation string   `json:"recommendation"         yaml:"recommendation"`
	FixAvailable   bool     `json:"fixAvailable"           yaml:"fix_available"`
	Source         string   `json:"source,omitempty"       yaml:"-"`
}
