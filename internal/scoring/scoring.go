// Package scoring computes the security and health scores of an analysis.
package scoring

import "github.com/rios0rios0/depwatch/internal/domain/entities"

const (
	maxScore = 100

	criticalPenalty = 40
	highPenalty     = 20
	moderatePenalty = 10
	lowPenalty      = 5

	vulnerabilityPenalty = 5
	outdatedPenalty      = 2
	outdatedCap          = 30
	unusedCap            = 20
	duplicatePenalty     = 3
	duplicateCap         = 15
)

// SecurityScore starts at 100 and subtracts a per-severity penalty for each
// vulnerability, floored at 0. A project without dependencies scores 100.
func SecurityScore(vulnerabilities []entities.Vulnerability, totalDependencies int) int {
	if totalDependencies == 0 {
		return maxScore
	}

	score := maxScore
	for _, vuln := range vulnerabilities {
		score -= severityPenalty(vuln.Severity)
	}
	return max(score, 0)
}

func severityPenalty(severity entities.Severity) int {
	switch severity {
	case entities.SeverityCritical:
		return criticalPenalty
	case entities.SeverityHigh:
		return highPenalty
	case entities.SeverityModerate:
		return moderatePenalty
	default:
		return lowPenalty
	}
}

// HealthScore combines vulnerability, staleness, unused and duplicate penalties.
func HealthScore(vulnerabilities, outdated, unused, duplicateGroups int) int {
	score := maxScore
	score -= vulnerabilityPenalty * vulnerabilities
	score -= min(outdatedCap, outdatedPenalty*outdated)
	score -= min(unusedCap, unused)
	score -= min(duplicateCap, duplicatePenalty*duplicateGroups)
	return max(score, 0)
}
