// Package recommendation turns analysis findings into a prioritized action list.
package recommendation

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/versions"
)

// Input holds the findings of one analysis.
type Input struct {
	Vulnerabilities []entities.Vulnerability
	Outdated        []entities.OutdatedPackage
	Unused          []string
	Duplicates      []entities.DuplicateGroup
	LicenseIssues   []entities.LicenseIssue
	Dependencies    []entities.Dependency
}

// Generate applies the fixed rules in order and sorts the result by priority,
// highest first. Recommendations of equal priority keep rule order.
func Generate(input Input) []entities.Recommendation {
	var recommendations []entities.Recommendation

	if names, _ := affectedBy(input.Vulnerabilities, entities.SeverityCritical); len(names) > 0 {
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategorySecurity,
			Priority:     entities.PriorityCritical,
			Dependencies: names,
			Action:       fmt.Sprintf("Update %d dependencies with critical vulnerabilities immediately", len(names)),
			AutoFixable:  true,
			Impact:       "high",
			Effort:       "low",
		})
	}

	if names, fixable := affectedBy(input.Vulnerabilities, entities.SeverityHigh); len(names) > 0 {
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategorySecurity,
			Priority:     entities.PriorityHigh,
			Dependencies: names,
			Action:       fmt.Sprintf("Update %d dependencies with high-severity vulnerabilities", len(names)),
			AutoFixable:  fixable,
			Impact:       "high",
			Effort:       "medium",
		})
	}

	if len(input.Outdated) > 0 {
		names := make([]string, 0, len(input.Outdated))
		for _, pkg := range input.Outdated {
			names = appendUnique(names, pkg.Name)
		}
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategoryMaintenance,
			Priority:     entities.PriorityMedium,
			Dependencies: names,
			Action:       fmt.Sprintf("Update %d outdated dependencies", len(names)),
			Impact:       "medium",
			Effort:       "medium",
		})
	}

	if len(input.Unused) > 0 {
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategoryPerformance,
			Priority:     entities.PriorityMedium,
			Dependencies: append([]string(nil), input.Unused...),
			Action:       fmt.Sprintf("Remove %d unused dependencies", len(input.Unused)),
			AutoFixable:  true,
			Impact:       "medium",
			Effort:       "low",
		})
	}

	if len(input.Duplicates) > 0 {
		names := make([]string, 0, len(input.Duplicates))
		for _, group := range input.Duplicates {
			names = append(names, group.Name)
		}
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategoryPerformance,
			Priority:     entities.PriorityLow,
			Dependencies: names,
			Action:       fmt.Sprintf("Resolve %d packages installed at several versions", len(names)),
			Impact:       "low",
			Effort:       "medium",
		})
	}

	if len(input.LicenseIssues) > 0 {
		var names []string
		for _, issue := range input.LicenseIssues {
			names = appendUnique(names, issue.Dependency)
		}
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategoryLicense,
			Priority:     entities.PriorityMedium,
			Dependencies: names,
			Action:       fmt.Sprintf("Review license compliance of %d dependencies", len(names)),
			Impact:       "medium",
			Effort:       "medium",
		})
	}

	if names := peerMismatches(input.Dependencies); len(names) > 0 {
		recommendations = append(recommendations, entities.Recommendation{
			Category:     entities.CategoryCompatibility,
			Priority:     entities.PriorityLow,
			Dependencies: names,
			Action:       fmt.Sprintf("Align %d peer dependencies with their declared ranges", len(names)),
			Impact:       "low",
			Effort:       "low",
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority.Rank() > recommendations[j].Priority.Rank()
	})
	return recommendations
}

// affectedBy lists the dependencies hit by vulnerabilities of the given
// severity and whether every one of those vulnerabilities has a fix.
func affectedBy(vulnerabilities []entities.Vulnerability, severity entities.Severity) ([]string, bool) {
	var names []string
	fixable := true
	for _, vuln := range vulnerabilities {
		if vuln.Severity != severity {
			continue
		}
		names = appendUnique(names, vuln.Dependency)
		fixable = fixable && vuln.FixAvailable
	}
	return names, fixable
}

// peerMismatches lists peer dependencies whose installed version is outside
// the declared range and on a different major version.
func peerMismatches(dependencies []entities.Dependency) []string {
	var names []string
	for _, dep := range dependencies {
		if dep.Kind != entities.KindPeer || dep.InstalledVersion == "" || dep.VersionRange == "" {
			continue
		}
		constraint, err := semver.NewConstraint(dep.VersionRange)
		if err != nil {
			continue
		}
		installed, err := semver.NewVersion(versions.Clean(dep.InstalledVersion))
		if err != nil || constraint.Check(installed) {
			continue
		}
		if versions.Parse(dep.VersionRange).Major != versions.Parse(dep.InstalledVersion).Major {
			names = appendUnique(names, dep.Name)
		}
	}
	return names
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
