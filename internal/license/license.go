// Package license checks declared dependencies against a license policy.
package license

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// copyleftPrefixes are SPDX identifier prefixes whose terms reach the distributing project.
var copyleftPrefixes = []string{"GPL", "AGPL", "LGPL", "MPL", "EPL", "EUPL", "CDDL", "OSL", "SSPL", "CC-BY-SA"} //nolint:gochecknoglobals // read-only table

// CheckCompliance returns one issue per problem found, in dependency order.
// Missing licenses are always reported. Prohibited and not-allowed checks use
// the policy lists and compare SPDX identifiers case-insensitively; copyleft
// licenses on production dependencies always require disclosure, even when a
// policy issue was already reported for the same dependency.
func CheckCompliance(dependencies []entities.Dependency, policy entities.LicensePolicy) []entities.LicenseIssue {
	var issues []entities.LicenseIssue
	for _, dep := range dependencies {
		license := strings.TrimSpace(dep.License)
		if license == "" || strings.EqualFold(license, "UNLICENSED") || strings.EqualFold(license, "UNKNOWN") {
			issues = append(issues, entities.LicenseIssue{
				Dependency: dep.Name,
				License:    license,
				Kind:       entities.LicenseMissing,
				Issue:      "License information not available",
			})
			continue
		}

		switch {
		case containsFold(policy.Prohibited, license):
			issues = append(issues, entities.LicenseIssue{
				Dependency: dep.Name,
				License:    license,
				Kind:       entities.LicenseProhibited,
				Issue:      fmt.Sprintf("License %s is prohibited", license),
			})
		case len(policy.Allowed) > 0 && !containsFold(policy.Allowed, license):
			issues = append(issues, entities.LicenseIssue{
				Dependency: dep.Name,
				License:    license,
				Kind:       entities.LicenseNotAllowed,
				Issue:      fmt.Sprintf("License %s is not in the allowed list", license),
			})
		}

		if dep.Kind == entities.KindDirect && IsCopyleft(license) {
			issues = append(issues, entities.LicenseIssue{
				Dependency: dep.Name,
				License:    license,
				Kind:       entities.LicenseCopyleft,
				Issue:      fmt.Sprintf("Copyleft license %s may require source code disclosure", license),
			})
		}
	}
	return issues
}

// IsCopyleft reports whether any alternative of an SPDX expression is a copyleft license.
func IsCopyleft(expression string) bool {
	replacer := strings.NewReplacer("(", " ", ")", " ")
	for _, token := range strings.Fields(replacer.Replace(expression)) {
		upper := strings.ToUpper(token)
		if upper == "OR" || upper == "AND" || upper == "WITH" {
			continue
		}
		for _, prefix := range copyleftPrefixes {
			if strings.HasPrefix(upper, prefix) {
				return true
			}
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
