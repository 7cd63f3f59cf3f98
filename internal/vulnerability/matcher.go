// Package vulnerability matches installed versions against vulnerability records.
//
// Range matching is a best-effort textual and ordinal check, not a semantic range
// resolver. A non-match means "not proven vulnerable", never "proven safe".
package vulnerability

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/versions"
)

// Matcher decides whether installed versions fall inside affected ranges.
type Matcher struct {
	comparator versions.Comparator
}

// NewMatcher creates a Matcher ordering versions with the given comparator.
func NewMatcher(comparator versions.Comparator) *Matcher {
	return &Matcher{comparator: comparator}
}

// Matches reports whether installed is inside affectedRange. The installed
// version matches when the range string contains it, or when every comparator
// of some "||" clause holds for it.
func (it *Matcher) Matches(installed, affectedRange string) bool {
	cleaned := strings.TrimLeft(strings.TrimSpace(installed), "^~")
	if cleaned == "" || strings.TrimSpace(affectedRange) == "" {
		return false
	}
	if strings.Contains(affectedRange, cleaned) {
		return true
	}
	return it.matchesOrdinal(cleaned, affectedRange)
}

// matchesOrdinal applies only the comparator clauses of affectedRange.
func (it *Matcher) matchesOrdinal(installed, affectedRange string) bool {
	for _, clause := range strings.Split(affectedRange, "||") {
		if it.clauseMatches(installed, clause) {
			return true
		}
	}
	return false
}

func (it *Matcher) clauseMatches(installed, clause string) bool {
	fields := strings.FieldsFunc(clause, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return false
	}

	for _, field := range fields {
		operator, bound := splitOperator(field)
		if bound == "" {
			return false
		}
		cmp := it.comparator.Compare(installed, bound)
		if !operatorHolds(operator, cmp) {
			return false
		}
	}
	return true
}

// splitOperator separates a comparator such as "<=1.2.3" into "<=" and "1.2.3".
func splitOperator(field string) (string, string) {
	for _, op := range []string{"<=", ">=", "<", ">", "="} {
		if strings.HasPrefix(field, op) {
			return op, strings.TrimSpace(strings.TrimPrefix(field, op))
		}
	}
	return "=", strings.TrimLeft(field, "^~v")
}

func operatorHolds(operator string, cmp int) bool {
	switch operator {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return cmp == 0
	}
}

// CoversTarget reports whether updating to target resolves vuln. A known
// patched range must admit the target; without one, the record must advertise
// a fix and the target must fall outside the affected range by comparison
// alone, since "<2.0.0" textually contains the fixed version 2.0.0.
func (it *Matcher) CoversTarget(vuln entities.Vulnerability, target string) bool {
	if strings.TrimSpace(vuln.PatchedRange) != "" {
		if covered, ok := constraintAdmits(vuln.PatchedRange, target); ok {
			return covered
		}
		return it.Matches(target, vuln.PatchedRange)
	}
	cleaned := strings.TrimLeft(strings.TrimSpace(target), "^~")
	if cleaned == "" || strings.TrimSpace(vuln.AffectedRange) == "" {
		return false
	}
	return vuln.FixAvailable && !it.matchesOrdinal(cleaned, vuln.AffectedRange)
}

// constraintAdmits checks target against a range with Masterminds semver. The
// second return value is false when either side cannot be parsed.
func constraintAdmits(constraintRange, target string) (bool, bool) {
	constraint, err := semver.NewConstraint(constraintRange)
	if err != nil {
		return false, false
	}
	version, err := semver.NewVersion(versions.Clean(target))
	if err != nil {
		return false, false
	}
	return constraint.Check(version), true
}

// PatchedVersion returns the lowest version named by a patched range such as
// ">=4.17.21" or "^2.0.1", or "" when the range has no usable lower bound.
func PatchedVersion(patchedRange string) string {
	for _, clause := range strings.Split(patchedRange, "||") {
		for _, field := range strings.Fields(clause) {
			operator, bound := splitOperator(field)
			if operator == "<" || operator == "<=" || operator == ">" {
				continue
			}
			if bound != "" {
				return versions.Clean(bound)
			}
		}
	}
	return ""
}
