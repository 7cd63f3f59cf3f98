// Package versions compares version strings and classifies the distance between them.
//
// Comparison is advisory: malformed components fall back to 0 instead of failing,
// so a broken version string never blocks an analysis.
package versions

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// Comparator classifies and orders version strings. Scoring and planning only
// depend on this interface, so a full range-resolving implementation can replace
// the default one.
type Comparator interface {
	Classify(current, target string) entities.UpdateClass
	IsBreaking(current, target string) bool
	Compare(a, b string) int
}

// SemverComparator is the default Comparator backed by golang.org/x/mod/semver.
type SemverComparator struct{}

// NewSemverComparator creates the default comparator.
func NewSemverComparator() *SemverComparator {
	return &SemverComparator{}
}

// Classify returns the class of the first differing component, scanning major,
// minor, then patch. Identical versions classify as patch.
func (it *SemverComparator) Classify(current, target string) entities.UpdateClass {
	cur := Parse(current)
	tgt := Parse(target)

	switch {
	case cur.Major != tgt.Major:
		return entities.UpdateMajor
	case cur.Minor != tgt.Minor:
		return entities.UpdateMinor
	default:
		return entities.UpdatePatch
	}
}

// IsBreaking reports whether the major components differ.
func (it *SemverComparator) IsBreaking(current, target string) bool {
	return Parse(current).Major != Parse(target).Major
}

// Compare orders two versions, returning -1, 0 or +1. Valid semantic versions
// are compared with prerelease precedence; anything else by numeric components.
func (it *SemverComparator) Compare(a, b string) int {
	na := normalizeVersion(Clean(a))
	nb := normalizeVersion(Clean(b))
	if semver.IsValid(na) && semver.IsValid(nb) {
		return semver.Compare(na, nb)
	}
	return Parse(a).compare(Parse(b))
}

// IsNewerVersion reports whether candidate is strictly newer than current.
func IsNewerVersion(comparator Comparator, current, candidate string) bool {
	return comparator.Compare(candidate, current) > 0
}

// Version holds the numeric components of a version string.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) compare(other Version) int {
	for _, diff := range []int{v.Major - other.Major, v.Minor - other.Minor, v.Patch - other.Patch} {
		if diff < 0 {
			return -1
		}
		if diff > 0 {
			return 1
		}
	}
	return 0
}

// Parse extracts major, minor and patch from a version or simple range string.
// Prerelease and build qualifiers are ignored; missing or malformed components are 0.
func Parse(raw string) Version {
	cleaned := Clean(raw)
	if idx := strings.IndexAny(cleaned, "-+"); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	parts := strings.SplitN(cleaned, ".", 3) //nolint:mnd // major.minor.patch
	components := [3]int{}
	for i, part := range parts {
		components[i] = leadingInt(part)
	}
	return Version{Major: components[0], Minor: components[1], Patch: components[2]}
}

// Clean strips whitespace, range operators and a leading "v" from a version.
func Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimLeft(cleaned, "^~=<> ")
	cleaned = strings.TrimPrefix(cleaned, "v")
	if idx := strings.IndexAny(cleaned, " \t|,"); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return cleaned
}

// leadingInt parses the leading decimal digits of s; "x", "*" and garbage give 0.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
