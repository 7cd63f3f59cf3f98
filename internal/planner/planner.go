// Package planner derives, filters and orders update candidates.
package planner

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/graph"
	"github.com/rios0rios0/depwatch/internal/versions"
	"github.com/rios0rios0/depwatch/internal/vulnerability"
)

// Input is everything BuildCandidates needs from an analysis.
type Input struct {
	Outdated        []entities.OutdatedPackage
	Vulnerabilities []entities.Vulnerability
	Dependencies    []entities.Dependency
	Metadata        map[string]entities.PackageMetadata
	Tree            *entities.DependencyTreeNode
	Comparator      versions.Comparator
	Matcher         *vulnerability.Matcher
}

// BuildCandidates proposes one update per outdated package, followed by one per
// vulnerable dependency that is not outdated but has a known patched version.
func BuildCandidates(input Input) []entities.UpdateCandidate {
	installed := make(map[string]entities.Dependency, len(input.Dependencies))
	for _, dep := range input.Dependencies {
		if _, seen := installed[dep.Name]; !seen {
			installed[dep.Name] = dep
		}
	}

	var candidates []entities.UpdateCandidate
	planned := make(map[string]struct{})

	for _, pkg := range input.Outdated {
		if _, dup := planned[pkg.Name]; dup || pkg.Latest == "" {
			continue
		}
		if !versions.IsNewerVersion(input.Comparator, pkg.Current, pkg.Latest) {
			continue
		}
		planned[pkg.Name] = struct{}{}
		candidates = append(candidates, newCandidate(input, installed, pkg.Name, pkg.Current, pkg.Latest))
	}

	var securityOnly []string
	targets := make(map[string]string)
	for _, vuln := range input.Vulnerabilities {
		if _, done := planned[vuln.Dependency]; done {
			continue
		}
		target := vulnerability.PatchedVersion(vuln.PatchedRange)
		if target == "" {
			continue
		}
		current, known := targets[vuln.Dependency]
		if !known {
			securityOnly = append(securityOnly, vuln.Dependency)
		}
		if !known || input.Comparator.Compare(target, current) > 0 {
			targets[vuln.Dependency] = target
		}
	}

	for _, name := range securityOnly {
		dep, ok := installed[name]
		if !ok {
			continue
		}
		current := dep.InstalledVersion
		if current == "" {
			current = versions.Clean(dep.VersionRange)
		}
		if !versions.IsNewerVersion(input.Comparator, current, targets[name]) {
			continue
		}
		candidates = append(candidates, newCandidate(input, installed, name, current, targets[name]))
	}

	return candidates
}

func newCandidate(
	input Input,
	installed map[string]entities.Dependency,
	name, current, target string,
) entities.UpdateCandidate {
	class := input.Comparator.Classify(current, target)
	candidate := entities.UpdateCandidate{
		Name:           name,
		CurrentVersion: current,
		TargetVersion:  target,
		Class:          class,
		Breaking:       input.Comparator.IsBreaking(current, target),
		Risk:           entities.RiskForClass(class),
		Impact: entities.UpdateImpact{
			AffectedDependents: graph.Dependents(input.Tree, name),
		},
	}

	for _, vuln := range input.Vulnerabilities {
		if vuln.Dependency == name && input.Matcher.CoversTarget(vuln, target) {
			candidate.SecurityFix = true
			break
		}
	}

	if metadata, ok := input.Metadata[name]; ok {
		currentSize := metadata.SizeOf(current)
		if currentSize == 0 {
			currentSize = installed[name].Size
		}
		if targetSize := metadata.SizeOf(target); targetSize > 0 && currentSize > 0 {
			candidate.Impact.SizeDelta = targetSize - currentSize
		}
	}
	return candidate
}

// FilterByStrategy keeps the candidates a strategy admits. Conservative keeps
// non-breaking patches and security fixes, moderate keeps everything that is
// non-breaking or a security fix, and aggressive keeps all.
func FilterByStrategy(
	candidates []entities.UpdateCandidate,
	strategy entities.UpdateStrategy,
) []entities.UpdateCandidate {
	var kept []entities.UpdateCandidate
	for _, candidate := range candidates {
		if admits(candidate, strategy) {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func admits(candidate entities.UpdateCandidate, strategy entities.UpdateStrategy) bool {
	switch strategy {
	case entities.StrategyConservative:
		return !candidate.Breaking && (candidate.Class == entities.UpdatePatch || candidate.SecurityFix)
	case entities.StrategyModerate:
		return !candidate.Breaking || candidate.SecurityFix
	default:
		return true
	}
}

// DetectConflicts flags every breaking candidate.
func DetectConflicts(candidates []entities.UpdateCandidate) []entities.Conflict {
	var conflicts []entities.Conflict
	for _, candidate := range candidates {
		if candidate.Breaking {
			conflicts = append(conflicts, entities.Conflict{
				Name: candidate.Name,
				Issue: fmt.Sprintf(
					"Major version update from %s to %s may contain breaking changes",
					candidate.CurrentVersion, candidate.TargetVersion,
				),
			})
		}
	}
	return conflicts
}

// Prioritize returns a copy ordered security fixes first, then non-breaking
// before breaking, then by ascending risk. Equal candidates keep their order.
func Prioritize(candidates []entities.UpdateCandidate) []entities.UpdateCandidate {
	ordered := append([]entities.UpdateCandidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.SecurityFix != b.SecurityFix {
			return a.SecurityFix
		}
		if a.Breaking != b.Breaking {
			return !a.Breaking
		}
		return a.Risk.Rank() < b.Risk.Rank()
	})
	return ordered
}
