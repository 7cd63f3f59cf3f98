package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/planner"
	"github.com/rios0rios0/depwatch/internal/versions"
	"github.com/rios0rios0/depwatch/internal/vulnerability"
)

// Recommend is the interface for the update recommendation command.
type Recommend interface {
	GetUpdateRecommendations(
		ctx context.Context, projectPath string, securityOnly bool,
	) ([]entities.UpdateCandidate, error)
}

// RecommendCommand turns an analysis into prioritized update candidates.
type RecommendCommand struct {
	analyze    Analyze
	tree       Tree
	comparator versions.Comparator
	matcher    *vulnerability.Matcher
}

// NewRecommendCommand creates a new RecommendCommand.
func NewRecommendCommand(
	analyze Analyze,
	tree Tree,
	comparator versions.Comparator,
	matcher *vulnerability.Matcher,
) *RecommendCommand {
	return &RecommendCommand{
		analyze:    analyze,
		tree:       tree,
		comparator: comparator,
		matcher:    matcher,
	}
}

// GetUpdateRecommendations returns the update candidates of a project, security
// fixes first. With securityOnly, candidates that fix no vulnerability are dropped.
func (it *RecommendCommand) GetUpdateRecommendations(
	ctx context.Context,
	projectPath string,
	securityOnly bool,
) ([]entities.UpdateCandidate, error) {
	result, err := it.analyze.Analyze(ctx, projectPath)
	if err != nil {
		return nil, err
	}

	tree, err := it.tree.BuildDependencyTree(ctx, projectPath)
	if err != nil {
		logger.Warnf("[recommend] Dependency tree unavailable, dependents will not be reported: %v", err)
		tree = nil
	}

	candidates := planner.BuildCandidates(planner.Input{
		Outdated:        result.Outdated,
		Vulnerabilities: result.Vulnerabilities,
		Dependencies:    result.Dependencies,
		Metadata:        result.Registry,
		Tree:            tree,
		Comparator:      it.comparator,
		Matcher:         it.matcher,
	})

	if securityOnly {
		filtered := candidates[:0]
		for _, candidate := range candidates {
			if candidate.SecurityFix {
				filtered = append(filtered, candidate)
			}
		}
		candidates = filtered
	}

	logger.Debugf("[recommend] %d update candidates for %s", len(candidates), projectPath)
	return planner.Prioritize(candidates), nil
}
