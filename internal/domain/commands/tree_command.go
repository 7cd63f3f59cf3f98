package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/graph"
	"github.com/rios0rios0/depwatch/internal/versions"
)

// Tree is the interface for the dependency tree command.
type Tree interface {
	BuildDependencyTree(ctx context.Context, projectPath string) (*entities.DependencyTreeNode, error)
}

// TreeCommand builds the resolved dependency tree of a project.
type TreeCommand struct {
	manifests repositories.ManifestRepository
	trees     repositories.TreeRepository
}

// NewTreeCommand creates a new TreeCommand.
func NewTreeCommand(
	manifests repositories.ManifestRepository,
	trees repositories.TreeRepository,
) *TreeCommand {
	return &TreeCommand{manifests: manifests, trees: trees}
}

// BuildDependencyTree builds the tree from the package manager's listing. When
// the listing is unavailable the tree holds only the declared dependencies.
func (it *TreeCommand) BuildDependencyTree(
	ctx context.Context,
	projectPath string,
) (*entities.DependencyTreeNode, error) {
	manifest, err := it.manifests.Read(ctx, projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest of %q: %w", projectPath, err)
	}

	listing, err := it.trees.List(ctx, projectPath)
	if err != nil || listing == nil {
		logger.Warnf("[tree] Listing unavailable for %s, using declared dependencies: %v", projectPath, err)
		listing = declaredListing(manifest)
	}
	if listing.Version == "" {
		listing.Version = manifest.Version
	}

	return graph.BuildTree(projectName(manifest, projectPath), listing), nil
}

// declaredListing builds a one-level listing from the manifest's records.
func declaredListing(manifest *entities.Manifest) *entities.PackageListing {
	listing := &entities.PackageListing{
		Name:         manifest.Name,
		Version:      manifest.Version,
		Dependencies: make(map[string]*entities.PackageListing),
	}
	for _, record := range manifest.Records() {
		if _, exists := listing.Dependencies[record.Name]; exists {
			continue
		}
		listing.Dependencies[record.Name] = &entities.PackageListing{
			Name:    record.Name,
			Version: versions.Clean(record.VersionRange),
		}
	}
	return listing
}
