//go:build unit

package commands_test

import (
	"github.com/rios0rios0/depwatch/internal/cache"
	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/versions"
	"github.com/rios0rios0/depwatch/internal/vulnerability"
	"github.com/rios0rios0/depwatch/test/domain/entitybuilders"
	"github.com/rios0rios0/depwatch/test/infrastructure/repositorydoubles"
)

// engineFixture holds the collaborators of the analysis commands.
type engineFixture struct {
	manifests *repositorydoubles.StubManifestRepository
	trees     *repositorydoubles.StubTreeRepository
	registry  *repositorydoubles.StubRegistryRepository
	outdated  *repositorydoubles.StubOutdatedRepository
	sources   *repositorydoubles.StubSourceScannerRepository
	feed      *repositorydoubles.StubVulnerabilityRepository
	settings  *entities.Settings
	cache     *cache.AnalysisCache
}

func newEngineFixture(manifest *entities.Manifest) *engineFixture {
	return &engineFixture{
		manifests: &repositorydoubles.StubManifestRepository{Manifest: manifest},
		trees:     &repositorydoubles.StubTreeRepository{ListErr: entities.ErrCollaboratorUnavailable},
		registry:  &repositorydoubles.StubRegistryRepository{},
		outdated:  &repositorydoubles.StubOutdatedRepository{},
		sources:   &repositorydoubles.StubSourceScannerRepository{Imports: map[string]struct{}{}},
		feed:      &repositorydoubles.StubVulnerabilityRepository{FeedName: "advisories"},
		settings:  entities.DefaultSettings(),
		cache:     cache.NewAnalysisCache(),
	}
}

func (f *engineFixture) analyzeCommand() *commands.AnalyzeCommand {
	comparator := versions.NewSemverComparator()
	matcher := vulnerability.NewMatcher(comparator)
	scanner := vulnerability.NewScanner(matcher, []repositories.VulnerabilityRepository{f.feed})
	return commands.NewAnalyzeCommand(
		f.manifests, f.trees, f.registry, f.outdated, f.sources, scanner, comparator, f.cache, f.settings,
	)
}

func (f *engineFixture) recommendCommand() *commands.RecommendCommand {
	comparator := versions.NewSemverComparator()
	return commands.NewRecommendCommand(
		f.analyzeCommand(),
		commands.NewTreeCommand(f.manifests, f.trees),
		comparator,
		vulnerability.NewMatcher(comparator),
	)
}

// lodashExpressFixture is a project pinning a lodash release with a critical
// advisory next to an up-to-date express.
func lodashExpressFixture() *engineFixture {
	fixture := newEngineFixture(&entities.Manifest{
		Name:         "shop",
		Version:      "1.0.0",
		Dependencies: map[string]string{"lodash": "4.17.20", "express": "4.18.0"},
	})
	fixture.registry.Metadata = map[string]*entities.PackageMetadata{
		"lodash":  {Name: "lodash", License: "MIT", LatestVersion: "4.17.21"},
		"express": {Name: "express", License: "MIT", LatestVersion: "5.1.0"},
	}
	fixture.outdated.Packages = []entities.OutdatedPackage{
		{Name: "express", Current: "4.18.0", Latest: "5.1.0"},
		{Name: "lodash", Current: "4.17.20", Latest: "4.17.21"},
	}
	fixture.sources.Imports = map[string]struct{}{"lodash": {}, "express": {}}
	fixture.feed.Records = map[string][]entities.Vulnerability{
		"lodash": {
			entitybuilders.NewVulnerabilityBuilder().
				WithID("GHSA-lodash-rce").
				WithSeverity(entities.SeverityCritical).
				WithTitle("Remote code execution in lodash").
				WithDependency("lodash").
				WithAffectedRange("<4.17.21").
				WithPatchedRange(">=4.17.21").
				BuildVulnerability(),
		},
	}
	return fixture
}
