//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/versions"
	"github.com/rios0rios0/depwatch/test/domain/entitybuilders"
)

func TestAnalyzeCommand_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("should flag the vulnerable lodash with a critical recommendation", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := lodashExpressFixture()
		command := fixture.analyzeCommand()

		// when
		result, err := command.Analyze(context.Background(), "/work/shop")

		// then
		require.NoError(t, err)
		assert.Less(t, result.SecurityScore, 100)
		require.Len(t, result.Vulnerabilities, 1)
		assert.Equal(t, "lodash", result.Vulnerabilities[0].Dependency)

		var critical []entities.Recommendation
		for _, rec := range result.Recommendations {
			if rec.Priority == entities.PriorityCritical {
				critical = append(critical, rec)
			}
		}
		require.Len(t, critical, 1)
		assert.Equal(t, entities.CategorySecurity, critical[0].Category)
		assert.Contains(t, critical[0].Dependencies, "lodash")
		assert.Equal(t, entities.PriorityCritical, result.Recommendations[0].Priority)
	})

	t.Run("should count dependencies per kind and fill registry metadata", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newEngineFixture(&entities.Manifest{
			Dependencies:    map[string]string{"axios": "^1.6.0"},
			DevDependencies: map[string]string{"jest": "^29.7.0"},
		})
		fixture.registry.Metadata = map[string]*entities.PackageMetadata{
			"axios": {
				License: "MIT", LatestVersion: "1.7.0", Size: 2000,
				VersionSizes: map[string]int64{"1.6.0": 1800, "1.7.0": 2000},
			},
			"jest": {License: "MIT", LatestVersion: "29.7.0"},
		}
		fixture.sources.Imports = map[string]struct{}{"axios": {}}
		command := fixture.analyzeCommand()

		// when
		result, err := command.Analyze(context.Background(), "/work/api")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DependencyCounts{Total: 2, Direct: 1, Dev: 1}, result.Counts)
		assert.Equal(t, "1.6.0", result.Dependencies[0].InstalledVersion)
		assert.Equal(t, "1.7.0", result.Dependencies[0].LatestVersion)
		assert.Equal(t, int64(1800), result.Dependencies[0].Size)
		assert.Equal(t, 100, result.SecurityScore)
		assert.False(t, result.AnalyzedAt.IsZero())
	})

	t.Run("should take installed versions from the package listing", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newEngineFixture(&entities.Manifest{Dependencies: map[string]string{"express": "^4.18.0"}})
		bodyParser := &entities.PackageListing{
			Version:      "1.20.3",
			Dependencies: map[string]*entities.PackageListing{"qs": {Version: "6.11.0"}},
		}
		express := &entities.PackageListing{
			Version:      "4.21.2",
			Dependencies: map[string]*entities.PackageListing{"qs": {Version: "6.13.0"}, "body-parser": bodyParser},
		}
		fixture.trees.ListErr = nil
		fixture.trees.Listing = &entities.PackageListing{
			Dependencies: map[string]*entities.PackageListing{"express": express},
		}
		fixture.registry.Metadata = map[string]*entities.PackageMetadata{"express": {LatestVersion: "4.21.2"}}
		fixture.sources.Imports = map[string]struct{}{"express": {}}
		command := fixture.analyzeCommand()

		// when
		result, err := command.Analyze(context.Background(), "/work/api")

		// then
		require.NoError(t, err)
		assert.Equal(t, "4.21.2", result.Dependencies[0].InstalledVersion)
		require.Len(t, result.Duplicates, 1)
		assert.Equal(t, "qs", result.Duplicates[0].Name)
		assert.ElementsMatch(t, []string{"6.11.0", "6.13.0"}, result.Duplicates[0].Versions)
		assert.Empty(t, result.Warnings)
	})

	t.Run("should fail with ErrManifestNotFound when the project has no manifest", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newEngineFixture(nil)
		fixture.manifests.ReadErr = fmt.Errorf("%w: /work/none/package.json", entities.ErrManifestNotFound)
		command := fixture.analyzeCommand()

		// when
		result, err := command.Analyze(context.Background(), "/work/none")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrManifestNotFound)
		assert.Nil(t, result)
	})

	t.Run("should degrade to warnings when collaborators fail", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newEngineFixture(&entities.Manifest{Dependencies: map[string]string{"lodash": "4.17.20"}})
		fixture.registry.Metadata = map[string]*entities.PackageMetadata{"lodash": {LatestVersion: "4.17.21"}}
		fixture.outdated.ListErr = errors.New("npm: command not found")
		fixture.sources.ScanErr = errors.New("permission denied")
		fixture.feed.LookupErr = context.DeadlineExceeded
		command := fixture.analyzeCommand()

		// when
		result, err := command.Analyze(context.Background(), "/work/shop")

		// then
		require.NoError(t, err)
		assert.Empty(t, result.Vulnerabilities)
		assert.Equal(t, []entities.OutdatedPackage{
			{Name: "lodash", Current: "4.17.20", Latest: "4.17.21"},
		}, result.Outdated)
		assert.Empty(t, result.Unused)
		assert.GreaterOrEqual(t, len(result.Warnings), 4)
	})

	t.Run("should report direct dependencies that no source imports", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newEngineFixture(&entities.Manifest{
			Dependencies: map[string]string{
				"axios": "1.7.0", "left-pad": "1.3.0", "@types/express": "4.17.21",
			},
			DevDependencies: map[string]string{"eslint": "9.0.0"},
		})
		fixture.sources.Imports = map[string]struct{}{"axios": {}, "express": {}}
		command := fixture.analyzeCommand()

		// when
		result, err := command.Analyze(context.Background(), "/work/shop")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"left-pad"}, result.Unused)
	})

	t.Run("should serve repeated analyses from the cache until cleared", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := lodashExpressFixture()
		command := fixture.analyzeCommand()
		first, err := command.Analyze(context.Background(), "/work/shop")
		require.NoError(t, err)

		// when
		second, secondErr := command.Analyze(context.Background(), "/work/shop")
		command.ClearCache("/work/shop")
		third, thirdErr := command.Analyze(context.Background(), "/work/shop")

		// then
		require.NoError(t, secondErr)
		require.NoError(t, thirdErr)
		assert.Equal(t, first.AnalyzedAt, second.AnalyzedAt)
		assert.Equal(t, first.SecurityScore, third.SecurityScore)
		assert.Equal(t, 2, fixture.manifests.ReadCalls)
	})

	t.Run("should not serve an analysis cut short by cancellation to later callers", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := lodashExpressFixture()
		fixture.feed.HonorContext = true
		command := fixture.analyzeCommand()
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		partial, partialErr := command.Analyze(cancelled, "/work/shop")
		result, err := command.Analyze(context.Background(), "/work/shop")

		// then
		require.NoError(t, partialErr)
		assert.Empty(t, partial.Vulnerabilities)
		require.NoError(t, err)
		require.Len(t, result.Vulnerabilities, 1)
		assert.Equal(t, "GHSA-lodash-rce", result.Vulnerabilities[0].ID)
		assert.Less(t, result.SecurityScore, 100)
	})

	t.Run("should drop every cached analysis when cleared with an empty path", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := lodashExpressFixture()
		command := fixture.analyzeCommand()
		_, err := command.Analyze(context.Background(), "/work/shop")
		require.NoError(t, err)
		_, err = command.Analyze(context.Background(), "/work/other")
		require.NoError(t, err)

		// when
		command.ClearCache("")

		// then
		assert.Equal(t, 0, fixture.cache.Len())
	})
}

func TestAnalyzeCommand_CheckLicenseCompliance(t *testing.T) {
	t.Parallel()

	t.Run("should use the configured policy when no lists are given", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newEngineFixture(&entities.Manifest{})
		fixture.settings.Licenses.Prohibited = []string{"AGPL-3.0"}
		command := fixture.analyzeCommand()
		dependencies := []entities.Dependency{
			entitybuilders.NewDependencyBuilder().WithName("server-kit").WithLicense("AGPL-3.0").BuildDependency(),
		}

		// when
		issues := command.CheckLicenseCompliance(dependencies, nil, nil)

		// then
		require.NotEmpty(t, issues)
		assert.Equal(t, entities.LicenseProhibited, issues[0].Kind)
	})

	t.Run("should flag GPL-3.0 production dependencies and missing licenses", func(t *testing.T) {
		t.Parallel()

		// given
		command := newEngineFixture(&entities.Manifest{}).analyzeCommand()
		dependencies := []entities.Dependency{
			entitybuilders.NewDependencyBuilder().WithName("readline-gpl").WithLicense("GPL-3.0").BuildDependency(),
			entitybuilders.NewDependencyBuilder().WithName("mystery").WithLicense("").BuildDependency(),
		}

		// when
		issues := command.CheckLicenseCompliance(dependencies, []string{}, []string{})

		// then
		require.Len(t, issues, 2)
		assert.Equal(t, entities.LicenseCopyleft, issues[0].Kind)
		assert.Equal(t, entities.LicenseMissing, issues[1].Kind)
		assert.Equal(t, "License information not available", issues[1].Issue)
	})
}

func TestAnalyzeCommand_ScanVulnerabilities(t *testing.T) {
	t.Parallel()

	t.Run("should match dependencies against the feeds", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := lodashExpressFixture()
		command := fixture.analyzeCommand()
		dependencies := []entities.Dependency{
			entitybuilders.NewDependencyBuilder().WithName("lodash").WithVersion("4.17.20").BuildDependency(),
			entitybuilders.NewDependencyBuilder().WithName("express").WithVersion("4.18.0").BuildDependency(),
		}

		// when
		vulnerabilities := command.ScanVulnerabilities(context.Background(), "", dependencies)

		// then
		require.Len(t, vulnerabilities, 1)
		assert.Equal(t, "GHSA-lodash-rce", vulnerabilities[0].ID)
	})
}

func TestTypesTarget(t *testing.T) {
	t.Parallel()

	t.Run("should map type packages to the package they describe", func(t *testing.T) {
		t.Parallel()

		// given
		names := []string{"@types/node", "@types/babel__core", "lodash"}

		// when
		targets := []string{
			commands.TypesTarget(names[0]), commands.TypesTarget(names[1]), commands.TypesTarget(names[2]),
		}

		// then
		assert.Equal(t, []string{"node", "@babel/core", ""}, targets)
	})
}

func TestOutdatedFromRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should list dependencies whose latest registry version is newer", func(t *testing.T) {
		t.Parallel()

		// given
		records := []entities.Dependency{
			entitybuilders.NewDependencyBuilder().WithName("a").WithVersion("1.0.0").WithLatestVersion("1.1.0").BuildDependency(),
			entitybuilders.NewDependencyBuilder().WithName("b").WithVersion("2.0.0").WithLatestVersion("2.0.0").BuildDependency(),
			entitybuilders.NewDependencyBuilder().WithName("c").WithVersion("3.0.0").WithLatestVersion("").BuildDependency(),
		}

		// when
		outdated := commands.OutdatedFromRegistry(versions.NewSemverComparator(), records)

		// then
		assert.Equal(t, []entities.OutdatedPackage{{Name: "a", Current: "1.0.0", Latest: "1.1.0"}}, outdated)
	})
}
