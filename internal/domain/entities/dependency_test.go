//go:build unit

package entities_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

func TestManifest_Records(t *testing.T) {
	t.Parallel()

	t.Run("should emit kinds in order with sorted names", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := &entities.Manifest{
			Dependencies:     map[string]string{"lodash": "^4.17.20", "express": "~4.18.0"},
			DevDependencies:  map[string]string{"jest": "^29.7.0"},
			PeerDependencies: map[string]string{"react": ">=18"},
		}

		// when
		records := manifest.Records()

		// then
		assert.Equal(t, []entities.Dependency{
			{Name: "express", VersionRange: "~4.18.0", Kind: entities.KindDirect},
			{Name: "lodash", VersionRange: "^4.17.20", Kind: entities.KindDirect},
			{Name: "jest", VersionRange: "^29.7.0", Kind: entities.KindDev},
			{Name: "react", VersionRange: ">=18", Kind: entities.KindPeer},
		}, records)
	})

	t.Run("should keep a name declared under two kinds twice", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := &entities.Manifest{
			Dependencies:    map[string]string{"typescript": "^5.0.0"},
			DevDependencies: map[string]string{"typescript": "^5.4.0"},
		}

		// when
		counts := entities.CountDependencies(manifest.Records())

		// then
		assert.Equal(t, entities.DependencyCounts{Total: 2, Direct: 1, Dev: 1}, counts)
	})
}

func TestDependency_PackageURL(t *testing.T) {
	t.Parallel()

	t.Run("should split scoped names into namespace and name", func(t *testing.T) {
		t.Parallel()

		// given
		dependency := entities.Dependency{Name: "@babel/core", InstalledVersion: "7.24.0"}

		// when
		purl := dependency.PackageURL()

		// then
		assert.True(t, strings.HasPrefix(purl, "pkg:npm/"))
		assert.True(t, strings.HasSuffix(purl, "babel/core@7.24.0"))
	})

	t.Run("should build a plain purl for unscoped names", func(t *testing.T) {
		t.Parallel()

		// given
		dependency := entities.Dependency{Name: "lodash", InstalledVersion: "4.17.21"}

		// when
		purl := dependency.PackageURL()

		// then
		assert.Equal(t, "pkg:npm/lodash@4.17.21", purl)
	})
}

func TestPackageMetadata_SizeOf(t *testing.T) {
	t.Parallel()

	t.Run("should prefer the per-version size and fall back to the latest size", func(t *testing.T) {
		t.Parallel()

		// given
		metadata := entities.PackageMetadata{
			LatestVersion: "2.0.0",
			Size:          2048,
			VersionSizes:  map[string]int64{"1.0.0": 1024},
		}

		// when / then
		assert.Equal(t, int64(1024), metadata.SizeOf("1.0.0"))
		assert.Equal(t, int64(2048), metadata.SizeOf("2.0.0"))
		assert.Equal(t, int64(0), metadata.SizeOf("1.5.0"))
	})
}

func TestParseUpdateStrategy(t *testing.T) {
	t.Parallel()

	t.Run("should accept known strategies case-insensitively", func(t *testing.T) {
		t.Parallel()

		// given
		raw := " Conservative "

		// when
		strategy, err := entities.ParseUpdateStrategy(raw)

		// then
		assert.NoError(t, err)
		assert.Equal(t, entities.StrategyConservative, strategy)
	})

	t.Run("should reject unknown strategies", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "yolo"

		// when
		_, err := entities.ParseUpdateStrategy(raw)

		// then
		assert.Error(t, err)
	})
}

func TestAnalysisResult_Clone(t *testing.T) {
	t.Parallel()

	t.Run("should not share slices with the original", func(t *testing.T) {
		t.Parallel()

		// given
		original := &entities.AnalysisResult{
			Unused:     []string{"left-pad"},
			Duplicates: []entities.DuplicateGroup{{Name: "qs", Versions: []string{"6.11.0", "6.13.0"}}},
		}

		// when
		clone := original.Clone()
		clone.Unused[0] = "changed"
		clone.Duplicates[0].Versions[0] = "0.0.0"

		// then
		assert.Equal(t, "left-pad", original.Unused[0])
		assert.Equal(t, "6.11.0", original.Duplicates[0].Versions[0])
	})

	t.Run("should not share registry version sizes with the original", func(t *testing.T) {
		t.Parallel()

		// given
		original := &entities.AnalysisResult{
			Registry: map[string]entities.PackageMetadata{
				"axios": {Name: "axios", VersionSizes: map[string]int64{"1.6.0": 1800}},
			},
		}

		// when
		clone := original.Clone()
		clone.Registry["axios"].VersionSizes["1.6.0"] = 1
		clone.Registry["axios"].VersionSizes["1.7.0"] = 2000

		// then
		assert.Equal(t, map[string]int64{"1.6.0": 1800}, original.Registry["axios"].VersionSizes)
	})
}
