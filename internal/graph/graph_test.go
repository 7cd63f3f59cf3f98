//go:build unit

package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/graph"
)

func sampleListing() *entities.PackageListing {
	return &entities.PackageListing{
		Version: "1.0.0",
		Size:    10,
		Dependencies: map[string]*entities.PackageListing{
			"express": {
				Version: "4.18.2",
				Size:    100,
				Dependencies: map[string]*entities.PackageListing{
					"qs":          {Version: "6.11.0", Size: 20},
					"body-parser": {Version: "1.20.1", Size: 30, Dependencies: map[string]*entities.PackageListing{"qs": {Version: "6.11.0", Size: 20}}},
				},
			},
			"lodash": {Version: "4.17.21", Size: 500},
		},
	}
}

func TestBuildTree(t *testing.T) {
	t.Parallel()

	t.Run("should order children by name and assign depths", func(t *testing.T) {
		t.Parallel()

		// when
		root := graph.BuildTree("my-app", sampleListing())

		// then
		assert.Equal(t, "my-app", root.Name)
		assert.Equal(t, 0, root.Depth)
		require.Len(t, root.Dependencies, 2)
		assert.Equal(t, "express", root.Dependencies[0].Name)
		assert.Equal(t, "lodash", root.Dependencies[1].Name)

		express := root.Dependencies[0]
		assert.Equal(t, 1, express.Depth)
		require.Len(t, express.Dependencies, 2)
		assert.Equal(t, "body-parser", express.Dependencies[0].Name)
		assert.Equal(t, 2, express.Dependencies[0].Depth)
		assert.Equal(t, 3, express.Dependencies[0].Dependencies[0].Depth)
	})

	t.Run("should aggregate sizes bottom-up", func(t *testing.T) {
		t.Parallel()

		// when
		root := graph.BuildTree("my-app", sampleListing())

		// then
		express := root.Dependencies[0]
		assert.Equal(t, int64(50), express.Dependencies[0].Size)
		assert.Equal(t, int64(100+50+20), express.Size)
		assert.Equal(t, int64(10+170+500), root.Size)
	})

	t.Run("should produce distinct nodes for a package reached twice", func(t *testing.T) {
		t.Parallel()

		// when
		root := graph.BuildTree("my-app", sampleListing())

		// then
		express := root.Dependencies[0]
		viaBodyParser := express.Dependencies[0].Dependencies[0]
		direct := express.Dependencies[1]
		assert.Equal(t, "qs", viaBodyParser.Name)
		assert.Equal(t, "qs", direct.Name)
		assert.NotSame(t, viaBodyParser, direct)
	})

	t.Run("should return a bare root for a missing listing", func(t *testing.T) {
		t.Parallel()

		// when
		root := graph.BuildTree("empty", nil)

		// then
		assert.Equal(t, "empty", root.Name)
		assert.Empty(t, root.Dependencies)
	})

	t.Run("should handle very deep listings", func(t *testing.T) {
		t.Parallel()

		// given
		listing := &entities.PackageListing{Version: "1.0.0"}
		current := listing
		for range 10000 {
			next := &entities.PackageListing{Version: "1.0.0", Size: 1}
			current.Dependencies = map[string]*entities.PackageListing{"pkg": next}
			current = next
		}

		// when
		root := graph.BuildTree("deep", listing)

		// then
		assert.Equal(t, int64(10000), root.Size)
	})
}

func TestFindDuplicates(t *testing.T) {
	t.Parallel()

	t.Run("should report a package installed at two versions", func(t *testing.T) {
		t.Parallel()

		// given
		packages := []entities.NameVersion{
			{Name: "lodash", Version: "4.17.20"},
			{Name: "lodash", Version: "4.17.21"},
			{Name: "react", Version: "18.2.0"},
		}

		// when
		groups := graph.FindDuplicates(packages)

		// then
		assert.Equal(t, []entities.DuplicateGroup{
			{Name: "lodash", Versions: []string{"4.17.20", "4.17.21"}},
		}, groups)
	})

	t.Run("should ignore repeated identical versions", func(t *testing.T) {
		t.Parallel()

		// given
		packages := []entities.NameVersion{
			{Name: "qs", Version: "6.11.0"},
			{Name: "qs", Version: "6.11.0"},
		}

		// when
		groups := graph.FindDuplicates(packages)

		// then
		assert.Empty(t, groups)
	})

	t.Run("should keep groups in first-seen order", func(t *testing.T) {
		t.Parallel()

		// given
		packages := []entities.NameVersion{
			{Name: "b", Version: "1"}, {Name: "a", Version: "1"},
			{Name: "a", Version: "2"}, {Name: "b", Version: "2"},
		}

		// when
		groups := graph.FindDuplicates(packages)

		// then
		require.Len(t, groups, 2)
		assert.Equal(t, "b", groups[0].Name)
		assert.Equal(t, "a", groups[1].Name)
	})
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	// given
	root := graph.BuildTree("my-app", sampleListing())

	// when
	flat := graph.Flatten(root)

	// then
	names := make([]string, 0, len(flat))
	for _, pkg := range flat {
		names = append(names, pkg.Name)
	}
	assert.Equal(t, "express body-parser qs qs lodash", strings.Join(names, " "))
}

func TestDependents(t *testing.T) {
	t.Parallel()

	// given
	root := graph.BuildTree("my-app", sampleListing())

	// when
	dependents := graph.Dependents(root, "qs")

	// then
	assert.Equal(t, []string{"express", "body-parser"}, dependents)
	assert.Empty(t, graph.Dependents(root, "express"))
}
