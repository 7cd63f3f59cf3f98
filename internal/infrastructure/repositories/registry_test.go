//go:build unit

package repositories_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/depwatch/test/infrastructure/repositorydoubles"
)

func TestInstallerRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should register and retrieve an installer by name", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewInstallerRegistry("npm")
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "pnpm"})

		// when
		installer := reg.Get("pnpm")

		// then
		require.NotNil(t, installer)
		assert.Equal(t, "pnpm", installer.Name())
	})

	t.Run("should return nil for unknown installer", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewInstallerRegistry("npm")

		// when
		installer := reg.Get("bun")

		// then
		assert.Nil(t, installer)
	})

	t.Run("should keep registration order in All and Names", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewInstallerRegistry("npm")
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "pnpm"})
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "yarn"})
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "npm"})

		// when
		all := reg.All()
		names := reg.Names()

		// then
		assert.Len(t, all, 3)
		assert.Equal(t, []string{"pnpm", "yarn", "npm"}, names)
	})

	t.Run("should detect the first installer that recognises the project", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewInstallerRegistry("npm")
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "pnpm"})
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "yarn", Detected: true})
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "npm", Detected: true})

		// when
		installer, err := reg.Detect("/work/shop")

		// then
		require.NoError(t, err)
		assert.Equal(t, "yarn", installer.Name())
	})

	t.Run("should fall back when no lock file identifies the package manager", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewInstallerRegistry("npm")
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "pnpm"})
		reg.Register(&repositorydoubles.SpyInstallerRepository{ManagerName: "npm"})

		// when
		installer, err := reg.Detect("/work/shop")

		// then
		require.NoError(t, err)
		assert.Equal(t, "npm", installer.Name())
	})

	t.Run("should fail without a detected or fallback installer", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewInstallerRegistry("npm")

		// when
		_, err := reg.Detect("/work/shop")

		// then
		assert.Error(t, err)
	})
}

func TestFeedRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build a registered feed by name", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewFeedRegistry()
		reg.Register("osv", func(*entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			return &repositorydoubles.StubVulnerabilityRepository{FeedName: "osv"}, nil
		})

		// when
		feed, err := reg.Get("osv", entities.DefaultSettings())

		// then
		require.NoError(t, err)
		assert.Equal(t, "osv", feed.Name())
	})

	t.Run("should return error for unknown feed", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewFeedRegistry()

		// when
		_, err := reg.Get("snyk", entities.DefaultSettings())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown vulnerability feed")
	})

	t.Run("should leave out disabled and failing feeds", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewFeedRegistry()
		reg.Register("advisories", func(*entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			return nil, nil
		})
		reg.Register("osv", func(*entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			return &repositorydoubles.StubVulnerabilityRepository{FeedName: "osv"}, nil
		})
		reg.Register("broken", func(*entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			return nil, errors.New("boom")
		})

		// when
		feeds := reg.Enabled(entities.DefaultSettings())

		// then
		require.Len(t, feeds, 1)
		assert.Equal(t, "osv", feeds[0].Name())
		assert.Equal(t, []string{"advisories", "osv", "broken"}, reg.Names())
	})
}
