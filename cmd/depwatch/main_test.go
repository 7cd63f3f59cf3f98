//go:build unit

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBootstrapConfigPath(t *testing.T) {
	t.Parallel()

	t.Run("should read the long flag among subcommand flags", func(t *testing.T) {
		t.Parallel()

		// given
		args := []string{"update", "--strategy", "aggressive", "--config", "ci/depwatch.yaml", "--dry-run"}

		// when
		path := bootstrapConfigPath(args)

		// then
		assert.Equal(t, "ci/depwatch.yaml", path)
	})

	t.Run("should read the shorthand with an equals sign", func(t *testing.T) {
		t.Parallel()

		// given
		args := []string{"tree", "-c=depwatch.yml", "."}

		// when
		path := bootstrapConfigPath(args)

		// then
		assert.Equal(t, "depwatch.yml", path)
	})

	t.Run("should return empty when no config is given", func(t *testing.T) {
		t.Parallel()

		// given
		args := []string{"analyze", "--output", "json", "."}

		// when
		path := bootstrapConfigPath(args)

		// then
		assert.Empty(t, path)
	})
}

func TestBuildRootCommand(t *testing.T) {
	t.Parallel()

	t.Run("should expose the global flags", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := buildRootCommand(nil)

		// when
		flags := cmd.PersistentFlags()

		// then
		for _, name := range []string{"config", "output", "verbose"} {
			assert.NotNil(t, flags.Lookup(name), name)
		}
		assert.Equal(t, "text", flags.Lookup("output").DefValue)
	})
}
