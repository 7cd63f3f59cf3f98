//go:build unit

package versions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/versions"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	comparator := versions.NewSemverComparator()

	t.Run("should classify the first differing component", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			current, target string
			expected        entities.UpdateClass
		}{
			{"1.2.3", "1.2.4", entities.UpdatePatch},
			{"1.2.3", "1.3.0", entities.UpdateMinor},
			{"1.2.3", "2.0.0", entities.UpdateMajor},
			{"^4.17.20", "4.17.21", entities.UpdatePatch},
			{"~1.0.0", "1.1.0", entities.UpdateMinor},
			{"1.0.0", "1.0.0", entities.UpdatePatch},
			{"1.0.0-beta.1", "1.0.0", entities.UpdatePatch},
		}

		for _, tc := range cases {
			// when
			result := comparator.Classify(tc.current, tc.target)

			// then
			assert.Equal(t, tc.expected, result, "%s -> %s", tc.current, tc.target)
		}
	})

	t.Run("should never report a wider gap as a smaller class", func(t *testing.T) {
		t.Parallel()

		// given
		ordered := []string{"0.0.1", "0.0.9", "0.1.0", "0.9.9", "1.0.0", "1.0.5", "1.2.0", "2.0.0", "2.3.4", "10.0.0"}

		for i := range ordered {
			for j := i + 1; j < len(ordered); j++ {
				for k := j + 1; k < len(ordered); k++ {
					// when
					near := comparator.Classify(ordered[i], ordered[j])
					far := comparator.Classify(ordered[i], ordered[k])

					// then
					assert.GreaterOrEqual(t, far.Rank(), near.Rank(),
						"classify(%s,%s)=%s < classify(%s,%s)=%s",
						ordered[i], ordered[k], far, ordered[i], ordered[j], near)
				}
			}
		}
	})

	t.Run("should default unparseable input to zero components", func(t *testing.T) {
		t.Parallel()

		// given
		current := "not-a-version"

		// when
		result := comparator.Classify(current, "0.0.7")

		// then
		assert.Equal(t, entities.UpdatePatch, result)
	})
}

func TestIsBreaking(t *testing.T) {
	t.Parallel()

	comparator := versions.NewSemverComparator()

	t.Run("should be breaking exactly when majors differ", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			current, target string
			expected        bool
		}{
			{"1.9.9", "2.0.0", true},
			{"1.0.0", "1.9.9", false},
			{"^3.1.0", "4.0.0", true},
			{"0.1.0", "0.2.0", false},
			{"garbage", "1.0.0", true},
		}

		for _, tc := range cases {
			// when
			result := comparator.IsBreaking(tc.current, tc.target)

			// then
			assert.Equal(t, tc.expected, result, "%s -> %s", tc.current, tc.target)
			assert.Equal(t, versions.Parse(tc.current).Major != versions.Parse(tc.target).Major, result)
		}
	})
}

func TestCompare(t *testing.T) {
	t.Parallel()

	comparator := versions.NewSemverComparator()

	t.Run("should order semantic versions", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, -1, comparator.Compare("4.17.20", "4.17.21"))
		assert.Equal(t, 1, comparator.Compare("v2.0.0", "1.99.99"))
		assert.Equal(t, 0, comparator.Compare("^1.2.3", "1.2.3"))
		assert.Equal(t, -1, comparator.Compare("1.0.0-rc.1", "1.0.0"))
	})

	t.Run("should fall back to numeric components for partial versions", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, -1, comparator.Compare("1.2", "1.10"))
		assert.Equal(t, 1, comparator.Compare("2", "1.9"))
	})

	t.Run("should detect newer versions", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.True(t, versions.IsNewerVersion(comparator, "1.0.0", "1.0.1"))
		assert.False(t, versions.IsNewerVersion(comparator, "1.0.1", "1.0.1"))
	})
}

func TestClean(t *testing.T) {
	t.Parallel()

	t.Run("should strip range operators and prefixes", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, "1.2.3", versions.Clean("^1.2.3"))
		assert.Equal(t, "1.2.3", versions.Clean("~1.2.3"))
		assert.Equal(t, "1.2.3", versions.Clean(">=v1.2.3 <2.0.0"))
		assert.Equal(t, "4.17.21", versions.Clean(" <4.17.21 "))
	})
}
