//go:build unit

package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/scoring"
	"github.com/rios0rios0/depwatch/test/domain/entitybuilders"
)

func vulns(severities ...entities.Severity) []entities.Vulnerability {
	result := make([]entities.Vulnerability, 0, len(severities))
	for _, severity := range severities {
		result = append(result, entitybuilders.NewVulnerabilityBuilder().WithSeverity(severity).BuildVulnerability())
	}
	return result
}

func TestSecurityScore(t *testing.T) {
	t.Parallel()

	t.Run("should score 100 without vulnerabilities", func(t *testing.T) {
		t.Parallel()
		for _, total := range []int{0, 1, 50} {
			assert.Equal(t, 100, scoring.SecurityScore(nil, total))
		}
	})

	t.Run("should score 100 when there are no dependencies", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, scoring.SecurityScore(vulns(entities.SeverityCritical), 0))
	})

	t.Run("should apply the per-severity penalties", func(t *testing.T) {
		t.Parallel()

		// given
		found := vulns(entities.SeverityHigh, entities.SeverityModerate, entities.SeverityLow)

		// when
		score := scoring.SecurityScore(found, 10)

		// then
		assert.Equal(t, 65, score)
	})

	t.Run("should strictly decrease when a critical vulnerability is added", func(t *testing.T) {
		t.Parallel()

		// given
		before := vulns(entities.SeverityLow)
		after := append(vulns(entities.SeverityLow), vulns(entities.SeverityCritical)...)

		// when
		scoreBefore := scoring.SecurityScore(before, 5)
		scoreAfter := scoring.SecurityScore(after, 5)

		// then
		assert.Less(t, scoreAfter, scoreBefore)
	})

	t.Run("should never go below zero", func(t *testing.T) {
		t.Parallel()

		// given
		found := vulns(entities.SeverityCritical, entities.SeverityCritical, entities.SeverityCritical)

		// when
		score := scoring.SecurityScore(found, 3)

		// then
		assert.Equal(t, 0, score)
	})
}

func TestHealthScore(t *testing.T) {
	t.Parallel()

	t.Run("should score 100 for a clean project", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, scoring.HealthScore(0, 0, 0, 0))
	})

	t.Run("should cap the outdated, unused and duplicate penalties", func(t *testing.T) {
		t.Parallel()

		// when
		score := scoring.HealthScore(0, 100, 100, 100)

		// then
		assert.Equal(t, 100-30-20-15, score)
	})

	t.Run("should never increase when a count grows", func(t *testing.T) {
		t.Parallel()

		for n := range 40 {
			assert.LessOrEqual(t, scoring.HealthScore(n+1, 0, 0, 0), scoring.HealthScore(n, 0, 0, 0))
			assert.LessOrEqual(t, scoring.HealthScore(1, n+1, 0, 0), scoring.HealthScore(1, n, 0, 0))
			assert.LessOrEqual(t, scoring.HealthScore(1, 1, n+1, 0), scoring.HealthScore(1, 1, n, 0))
			assert.LessOrEqual(t, scoring.HealthScore(1, 1, 1, n+1), scoring.HealthScore(1, 1, 1, n))
		}
	})

	t.Run("should never go below zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, scoring.HealthScore(50, 50, 50, 50))
	})
}
