package commands

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/depwatch/internal/cache"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/depwatch/internal/versions"
	"github.com/rios0rios0/depwatch/internal/vulnerability"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register the engine components shared by the commands
	if err := container.Provide(func() versions.Comparator {
		return versions.NewSemverComparator()
	}); err != nil {
		return err
	}
	if err := container.Provide(vulnerability.NewMatcher); err != nil {
		return err
	}
	if err := container.Provide(func(
		matcher *vulnerability.Matcher,
		feeds *infraRepos.FeedRegistry,
		settings *entities.Settings,
	) *vulnerability.Scanner {
		return vulnerability.NewScanner(matcher, feeds.Enabled(settings))
	}); err != nil {
		return err
	}
	if err := container.Provide(func(settings *entities.Settings) *cache.AnalysisCache {
		return cache.NewAnalysisCache(cache.WithTTL(settings.Cache.TTL))
	}); err != nil {
		return err
	}

	// Register command constructors
	if err := container.Provide(NewAnalyzeCommand); err != nil {
		return err
	}
	if err := container.Provide(NewTreeCommand); err != nil {
		return err
	}
	if err := container.Provide(NewRecommendCommand); err != nil {
		return err
	}
	if err := container.Provide(NewUpdateCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *AnalyzeCommand) Analyze {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *TreeCommand) Tree {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *RecommendCommand) Recommend {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *UpdateCommand) Update {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
