package repositories

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// FeedFactory builds a vulnerability feed from the settings. It returns a nil
// feed when the settings disable it.
type FeedFactory func(settings *entities.Settings) (domainRepos.VulnerabilityRepository, error)

// FeedRegistry manages all registered vulnerability feed implementations.
type FeedRegistry struct {
	feeds map[string]FeedFactory
	order []string
}

// NewFeedRegistry creates an empty feed registry.
func NewFeedRegistry() *FeedRegistry {
	return &FeedRegistry{
		feeds: make(map[string]FeedFactory),
	}
}

// Register adds a feed factory under the given name (e.g. "osv").
func (r *FeedRegistry) Register(name string, factory FeedFactory) {
	if _, exists := r.feeds[name]; !exists {
		r.order = append(r.order, name)
	}
	r.feeds[name] = factory
}

// Get returns a configured feed instance for the given name.
func (r *FeedRegistry) Get(name string, settings *entities.Settings) (domainRepos.VulnerabilityRepository, error) {
	factory, ok := r.feeds[name]
	if !ok {
		return nil, fmt.Errorf("unknown vulnerability feed: %q", name)
	}
	return factory(settings)
}

// Enabled builds every feed the settings enable, in registration order. Feeds
// that fail to initialise are logged and left out.
func (r *FeedRegistry) Enabled(settings *entities.Settings) []domainRepos.VulnerabilityRepository {
	var feeds []domainRepos.VulnerabilityRepository
	for _, name := range r.order {
		feed, err := r.feeds[name](settings)
		if err != nil {
			logger.Warnf("[feeds] Failed to initialize %q: %v", name, err)
			continue
		}
		if feed != nil {
			feeds = append(feeds, feed)
		}
	}
	return feeds
}

// Names returns the list of registered feed names.
func (r *FeedRegistry) Names() []string {
	return append([]string(nil), r.order...)
}
