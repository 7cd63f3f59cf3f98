package repositories

import (
	"fmt"

	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// InstallerRegistry manages all registered package manager implementations.
type InstallerRegistry struct {
	installers map[string]domainRepos.InstallerRepository
	order      []string
	fallback   string
}

// NewInstallerRegistry creates an empty installer registry. The fallback names
// the package manager used when no lock file identifies one.
func NewInstallerRegistry(fallback string) *InstallerRegistry {
	return &InstallerRegistry{
		installers: make(map[string]domainRepos.InstallerRepository),
		fallback:   fallback,
	}
}

// Register adds an installer under its name. Detection tries installers in
// registration order.
func (r *InstallerRegistry) Register(installer domainRepos.InstallerRepository) {
	if _, exists := r.installers[installer.Name()]; !exists {
		r.order = append(r.order, installer.Name())
	}
	r.installers[installer.Name()] = installer
}

// Get returns the installer with the given name, or nil if not registered.
func (r *InstallerRegistry) Get(name string) domainRepos.InstallerRepository {
	return r.installers[name]
}

// All returns every registered installer in registration order.
func (r *InstallerRegistry) All() []domainRepos.InstallerRepository {
	result := make([]domainRepos.InstallerRepository, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.installers[name])
	}
	return result
}

// Names returns the list of registered installer names.
func (r *InstallerRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// Detect returns the first installer that recognises the project, or the
// fallback installer when none does.
func (r *InstallerRegistry) Detect(projectPath string) (domainRepos.InstallerRepository, error) {
	for _, name := range r.order {
		if r.installers[name].Detect(projectPath) {
			return r.installers[name], nil
		}
	}
	if installer, ok := r.installers[r.fallback]; ok {
		return installer, nil
	}
	return nil, fmt.Errorf("no package manager detected for %q", projectPath)
}
