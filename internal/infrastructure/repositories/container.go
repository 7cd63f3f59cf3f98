package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/advisories"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/git"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/npm"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/osv"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/registry"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/sourcescan"
	"github.com/rios0rios0/depwatch/internal/versions"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	providers := []interface{}{
		func() npm.CommandRunner { return npm.NewExecRunner() },
		func() domainRepos.ManifestRepository { return npm.NewManifestRepository() },
		func(runner npm.CommandRunner) domainRepos.TreeRepository { return npm.NewTreeRepository(runner) },
		func(runner npm.CommandRunner) domainRepos.OutdatedRepository { return npm.NewOutdatedRepository(runner) },
		func(runner npm.CommandRunner) domainRepos.TestRunnerRepository {
			return npm.NewTestRunnerRepository(runner)
		},
		func(settings *entities.Settings) domainRepos.RegistryRepository {
			return registry.NewNpmRegistryRepository(settings)
		},
		func(settings *entities.Settings) domainRepos.SourceScannerRepository {
			return sourcescan.NewImportScannerRepository(settings)
		},
		func(settings *entities.Settings) domainRepos.BackupRepository {
			return filesystem.NewBackupRepository(settings)
		},
		func() domainRepos.WorkspaceRepository { return git.NewWorkspaceRepository() },
		func() domainRepos.WatcherRepository { return filesystem.NewWatcherRepository(0) },
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}

	// Register feed registry with all vulnerability feed factories
	if err := container.Provide(func(runner npm.CommandRunner) *FeedRegistry {
		reg := NewFeedRegistry()
		reg.Register("advisories", func(settings *entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			if settings.Vulnerabilities.Advisories == "" {
				return nil, nil
			}
			return advisories.NewRepository(settings.Vulnerabilities.Advisories), nil
		})
		reg.Register("osv", func(settings *entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			if !settings.Vulnerabilities.OSV.Enabled {
				return nil, nil
			}
			return osv.NewRepository(settings, versions.NewSemverComparator()), nil
		})
		reg.Register("npm-audit", func(settings *entities.Settings) (domainRepos.VulnerabilityRepository, error) {
			if !settings.Vulnerabilities.Audit {
				return nil, nil
			}
			return npm.NewAuditRepository(runner), nil
		})
		return reg
	}); err != nil {
		return err
	}

	// Register installer registry with all package managers
	if err := container.Provide(func(runner npm.CommandRunner) *InstallerRegistry {
		reg := NewInstallerRegistry("npm")
		reg.Register(npm.NewPnpmInstaller(runner))
		reg.Register(npm.NewYarnInstaller(runner))
		reg.Register(npm.NewNpmInstaller(runner))
		return reg
	}); err != nil {
		return err
	}

	return nil
}
