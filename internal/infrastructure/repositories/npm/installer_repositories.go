package npm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
)

const (
	pkgMgrNpm  = "npm"
	pkgMgrYarn = "yarn"
	pkgMgrPnpm = "pnpm"
)

// InstallerRepository installs package versions with one package manager.
type InstallerRepository struct {
	name      string
	lockFiles []string
	command   []string
	runner    CommandRunner
}

// NewNpmInstaller installs with `npm install --save-exact`.
func NewNpmInstaller(runner CommandRunner) *InstallerRepository {
	return &InstallerRepository{
		name:      pkgMgrNpm,
		lockFiles: []string{"package-lock.json", "npm-shrinkwrap.json"},
		command:   []string{"install", "--save-exact"},
		runner:    runner,
	}
}

// NewYarnInstaller installs with `yarn add --exact`.
func NewYarnInstaller(runner CommandRunner) *InstallerRepository {
	return &InstallerRepository{
		name:      pkgMgrYarn,
		lockFiles: []string{"yarn.lock"},
		command:   []string{"add", "--exact"},
		runner:    runner,
	}
}

// NewPnpmInstaller installs with `pnpm add --save-exact`.
func NewPnpmInstaller(runner CommandRunner) *InstallerRepository {
	return &InstallerRepository{
		name:      pkgMgrPnpm,
		lockFiles: []string{"pnpm-lock.yaml"},
		command:   []string{"add", "--save-exact"},
		runner:    runner,
	}
}

func (it *InstallerRepository) Name() string { return it.name }

// Detect reports whether one of the package manager's lock files exists.
func (it *InstallerRepository) Detect(projectPath string) bool {
	for _, lockFile := range it.lockFiles {
		if _, err := os.Stat(filepath.Join(projectPath, lockFile)); err == nil {
			return true
		}
	}
	return false
}

func (it *InstallerRepository) Install(ctx context.Context, projectPath, name, version string) error {
	logger.Infof("[%s] Installing %s@%s", it.name, name, version)

	args := append(append([]string(nil), it.command...), name+"@"+version)
	if _, err := it.runner.Run(ctx, projectPath, it.name, args...); err != nil {
		return fmt.Errorf("failed to install %s@%s with %s: %w", name, version, it.name, err)
	}
	return nil
}
