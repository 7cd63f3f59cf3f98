//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// SpyInstallerRepository implements repositories.InstallerRepository as a configurable spy.
type SpyInstallerRepository struct {
	// --- identity ---
	ManagerName string
	Detected    bool

	// --- Install ---
	InstallErrs  map[string]error
	OnInstall    func(projectPath, name, version string) error
	InstallCalls []InstallCall
}

// InstallCall records a single invocation of Install.
type InstallCall struct {
	ProjectPath string
	Name        string
	Version     string
}

var _ repositories.InstallerRepository = (*SpyInstallerRepository)(nil)

func (s *SpyInstallerRepository) Name() string {
	if s.ManagerName == "" {
		return "npm"
	}
	return s.ManagerName
}

func (s *SpyInstallerRepository) Detect(_ string) bool { return s.Detected }

func (s *SpyInstallerRepository) Install(_ context.Context, projectPath, name, version string) error {
	s.InstallCalls = append(s.InstallCalls, InstallCall{ProjectPath: projectPath, Name: name, Version: version})
	if err, ok := s.InstallErrs[name]; ok {
		return err
	}
	if s.OnInstall != nil {
		return s.OnInstall(projectPath, name, version)
	}
	return nil
}

// StubTestRunnerRepository implements repositories.TestRunnerRepository.
type StubTestRunnerRepository struct {
	Report   entities.TestReport
	RunErr   error
	RunCalls int
}

var _ repositories.TestRunnerRepository = (*StubTestRunnerRepository)(nil)

func (s *StubTestRunnerRepository) Run(ctx context.Context, _ string) (entities.TestReport, error) {
	s.RunCalls++
	if err := ctx.Err(); err != nil {
		return entities.TestReport{}, err
	}
	return s.Report, s.RunErr
}
