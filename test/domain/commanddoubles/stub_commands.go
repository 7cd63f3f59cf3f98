//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/license"
)

// StubAnalyzeCommand implements commands.Analyze with a fixed result.
type StubAnalyzeCommand struct {
	Result *entities.AnalysisResult
	Err    error

	mu           sync.Mutex
	analyzeCalls int
	cleared      []string
}

var _ commands.Analyze = (*StubAnalyzeCommand)(nil)

func (s *StubAnalyzeCommand) Analyze(_ context.Context, _ string) (*entities.AnalysisResult, error) {
	s.mu.Lock()
	s.analyzeCalls++
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

func (s *StubAnalyzeCommand) ScanVulnerabilities(
	_ context.Context, _ string, _ []entities.Dependency,
) []entities.Vulnerability {
	if s.Result == nil {
		return nil
	}
	return s.Result.Vulnerabilities
}

func (s *StubAnalyzeCommand) CheckLicenseCompliance(
	dependencies []entities.Dependency, allowed, prohibited []string,
) []entities.LicenseIssue {
	return license.CheckCompliance(dependencies, entities.LicensePolicy{Allowed: allowed, Prohibited: prohibited})
}

func (s *StubAnalyzeCommand) ClearCache(projectPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, projectPath)
}

// AnalyzeCalls returns how many times Analyze was called.
func (s *StubAnalyzeCommand) AnalyzeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzeCalls
}

// Cleared returns the paths passed to ClearCache.
func (s *StubAnalyzeCommand) Cleared() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cleared...)
}

// StubTreeCommand implements commands.Tree with a fixed tree.
type StubTreeCommand struct {
	Tree *entities.DependencyTreeNode
	Err  error
}

var _ commands.Tree = (*StubTreeCommand)(nil)

func (s *StubTreeCommand) BuildDependencyTree(_ context.Context, _ string) (*entities.DependencyTreeNode, error) {
	return s.Tree, s.Err
}

// StubRecommendCommand implements commands.Recommend and records the
// securityOnly argument of the last call.
type StubRecommendCommand struct {
	Candidates       []entities.UpdateCandidate
	Err              error
	LastSecurityOnly bool
}

var _ commands.Recommend = (*StubRecommendCommand)(nil)

func (s *StubRecommendCommand) GetUpdateRecommendations(
	_ context.Context, _ string, securityOnly bool,
) ([]entities.UpdateCandidate, error) {
	s.LastSecurityOnly = securityOnly
	return s.Candidates, s.Err
}

// SpyUpdateCommand implements commands.Update and records the options it received.
type SpyUpdateCommand struct {
	Result entities.UpdateResult

	PlanCalls    []entities.UpdateOptions
	ExecuteCalls []entities.UpdateOptions
}

var _ commands.Update = (*SpyUpdateCommand)(nil)

func (s *SpyUpdateCommand) Plan(
	updates []entities.UpdateCandidate, opts entities.UpdateOptions,
) entities.UpdateResult {
	s.PlanCalls = append(s.PlanCalls, opts)
	result := s.Result
	result.Plan = updates
	return result
}

func (s *SpyUpdateCommand) Execute(
	_ context.Context, _ string, _ []entities.UpdateCandidate, opts entities.UpdateOptions,
) entities.UpdateResult {
	s.ExecuteCalls = append(s.ExecuteCalls, opts)
	return s.Result
}
