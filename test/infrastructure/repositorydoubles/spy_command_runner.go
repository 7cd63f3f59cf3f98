//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"
	"sync"

	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/npm"
)

// CommandResult is the canned outcome of one command line.
type CommandResult struct {
	Output []byte
	Err    error
}

// SpyCommandRunner implements npm.CommandRunner. Results are keyed by the
// command line joined with spaces (e.g. "npm ls --all --json").
type SpyCommandRunner struct {
	Results map[string]CommandResult

	// OnRun, when set, runs before the canned result is returned.
	OnRun func(ctx context.Context, dir, line string)

	mu    sync.Mutex
	calls []string
}

var _ npm.CommandRunner = (*SpyCommandRunner)(nil)

func (s *SpyCommandRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	s.mu.Lock()
	s.calls = append(s.calls, line)
	s.mu.Unlock()

	if s.OnRun != nil {
		s.OnRun(ctx, dir, line)
	}
	result := s.Results[line]
	return result.Output, result.Err
}

// Calls returns the command lines run so far.
func (s *SpyCommandRunner) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
