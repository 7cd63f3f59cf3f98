package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// npm init writes this placeholder test script; it always fails.
const placeholderTestScript = "no test specified"

// TestRunnerRepository runs `npm test`.
type TestRunnerRepository struct {
	runner CommandRunner
}

// NewTestRunnerRepository creates a new TestRunnerRepository.
func NewTestRunnerRepository(runner CommandRunner) *TestRunnerRepository {
	return &TestRunnerRepository{runner: runner}
}

// Run executes the project's test script. A project without a real test
// script passes. A failing script is a failed report, not an error; an error
// is returned only when the run was cancelled.
func (it *TestRunnerRepository) Run(ctx context.Context, projectPath string) (entities.TestReport, error) {
	script, err := testScript(projectPath)
	if err != nil {
		return entities.TestReport{}, err
	}
	if script == "" || strings.Contains(script, placeholderTestScript) {
		logger.Infof("[npm] No test script in %s, skipping tests", projectPath)
		return entities.TestReport{Success: true, Output: "no test script defined"}, nil
	}

	logger.Infof("[npm] Running tests in %s", projectPath)
	output, runErr := it.runner.Run(ctx, projectPath, "npm", "test")
	if ctxErr := ctx.Err(); ctxErr != nil {
		return entities.TestReport{Success: false, Output: string(output)}, ctxErr
	}
	if runErr != nil {
		return entities.TestReport{Success: false, Output: string(output) + runErr.Error()}, nil
	}
	return entities.TestReport{Success: true, Output: string(output)}, nil
}

func testScript(projectPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, manifestFile))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", manifestFile, err)
	}
	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		return "", fmt.Errorf("failed to parse %s: %w", manifestFile, unmarshalErr)
	}
	return manifest.Scripts["test"], nil
}
