package npm

import (
	"context"
	"encoding/json"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// TreeRepository lists the installed dependency tree with `npm ls`.
type TreeRepository struct {
	runner CommandRunner
}

// NewTreeRepository creates a new TreeRepository.
func NewTreeRepository(runner CommandRunner) *TreeRepository {
	return &TreeRepository{runner: runner}
}

// List runs `npm ls --all --json`. npm exits non-zero on missing or extraneous
// packages while still printing the tree, so the output wins over the exit status.
func (it *TreeRepository) List(ctx context.Context, projectPath string) (*entities.PackageListing, error) {
	output, runErr := it.runner.Run(ctx, projectPath, "npm", "ls", "--all", "--json")
	if len(output) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrCollaboratorUnavailable, runErr)
		}
		return nil, fmt.Errorf("%w: npm ls printed nothing", entities.ErrCollaboratorUnavailable)
	}

	var listing entities.PackageListing
	if err := json.Unmarshal(output, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse npm ls output: %w", err)
	}
	if runErr != nil {
		logger.Debugf("[npm] npm ls reported problems, using its output anyway: %v", runErr)
	}
	return &listing, nil
}
