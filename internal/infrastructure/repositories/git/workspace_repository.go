package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"
)

// WorkspaceRepository inspects the git worktree containing a project.
type WorkspaceRepository struct{}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{}
}

// HasUncommittedChanges reports whether any of files is modified, staged or
// untracked. A project outside a git repository has no uncommitted changes.
func (it *WorkspaceRepository) HasUncommittedChanges(
	ctx context.Context,
	projectPath string,
	files []string,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	repo, err := gogit.PlainOpenWithOptions(projectPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			logger.Debugf("[git] %s is not inside a git repository", projectPath)
			return false, nil
		}
		return false, fmt.Errorf("failed to open git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}

	root := resolvePath(worktree.Filesystem.Root())
	for _, file := range files {
		rel, relErr := filepath.Rel(root, resolvePath(file))
		if relErr != nil {
			continue
		}
		entry, ok := status[filepath.ToSlash(rel)]
		if !ok {
			continue
		}
		if entry.Staging != gogit.Unmodified || entry.Worktree != gogit.Unmodified {
			logger.Debugf("[git] %s has uncommitted changes", rel)
			return true, nil
		}
	}
	return false, nil
}

// resolvePath makes a path absolute and resolves symlinks in its directory,
// so temp directories behind symlinks compare equal to the worktree root.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs
	}
	return filepath.Join(dir, filepath.Base(abs))
}
