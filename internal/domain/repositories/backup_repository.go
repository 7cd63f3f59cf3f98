package repositories

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// BackupRepository snapshots and restores project files.
type BackupRepository interface {
	Create(ctx context.Context, projectPath string, files []string) (*entities.Backup, error)
	Restore(ctx context.Context, backup *entities.Backup) error
	Discard(ctx context.Context, backup *entities.Backup) error
}

// WorkspaceRepository inspects the version-control state of a project.
type WorkspaceRepository interface {
	// HasUncommittedChanges reports whether any of the files differ from HEAD.
	HasUncommittedChanges(ctx context.Context, projectPath string, files []string) (bool, error)
}

// WatcherRepository reports changes to a project's manifest and lock files.
type WatcherRepository interface {
	// Watch calls onChange with the changed file until ctx is done. Bursts of
	// events for the same file are coalesced into one call.
	Watch(ctx context.Context, projectPath string, files []string, onChange func(changed string)) error
}
