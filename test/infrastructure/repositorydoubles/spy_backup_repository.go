//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// SpyBackupRepository implements repositories.BackupRepository as a configurable spy.
type SpyBackupRepository struct {
	CreateErr  error
	RestoreErr error

	Created   []*entities.Backup
	Restored  []*entities.Backup
	Discarded []*entities.Backup
}

var _ repositories.BackupRepository = (*SpyBackupRepository)(nil)

func (s *SpyBackupRepository) Create(
	_ context.Context, projectPath string, files []string,
) (*entities.Backup, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	backup := &entities.Backup{ProjectPath: projectPath, Path: projectPath + "/.backup"}
	for _, file := range files {
		backup.Files = append(backup.Files, entities.BackupFile{Original: file, Existed: true})
	}
	s.Created = append(s.Created, backup)
	return backup, nil
}

func (s *SpyBackupRepository) Restore(ctx context.Context, backup *entities.Backup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Restored = append(s.Restored, backup)
	return s.RestoreErr
}

func (s *SpyBackupRepository) Discard(_ context.Context, backup *entities.Backup) error {
	s.Discarded = append(s.Discarded, backup)
	return nil
}

// StubWorkspaceRepository implements repositories.WorkspaceRepository.
type StubWorkspaceRepository struct {
	Dirty    bool
	CheckErr error
}

var _ repositories.WorkspaceRepository = (*StubWorkspaceRepository)(nil)

func (s *StubWorkspaceRepository) HasUncommittedChanges(
	_ context.Context, _ string, _ []string,
) (bool, error) {
	return s.Dirty, s.CheckErr
}

// StubWatcherRepository implements repositories.WatcherRepository by replaying
// Changes and returning.
type StubWatcherRepository struct {
	Changes  []string
	WatchErr error

	WatchedFiles []string
}

var _ repositories.WatcherRepository = (*StubWatcherRepository)(nil)

func (s *StubWatcherRepository) Watch(
	_ context.Context, _ string, files []string, onChange func(changed string),
) error {
	s.WatchedFiles = files
	if s.WatchErr != nil {
		return s.WatchErr
	}
	for _, changed := range s.Changes {
		onChange(changed)
	}
	return nil
}
