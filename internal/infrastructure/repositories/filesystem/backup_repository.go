package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

const backupTimeFormat = "20060102-150405"

// BackupRepository copies manifest and lock files into a timestamped directory.
type BackupRepository struct {
	baseDir string
	now     func() time.Time
}

// NewBackupRepository stores backups under settings.Update.BackupDir, or the
// OS temp directory when it is not set.
func NewBackupRepository(settings *entities.Settings) *BackupRepository {
	return &BackupRepository{baseDir: settings.Update.BackupDir, now: time.Now}
}

func (it *BackupRepository) Create(
	ctx context.Context,
	projectPath string,
	files []string,
) (*entities.Backup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseDir := it.baseDir
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %q: %w", baseDir, err)
	}

	createdAt := it.now()
	dir, err := os.MkdirTemp(baseDir, "depwatch-backup-"+createdAt.Format(backupTimeFormat)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	backup := &entities.Backup{ProjectPath: projectPath, Path: dir, CreatedAt: createdAt}
	for i, file := range files {
		entry := entities.BackupFile{Original: file}
		if _, statErr := os.Stat(file); statErr == nil {
			entry.Copy = filepath.Join(dir, strconv.Itoa(i)+"-"+filepath.Base(file))
			if copyErr := copyFile(file, entry.Copy); copyErr != nil {
				_ = os.RemoveAll(dir)
				return nil, fmt.Errorf("failed to back up %s: %w", file, copyErr)
			}
			entry.Existed = true
		} else if !errors.Is(statErr, os.ErrNotExist) {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to back up %s: %w", file, statErr)
		}
		backup.Files = append(backup.Files, entry)
	}

	logger.Infof("[backup] Saved %d files of %s to %s", len(backup.Files), projectPath, dir)
	return backup, nil
}

// Restore puts every backed-up file back and removes the files that did not
// exist when the backup was taken.
func (it *BackupRepository) Restore(ctx context.Context, backup *entities.Backup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error
	for _, file := range backup.Files {
		if !file.Existed {
			if err := os.Remove(file.Original); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("failed to remove %s: %w", file.Original, err))
			}
			continue
		}
		if err := copyFile(file.Copy, file.Original); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", file.Original, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Infof("[backup] Restored %s from %s", backup.ProjectPath, backup.Path)
	return nil
}

func (it *BackupRepository) Discard(_ context.Context, backup *entities.Backup) error {
	if backup == nil || backup.Path == "" {
		return nil
	}
	if err := os.RemoveAll(backup.Path); err != nil {
		return fmt.Errorf("failed to remove backup %s: %w", backup.Path, err)
	}
	return nil
}

func copyFile(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, data, info.Mode().Perm())
}
