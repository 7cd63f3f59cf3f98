//go:build unit

package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/filesystem"
)

func newRepository(t *testing.T) *filesystem.BackupRepository {
	t.Helper()
	settings := entities.DefaultSettings()
	settings.Update.BackupDir = filepath.Join(t.TempDir(), "backups")
	return filesystem.NewBackupRepository(settings)
}

func TestBackupRepository(t *testing.T) {
	t.Parallel()

	t.Run("should restore modified files byte for byte", func(t *testing.T) {
		t.Parallel()

		// given
		project := t.TempDir()
		manifest := filepath.Join(project, "package.json")
		original := []byte(`{"dependencies": {"lodash": "4.17.20"}}`)
		require.NoError(t, os.WriteFile(manifest, original, 0o644))
		repository := newRepository(t)
		backup, err := repository.Create(context.Background(), project, []string{manifest})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(manifest, []byte(`{"dependencies": {"lodash": "4.17.21"}}`), 0o644))

		// when
		err = repository.Restore(context.Background(), backup)

		// then
		require.NoError(t, err)
		restored, readErr := os.ReadFile(manifest)
		require.NoError(t, readErr)
		assert.Equal(t, original, restored)
	})

	t.Run("should remove files that did not exist when the backup was taken", func(t *testing.T) {
		t.Parallel()

		// given
		project := t.TempDir()
		lockFile := filepath.Join(project, "package-lock.json")
		repository := newRepository(t)
		backup, err := repository.Create(context.Background(), project, []string{lockFile})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(lockFile, []byte(`{}`), 0o644))

		// when
		err = repository.Restore(context.Background(), backup)

		// then
		require.NoError(t, err)
		assert.False(t, backup.Files[0].Existed)
		assert.NoFileExists(t, lockFile)
	})

	t.Run("should delete the backup directory on discard", func(t *testing.T) {
		t.Parallel()

		// given
		project := t.TempDir()
		manifest := filepath.Join(project, "package.json")
		require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0o644))
		repository := newRepository(t)
		backup, err := repository.Create(context.Background(), project, []string{manifest})
		require.NoError(t, err)
		require.DirExists(t, backup.Path)

		// when
		err = repository.Discard(context.Background(), backup)

		// then
		require.NoError(t, err)
		assert.NoDirExists(t, backup.Path)
	})

	t.Run("should refuse to back up with a cancelled context", func(t *testing.T) {
		t.Parallel()

		// given
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		repository := newRepository(t)

		// when
		_, err := repository.Create(ctx, t.TempDir(), nil)

		// then
		assert.ErrorIs(t, err, context.Canceled)
	})
}
