package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

const manifestFile = "package.json"

// lockFiles are the lock files written by npm, yarn and pnpm.
var lockFiles = []string{ //nolint:gochecknoglobals // fixed file list
	"package-lock.json",
	"npm-shrinkwrap.json",
	"yarn.lock",
	"pnpm-lock.yaml",
}

// ManifestRepository reads package.json files.
type ManifestRepository struct{}

// NewManifestRepository creates a new ManifestRepository.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

func (it *ManifestRepository) Read(_ context.Context, projectPath string) (*entities.Manifest, error) {
	path := filepath.Join(projectPath, manifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var manifest entities.Manifest
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, unmarshalErr)
	}
	return &manifest, nil
}

// Files returns package.json followed by every known lock file.
func (it *ManifestRepository) Files(projectPath string) []string {
	files := []string{filepath.Join(projectPath, manifestFile)}
	for _, lockFile := range lockFiles {
		files = append(files, filepath.Join(projectPath, lockFile))
	}
	return files
}
