package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// OutdatedRepository lists outdated packages with `npm outdated`.
type OutdatedRepository struct {
	runner CommandRunner
}

// NewOutdatedRepository creates a new OutdatedRepository.
func NewOutdatedRepository(runner CommandRunner) *OutdatedRepository {
	return &OutdatedRepository{runner: runner}
}

type outdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

// List runs `npm outdated --json`, which exits 1 whenever something is outdated.
// Packages that are declared but not installed have no current version and are skipped.
func (it *OutdatedRepository) List(ctx context.Context, projectPath string) ([]entities.OutdatedPackage, error) {
	output, runErr := it.runner.Run(ctx, projectPath, "npm", "outdated", "--json")
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrCollaboratorUnavailable, runErr)
		}
		return nil, nil
	}

	var entries map[string]outdatedEntry
	if err := json.Unmarshal(output, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse npm outdated output: %w", err)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var outdated []entities.OutdatedPackage
	for _, name := range names {
		entry := entries[name]
		if entry.Current == "" || entry.Latest == "" {
			continue
		}
		outdated = append(outdated, entities.OutdatedPackage{
			Name:    name,
			Current: entry.Current,
			Latest:  entry.Latest,
		})
	}
	return outdated, nil
}
